package services

import (
	"context"

	"diaria/internal/core"
)

// Repository is the storage surface the services need. Implemented by
// storage.SQLiteRepository.
type Repository interface {
	CreateUser(ctx context.Context, u core.User) (core.User, error)
	GetUser(ctx context.Context, id string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)

	CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error)
	GetEntry(ctx context.Context, id string) (core.Entry, error)
	UpdateEntry(ctx context.Context, e core.Entry) (core.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, userID string, skip, take int) ([]core.Entry, int, error)
	EntriesInRange(ctx context.Context, userID string, start, end core.Date) ([]core.Entry, error)
	EntriesForUser(ctx context.Context, userID string) ([]core.Entry, error)
	EntriesOnDay(ctx context.Context, userID string, date core.Date) ([]core.Entry, error)
	RecentEntries(ctx context.Context, userID string, limit int) ([]core.Entry, error)
}

// Publisher notifies the export pipeline about entry changes. Implemented by
// amqp.Client.
type Publisher interface {
	PublishEntryExport(ctx context.Context, entryID, action string) error
}
