package services

import (
	"context"
	"fmt"
	"log/slog"

	"diaria/internal/amqp"
	"diaria/internal/core"
)

// EntryService orchestrates entry operations across storage and the export
// pipeline. Export publishing is best-effort: the worker re-scans pending
// entries, so a lost message never loses data.
type EntryService struct {
	repo      Repository
	publisher Publisher
}

func NewEntryService(repo Repository, publisher Publisher) *EntryService {
	return &EntryService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateEntryInput carries the fields accepted when recording a work day
type CreateEntryInput struct {
	UserID      string
	Date        core.Date
	DayOfWeek   string
	Gross       core.Money
	Expenses    core.Money
	Description string
}

// UpdateEntryInput is a partial update; nil fields keep the stored value
type UpdateEntryInput struct {
	Date        *core.Date
	DayOfWeek   *string
	Gross       *core.Money
	Expenses    *core.Money
	Description *string
}

func (s *EntryService) Create(ctx context.Context, in CreateEntryInput) (core.Entry, error) {
	if _, err := s.repo.GetUser(ctx, in.UserID); err != nil {
		return core.Entry{}, fmt.Errorf("lookup user: %w", err)
	}

	dayOfWeek := in.DayOfWeek
	if dayOfWeek == "" {
		dayOfWeek = core.WeekdayName(in.Date)
	}

	e := core.Entry{
		UserID:      in.UserID,
		Date:        in.Date,
		DayOfWeek:   dayOfWeek,
		Gross:       in.Gross,
		Expenses:    in.Expenses,
		Net:         core.Net(in.Gross, in.Expenses),
		Description: in.Description,
	}
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	created, err := s.repo.CreateEntry(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("create entry: %w", err)
	}

	s.publish(ctx, created.ID, amqp.ActionExport)
	return created, nil
}

func (s *EntryService) Get(ctx context.Context, id string) (core.Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

// Update merges the patch over the stored entry, recomputes the net amount
// and persists the result.
func (s *EntryService) Update(ctx context.Context, id string, in UpdateEntryInput) (core.Entry, error) {
	e, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return core.Entry{}, err
	}

	if in.Date != nil {
		e.Date = *in.Date
		if in.DayOfWeek == nil {
			e.DayOfWeek = core.WeekdayName(e.Date)
		}
	}
	if in.DayOfWeek != nil {
		e.DayOfWeek = *in.DayOfWeek
	}
	if in.Gross != nil {
		e.Gross = *in.Gross
	}
	if in.Expenses != nil {
		e.Expenses = *in.Expenses
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	e.Net = core.Net(e.Gross, e.Expenses)

	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	updated, err := s.repo.UpdateEntry(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update entry: %w", err)
	}

	s.publish(ctx, updated.ID, amqp.ActionExport)
	return updated, nil
}

func (s *EntryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id, amqp.ActionDelete)
	return nil
}

func (s *EntryService) List(ctx context.Context, userID string, skip, take int) ([]core.Entry, int, error) {
	return s.repo.ListEntries(ctx, userID, skip, take)
}

func (s *EntryService) publish(ctx context.Context, entryID, action string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Export publisher not available, skipping message",
			"entry_id", entryID, "action", action)
		return
	}
	if err := s.publisher.PublishEntryExport(ctx, entryID, action); err != nil {
		// Entry is saved locally, the worker re-scan will pick it up
		slog.ErrorContext(ctx, "Failed to publish export message",
			"entry_id", entryID, "action", action, "error", err)
	}
}
