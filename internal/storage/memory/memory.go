// Package memory implements the storage surface on plain maps. It backs
// local development without a database file and the HTTP handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"diaria/internal/core"
	"diaria/internal/storage"
)

type Repository struct {
	mu      sync.RWMutex
	users   map[string]core.User
	entries map[string]core.Entry
	seq     int
}

func New() *Repository {
	return &Repository{
		users:   make(map[string]core.User),
		entries: make(map[string]core.Entry),
	}
}

// Ping always succeeds; the store lives in process memory.
func (r *Repository) Ping(ctx context.Context) error {
	return nil
}

func (r *Repository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return core.User{}, storage.ErrEmailTaken
		}
	}

	u.ID = uuid.NewString()
	now := time.Now().UTC()
	r.seq++
	// Preserve insertion order for same-timestamp users
	u.CreatedAt = now.Add(time.Duration(r.seq) * time.Nanosecond)
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return u, nil
}

func (r *Repository) GetUser(ctx context.Context, id string) (core.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, storage.ErrNotFound
}

func (r *Repository) ListUsers(ctx context.Context) ([]core.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].CreatedAt.Before(out[i].CreatedAt) })
	return out, nil
}

func (r *Repository) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = uuid.NewString()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.seq++
	// Preserve insertion order for same-timestamp entries
	e.CreatedAt = e.CreatedAt.Add(time.Duration(r.seq) * time.Nanosecond)
	r.entries[e.ID] = e
	return e, nil
}

func (r *Repository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return core.Entry{}, storage.ErrNotFound
	}
	return e, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[e.ID]
	if !ok {
		return core.Entry{}, storage.ErrNotFound
	}
	e.CreatedAt = stored.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	r.entries[e.ID] = e
	return e, nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

// userEntries selects one user's entries, or every entry when userID is "".
func (r *Repository) userEntries(userID string) []core.Entry {
	var out []core.Entry
	for _, e := range r.entries {
		if userID == "" || e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func sortByDateAsc(entries []core.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

func sortByDateDesc(entries []core.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[j].Date.Before(entries[i].Date)
		}
		return entries[j].CreatedAt.Before(entries[i].CreatedAt)
	})
}

func (r *Repository) ListEntries(ctx context.Context, userID string, skip, take int) ([]core.Entry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.userEntries(userID)
	sortByDateDesc(all)
	total := len(all)
	if skip >= total {
		return nil, total, nil
	}
	end := skip + take
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (r *Repository) EntriesInRange(ctx context.Context, userID string, start, end core.Date) ([]core.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Entry
	for _, e := range r.userEntries(userID) {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	sortByDateAsc(out)
	return out, nil
}

func (r *Repository) EntriesForUser(ctx context.Context, userID string) ([]core.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.userEntries(userID)
	sortByDateDesc(out)
	return out, nil
}

func (r *Repository) EntriesOnDay(ctx context.Context, userID string, date core.Date) ([]core.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Entry
	for _, e := range r.userEntries(userID) {
		if e.Date == date {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Repository) RecentEntries(ctx context.Context, userID string, limit int) ([]core.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.userEntries(userID)
	sortByDateDesc(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
