package worker

import (
	"context"
	"errors"
	"testing"

	"diaria/internal/amqp"
	"diaria/internal/core"
	"diaria/internal/sheets/memory"
	"diaria/internal/storage"
)

type fakeStore struct {
	entries      map[string]core.Entry
	exported     map[string]bool
	exportErrors map[string]bool
}

func newFakeStore(entries ...core.Entry) *fakeStore {
	s := &fakeStore{
		entries:      make(map[string]core.Entry),
		exported:     make(map[string]bool),
		exportErrors: make(map[string]bool),
	}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return s
}

func (s *fakeStore) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return core.Entry{}, storage.ErrNotFound
	}
	return e, nil
}

func (s *fakeStore) PendingExportEntries(ctx context.Context, limit int) ([]core.Entry, error) {
	var out []core.Entry
	for _, e := range s.entries {
		if !s.exported[e.ID] && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkExported(ctx context.Context, id string) error {
	s.exported[id] = true
	return nil
}

func (s *fakeStore) MarkExportError(ctx context.Context, id string) error {
	s.exportErrors[id] = true
	return nil
}

type failingAppender struct{}

func (failingAppender) Append(ctx context.Context, e core.Entry) (string, error) {
	return "", errors.New("quota exceeded")
}

func testEntry(id string) core.Entry {
	date := core.NewDate(2024, 5, 6)
	return core.Entry{
		ID:        id,
		UserID:    "user-1",
		Date:      date,
		DayOfWeek: core.WeekdayName(date),
		Gross:     core.Money{Cents: 10000},
		Expenses:  core.Money{Cents: 2000},
		Net:       core.Money{Cents: 8000},
	}
}

func TestHandleMessage_Export(t *testing.T) {
	store := newFakeStore(testEntry("entry-1"))
	target := memory.New()
	w := NewExportWorker(store, target, target, 10)

	err := w.HandleMessage(context.Background(), amqp.NewEntryExportMessage("entry-1", amqp.ActionExport))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if rows := target.Entries(); len(rows) != 1 || rows[0].ID != "entry-1" {
		t.Fatalf("unexpected export target contents: %+v", rows)
	}
	if !store.exported["entry-1"] {
		t.Error("entry should be marked exported")
	}
}

func TestHandleMessage_ExportMissingEntry(t *testing.T) {
	store := newFakeStore()
	target := memory.New()
	w := NewExportWorker(store, target, target, 10)

	// Entry deleted before the message arrived: ack, don't requeue.
	err := w.HandleMessage(context.Background(), amqp.NewEntryExportMessage("gone", amqp.ActionExport))
	if err != nil {
		t.Fatalf("missing entry should not be an error: %v", err)
	}
	if len(target.Entries()) != 0 {
		t.Error("nothing should be exported")
	}
}

func TestHandleMessage_Delete(t *testing.T) {
	store := newFakeStore(testEntry("entry-1"))
	target := memory.New()
	w := NewExportWorker(store, target, target, 10)
	ctx := context.Background()

	if err := w.HandleMessage(ctx, amqp.NewEntryExportMessage("entry-1", amqp.ActionExport)); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := w.HandleMessage(ctx, amqp.NewEntryExportMessage("entry-1", amqp.ActionDelete)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(target.Entries()) != 0 {
		t.Fatalf("entry should be removed from target, got %+v", target.Entries())
	}
}

func TestHandleMessage_UnknownActionDropped(t *testing.T) {
	store := newFakeStore(testEntry("entry-1"))
	target := memory.New()
	w := NewExportWorker(store, target, target, 10)

	if err := w.HandleMessage(context.Background(), amqp.NewEntryExportMessage("entry-1", "compact")); err != nil {
		t.Fatalf("unknown action should be dropped, got %v", err)
	}
}

func TestHandleMessage_AppendFailureMarksError(t *testing.T) {
	store := newFakeStore(testEntry("entry-1"))
	w := NewExportWorker(store, failingAppender{}, nil, 10)

	err := w.HandleMessage(context.Background(), amqp.NewEntryExportMessage("entry-1", amqp.ActionExport))
	if err == nil {
		t.Fatal("expected error from failing appender")
	}
	if !store.exportErrors["entry-1"] {
		t.Error("entry should be marked with export error")
	}
	if store.exported["entry-1"] {
		t.Error("entry must not be marked exported")
	}
}

func TestProcessPending(t *testing.T) {
	store := newFakeStore(testEntry("entry-1"), testEntry("entry-2"), testEntry("entry-3"))
	target := memory.New()
	w := NewExportWorker(store, target, target, 10)

	n, err := w.ProcessPending(context.Background())
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if n != 3 {
		t.Fatalf("exported = %d, want 3", n)
	}

	// Second scan finds nothing pending.
	n, err = w.ProcessPending(context.Background())
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if n != 0 {
		t.Fatalf("exported = %d, want 0", n)
	}
}

func TestProcessPending_NoTargetConfigured(t *testing.T) {
	store := newFakeStore(testEntry("entry-1"))
	w := NewExportWorker(store, nil, nil, 10)

	// Without a target the scan is a no-op that marks nothing.
	n, err := w.ProcessPending(context.Background())
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if n != 1 {
		t.Fatalf("exported = %d, want 1 (skipped but not failed)", n)
	}
}
