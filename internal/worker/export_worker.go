package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"diaria/internal/amqp"
	"diaria/internal/core"
	"diaria/internal/sheets"
	"diaria/internal/storage"
)

// Store is the storage surface the worker needs.
type Store interface {
	GetEntry(ctx context.Context, id string) (core.Entry, error)
	PendingExportEntries(ctx context.Context, limit int) ([]core.Entry, error)
	MarkExported(ctx context.Context, id string) error
	MarkExportError(ctx context.Context, id string) error
}

// ExportWorker moves entries from SQLite to the spreadsheet. It reacts to
// AMQP messages and periodically re-scans for pending entries, so entries
// whose message was lost still get exported.
type ExportWorker struct {
	store     Store
	appender  sheets.EntryAppender
	remover   sheets.EntryRemover
	batchSize int
}

func NewExportWorker(store Store, appender sheets.EntryAppender, remover sheets.EntryRemover, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		appender:  appender,
		remover:   remover,
		batchSize: batchSize,
	}
}

// HandleMessage processes a single export message from AMQP
func (w *ExportWorker) HandleMessage(ctx context.Context, msg *amqp.EntryExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"entry_id", msg.EntryID,
		"action", msg.Action)

	switch msg.Action {
	case amqp.ActionDelete:
		return w.removeEntry(ctx, msg.EntryID)
	case amqp.ActionExport, "":
		return w.exportByID(ctx, msg.EntryID)
	default:
		// Unknown actions are dropped, requeueing them would loop forever
		slog.WarnContext(ctx, "Unknown export action, dropping message",
			"entry_id", msg.EntryID, "action", msg.Action)
		return nil
	}
}

func (w *ExportWorker) exportByID(ctx context.Context, entryID string) error {
	entry, err := w.store.GetEntry(ctx, entryID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the export ran
		slog.WarnContext(ctx, "Entry no longer exists, skipping export", "entry_id", entryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	return w.exportEntry(ctx, entry)
}

func (w *ExportWorker) exportEntry(ctx context.Context, entry core.Entry) error {
	if w.appender == nil {
		slog.WarnContext(ctx, "No export target configured, skipping", "entry_id", entry.ID)
		return nil
	}

	ref, err := w.appender.Append(ctx, entry)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, entry.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to record export error",
				"entry_id", entry.ID, "error", markErr)
		}
		return fmt.Errorf("append entry to sheet: %w", err)
	}

	if err := w.store.MarkExported(ctx, entry.ID); err != nil {
		return fmt.Errorf("mark entry exported: %w", err)
	}

	slog.InfoContext(ctx, "Entry exported",
		"entry_id", entry.ID,
		"date", entry.Date.String(),
		"net_cents", entry.Net.Cents,
		"export_ref", ref)
	return nil
}

func (w *ExportWorker) removeEntry(ctx context.Context, entryID string) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "No remover configured, skipping spreadsheet deletion",
			"entry_id", entryID)
		return nil
	}

	if err := w.remover.Remove(ctx, entryID); err != nil {
		return fmt.Errorf("remove entry from sheet: %w", err)
	}

	slog.InfoContext(ctx, "Entry removed from export target", "entry_id", entryID)
	return nil
}

// ProcessPending exports one batch of pending entries and reports how many
// succeeded.
func (w *ExportWorker) ProcessPending(ctx context.Context) (int, error) {
	pending, err := w.store.PendingExportEntries(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("load pending entries: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending export entries", "count", len(pending))

	exported := 0
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return exported, err
		}
		if err := w.exportEntry(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending entry",
				"entry_id", entry.ID, "error", err)
			continue
		}
		exported++
	}
	return exported, nil
}

// Run re-scans for pending entries on a fixed interval until the context is
// cancelled. An immediate scan runs at startup to drain the backlog.
func (w *ExportWorker) Run(ctx context.Context, interval time.Duration) error {
	if n, err := w.ProcessPending(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup export scan failed", "error", err)
	} else if n > 0 {
		slog.InfoContext(ctx, "Startup export scan finished", "exported", n)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Export worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if n, err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export scan failed", "error", err)
			} else if n > 0 {
				slog.InfoContext(ctx, "Periodic export scan finished", "exported", n)
			}
		}
	}
}
