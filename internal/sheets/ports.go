package sheets

import (
	"context"

	"diaria/internal/core"
)

// Ports for outbound export adapters.
type (
	// EntryAppender appends a ledger entry as a spreadsheet row.
	EntryAppender interface {
		Append(ctx context.Context, e core.Entry) (rowRef string, err error)
	}

	// EntryRemover removes a previously exported entry from the spreadsheet.
	EntryRemover interface {
		Remove(ctx context.Context, entryID string) error
	}
)
