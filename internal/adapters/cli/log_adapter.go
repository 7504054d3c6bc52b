package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/cocsheet/internal/ports/primary"
)

// LogAdapter prints a sheet's audit trail.
type LogAdapter struct {
	service primary.LogService
	actor   string
	out     io.Writer
}

// NewLogAdapter creates a new LogAdapter acting as actor.
func NewLogAdapter(service primary.LogService, actor string, out io.Writer) *LogAdapter {
	return &LogAdapter{service: service, actor: actor, out: out}
}

// List prints every audit entry of a sheet.
func (a *LogAdapter) List(ctx context.Context, sheetID int64) error {
	entries, err := a.service.ListSheetLog(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No log entries found")
		return nil
	}

	for _, e := range entries {
		actor := e.ActorID
		if actor == "" {
			actor = "-"
		}
		fmt.Fprintf(a.out, "%s  %-8s %-7s", dimmed.Sprint(e.CreatedAt), actor, e.Action)
		if e.FieldName != "" {
			fmt.Fprintf(a.out, " %s: %q -> %q", e.FieldName, e.OldValue, e.NewValue)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}
