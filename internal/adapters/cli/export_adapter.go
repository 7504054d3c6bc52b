package cli

import (
	"context"
	"io"

	"github.com/example/cocsheet/internal/ports/primary"
)

// ExportAdapter writes exported documents.
type ExportAdapter struct {
	service primary.ExportService
	actor   string
	out     io.Writer
}

// NewExportAdapter creates a new ExportAdapter acting as actor.
func NewExportAdapter(service primary.ExportService, actor string, out io.Writer) *ExportAdapter {
	return &ExportAdapter{service: service, actor: actor, out: out}
}

// CCFOLIA writes the sheet's CCFOLIA document followed by a newline.
func (a *ExportAdapter) CCFOLIA(ctx context.Context, sheetID int64) error {
	doc, err := a.service.ExportCCFOLIA(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	if _, err := a.out.Write(doc); err != nil {
		return err
	}
	_, err = io.WriteString(a.out, "\n")
	return err
}
