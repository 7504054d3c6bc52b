package app

import (
	"context"
	"fmt"

	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	sheets   secondary.SheetRepository
	auditLog secondary.AuditRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(sheets secondary.SheetRepository, auditLog secondary.AuditRepository) *LogServiceImpl {
	return &LogServiceImpl{
		sheets:   sheets,
		auditLog: auditLog,
	}
}

// ListSheetLog retrieves the audit entries of one sheet.
func (s *LogServiceImpl) ListSheetLog(ctx context.Context, ownerID string, sheetID int64) ([]*primary.LogEntry, error) {
	if _, err := loadEditable(ctx, s.sheets, ownerID, sheetID); err != nil {
		return nil, err
	}

	records, err := s.auditLog.ListByEntity(ctx, "sheet", idString(sheetID))
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}

	entries := make([]*primary.LogEntry, len(records))
	for i, r := range records {
		entries[i] = recordToLogEntry(r)
	}
	return entries, nil
}

func recordToLogEntry(r *secondary.AuditRecord) *primary.LogEntry {
	return &primary.LogEntry{
		ID:         r.ID,
		ActorID:    r.ActorID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
		CreatedAt:  r.CreatedAt,
	}
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
