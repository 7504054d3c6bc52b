package primary

import "context"

// LogService defines the primary port for reading the audit trail.
type LogService interface {
	// ListSheetLog returns a sheet's audit entries, oldest first. Owner only.
	ListSheetLog(ctx context.Context, ownerID string, sheetID int64) ([]*LogEntry, error)
}

// LogEntry represents an audit log entry at the port boundary.
type LogEntry struct {
	ID         int64
	ActorID    string
	EntityType string
	EntityID   string
	Action     string // 'create', 'update', 'delete'
	FieldName  string // For updates only
	OldValue   string
	NewValue   string
	CreatedAt  string
}
