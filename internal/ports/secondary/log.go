package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, entityType, entityID string) error
}

// AuditRepository defines the secondary port for the audit log table.
type AuditRepository interface {
	// Create appends an audit entry and sets its ID.
	Create(ctx context.Context, entry *AuditRecord) error

	// ListByEntity retrieves entries for one entity, oldest first.
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*AuditRecord, error)
}

// AuditRecord represents one audit log row.
type AuditRecord struct {
	ID         int64
	ActorID    string
	EntityType string
	EntityID   string
	Action     string // create, update, delete
	FieldName  string // Empty string means null
	OldValue   string // Empty string means null
	NewValue   string // Empty string means null
	CreatedAt  string
}
