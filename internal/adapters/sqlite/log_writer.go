package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cocsheet/internal/ctxutil"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// AuditRepository implements secondary.AuditRepository with SQLite.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new SQLite audit repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an audit entry.
func (r *AuditRepository) Create(ctx context.Context, e *secondary.AuditRecord) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO audit_log (actor_id, entity_type, entity_id, action, field_name, old_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ActorID, e.EntityType, e.EntityID, e.Action,
		nullString(e.FieldName), nullString(e.OldValue), nullString(e.NewValue),
	)
	if err != nil {
		return classify(err, "failed to write audit entry")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read audit entry id: %w", err)
	}
	e.ID = id
	return nil
}

// ListByEntity retrieves entries for one entity, oldest first.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*secondary.AuditRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value, created_at
		FROM audit_log WHERE entity_type = ? AND entity_id = ? ORDER BY id`, entityType, entityID)
	if err != nil {
		return nil, classify(err, "failed to list audit entries")
	}
	defer rows.Close()

	var entries []*secondary.AuditRecord
	for rows.Next() {
		var (
			e                 secondary.AuditRecord
			field, oldV, newV sql.NullString
			createdAt         time.Time
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.EntityType, &e.EntityID, &e.Action, &field, &oldV, &newV, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.FieldName = field.String
		e.OldValue = oldV.String
		e.NewValue = newV.String
		e.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// LogWriterAdapter implements secondary.LogWriter using AuditRepository.
type LogWriterAdapter struct {
	auditRepo secondary.AuditRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(auditRepo secondary.AuditRepository) *LogWriterAdapter {
	return &LogWriterAdapter{auditRepo: auditRepo}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, entityType, entityID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "delete", "", "", "")
}

// writeLog writes a log entry with common logic. The actor comes from ctx
// and may be empty for system operations such as restores.
func (w *LogWriterAdapter) writeLog(ctx context.Context, entityType, entityID, action, fieldName, oldValue, newValue string) error {
	return w.auditRepo.Create(ctx, &secondary.AuditRecord{
		ActorID:    ctxutil.ActorFromContext(ctx),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
}

var (
	_ secondary.AuditRepository = (*AuditRepository)(nil)
	_ secondary.LogWriter       = (*LogWriterAdapter)(nil)
)
