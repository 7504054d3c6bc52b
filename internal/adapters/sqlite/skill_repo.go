package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// SkillRepository implements secondary.SkillRepository with SQLite.
type SkillRepository struct {
	db *sql.DB
}

// NewSkillRepository creates a new SQLite skill repository.
func NewSkillRepository(db *sql.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

const skillColumns = `id, sheet_id, skill_name, category, base_value, occupation_points, interest_points,
	bonus_points, other_points, current_value, notes, created_at, updated_at`

// Create persists a new skill.
func (r *SkillRepository) Create(ctx context.Context, s *secondary.SkillRecord) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO skills (sheet_id, skill_name, category, base_value, occupation_points, interest_points,
			bonus_points, other_points, current_value, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SheetID, s.Name, s.Category, s.BaseValue, s.OccupationPoints, s.InterestPoints,
		s.BonusPoints, s.OtherPoints, s.CurrentValue, s.Notes,
	)
	if err != nil {
		return errs.WithField(classify(err, "failed to create skill %q", s.Name), "skill_name")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read skill id: %w", err)
	}
	s.ID = id
	return nil
}

// GetByID retrieves a skill by its ID.
func (r *SkillRepository) GetByID(ctx context.Context, id int64) (*secondary.SkillRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+skillColumns+" FROM skills WHERE id = ?", id)
	record, err := scanSkill(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("skill %d not found", id)
	}
	if err != nil {
		return nil, classify(err, "failed to get skill")
	}
	return record, nil
}

// GetByName retrieves a skill by sheet and exact name.
func (r *SkillRepository) GetByName(ctx context.Context, sheetID int64, name string) (*secondary.SkillRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE sheet_id = ? AND skill_name = ?", sheetID, name)
	record, err := scanSkill(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("skill %q not found on sheet %d", name, sheetID)
	}
	if err != nil {
		return nil, classify(err, "failed to get skill")
	}
	return record, nil
}

// ListBySheet retrieves a sheet's skills ordered by ID.
func (r *SkillRepository) ListBySheet(ctx context.Context, sheetID int64) ([]*secondary.SkillRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE sheet_id = ? ORDER BY id", sheetID)
	if err != nil {
		return nil, classify(err, "failed to list skills")
	}
	defer rows.Close()

	var skills []*secondary.SkillRecord
	for rows.Next() {
		record, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

// Update writes every mutable column of an existing skill.
func (r *SkillRepository) Update(ctx context.Context, s *secondary.SkillRecord) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE skills SET skill_name = ?, category = ?, base_value = ?, occupation_points = ?, interest_points = ?,
			bonus_points = ?, other_points = ?, current_value = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		s.Name, s.Category, s.BaseValue, s.OccupationPoints, s.InterestPoints,
		s.BonusPoints, s.OtherPoints, s.CurrentValue, s.Notes, s.ID,
	)
	if err != nil {
		return errs.WithField(classify(err, "failed to update skill %q", s.Name), "skill_name")
	}
	return requireAffected(res, "skill", s.ID)
}

// Delete removes a skill.
func (r *SkillRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM skills WHERE id = ?", id)
	if err != nil {
		return classify(err, "failed to delete skill")
	}
	return requireAffected(res, "skill", id)
}

func scanSkill(row scanner) (*secondary.SkillRecord, error) {
	var (
		s         secondary.SkillRecord
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&s.ID, &s.SheetID, &s.Name, &s.Category, &s.BaseValue, &s.OccupationPoints, &s.InterestPoints,
		&s.BonusPoints, &s.OtherPoints, &s.CurrentValue, &s.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = createdAt.Format(time.RFC3339)
	s.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &s, nil
}

var _ secondary.SkillRepository = (*SkillRepository)(nil)
