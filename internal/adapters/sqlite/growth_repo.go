package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// GrowthRepository implements secondary.GrowthRepository with SQLite.
type GrowthRepository struct {
	db *sql.DB
}

// NewGrowthRepository creates a new SQLite growth repository.
func NewGrowthRepository(db *sql.DB) *GrowthRepository {
	return &GrowthRepository{db: db}
}

const growthColumns = `id, sheet_id, session_date, scenario_name, gm_name, sanity_gained, sanity_lost,
	experience_gained, special_rewards, notes, created_at`

// Create persists a new growth record.
func (r *GrowthRepository) Create(ctx context.Context, g *secondary.GrowthRecord) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO growth_records (sheet_id, session_date, scenario_name, gm_name, sanity_gained, sanity_lost,
			experience_gained, special_rewards, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.SheetID, g.SessionDate, g.ScenarioName, g.GMName, g.SanityGained, g.SanityLost,
		g.ExperienceGained, g.SpecialRewards, g.Notes,
	)
	if err != nil {
		return classify(err, "failed to create growth record")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read growth record id: %w", err)
	}
	g.ID = id
	return nil
}

// GetByID retrieves a growth record by its ID.
func (r *GrowthRepository) GetByID(ctx context.Context, id int64) (*secondary.GrowthRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+growthColumns+" FROM growth_records WHERE id = ?", id)
	record, err := scanGrowth(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("growth record %d not found", id)
	}
	if err != nil {
		return nil, classify(err, "failed to get growth record")
	}
	return record, nil
}

// ListBySheet retrieves a sheet's records, newest session first.
func (r *GrowthRepository) ListBySheet(ctx context.Context, sheetID int64) ([]*secondary.GrowthRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+growthColumns+" FROM growth_records WHERE sheet_id = ? ORDER BY session_date DESC, id DESC", sheetID)
	if err != nil {
		return nil, classify(err, "failed to list growth records")
	}
	defer rows.Close()

	var records []*secondary.GrowthRecord
	for rows.Next() {
		record, err := scanGrowth(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan growth record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list growth records: %w", err)
	}
	return records, nil
}

// AddSkillGrowth persists a child row.
func (r *GrowthRepository) AddSkillGrowth(ctx context.Context, g *secondary.SkillGrowthRecord) error {
	var roll sql.NullInt64
	if g.GrowthRollResult != nil {
		roll = sql.NullInt64{Int64: int64(*g.GrowthRollResult), Valid: true}
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO skill_growths (growth_record_id, skill_name, had_experience_check, growth_roll_result,
			old_value, new_value, growth_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.GrowthRecordID, g.SkillName, boolToInt(g.HadExperienceCheck), roll,
		g.OldValue, g.NewValue, g.GrowthAmount,
	)
	if err != nil {
		return classify(err, "failed to add skill growth")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read skill growth id: %w", err)
	}
	g.ID = id
	return nil
}

// ListSkillGrowths retrieves the children of one record ordered by ID.
func (r *GrowthRepository) ListSkillGrowths(ctx context.Context, growthRecordID int64) ([]*secondary.SkillGrowthRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, growth_record_id, skill_name, had_experience_check, growth_roll_result, old_value, new_value, growth_amount
		FROM skill_growths WHERE growth_record_id = ? ORDER BY id`, growthRecordID)
	if err != nil {
		return nil, classify(err, "failed to list skill growths")
	}
	defer rows.Close()

	var growths []*secondary.SkillGrowthRecord
	for rows.Next() {
		var (
			g        secondary.SkillGrowthRecord
			hadCheck int
			roll     sql.NullInt64
		)
		if err := rows.Scan(&g.ID, &g.GrowthRecordID, &g.SkillName, &hadCheck, &roll, &g.OldValue, &g.NewValue, &g.GrowthAmount); err != nil {
			return nil, fmt.Errorf("failed to scan skill growth: %w", err)
		}
		g.HadExperienceCheck = hadCheck != 0
		if roll.Valid {
			v := int(roll.Int64)
			g.GrowthRollResult = &v
		}
		growths = append(growths, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list skill growths: %w", err)
	}
	return growths, nil
}

func scanGrowth(row scanner) (*secondary.GrowthRecord, error) {
	var (
		g         secondary.GrowthRecord
		createdAt time.Time
	)
	err := row.Scan(&g.ID, &g.SheetID, &g.SessionDate, &g.ScenarioName, &g.GMName, &g.SanityGained, &g.SanityLost,
		&g.ExperienceGained, &g.SpecialRewards, &g.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	g.CreatedAt = createdAt.Format(time.RFC3339)
	return &g, nil
}

var _ secondary.GrowthRepository = (*GrowthRepository)(nil)
