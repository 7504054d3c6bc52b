package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// SheetRepository implements secondary.SheetRepository with SQLite.
type SheetRepository struct {
	db *sql.DB
}

// NewSheetRepository creates a new SQLite sheet repository.
func NewSheetRepository(db *sql.DB) *SheetRepository {
	return &SheetRepository{db: db}
}

const sheetColumns = `id, owner_id, edition, name, player_name, age, gender, occupation, birthplace, residence,
	str_score, con_score, pow_score, dex_score, app_score, siz_score, int_score, edu_score,
	occupation_multiplier, hp_max, hp_current, mp_max, mp_current, san_start, san_max, san_current,
	status, version, parent_sheet_id, version_note, session_count, is_active, is_public, created_at, updated_at`

// Create persists a new sheet.
func (r *SheetRepository) Create(ctx context.Context, s *secondary.SheetRecord) error {
	a := s.Abilities
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO sheets (owner_id, edition, name, player_name, age, gender, occupation, birthplace, residence,
			str_score, con_score, pow_score, dex_score, app_score, siz_score, int_score, edu_score,
			occupation_multiplier, hp_max, hp_current, mp_max, mp_current, san_start, san_max, san_current,
			status, version, parent_sheet_id, version_note, session_count, is_active, is_public)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.OwnerID, s.Edition, s.Name, s.PlayerName, s.Age, s.Gender, s.Occupation, s.Birthplace, s.Residence,
		a.STR, a.CON, a.POW, a.DEX, a.APP, a.SIZ, a.INT, a.EDU,
		s.OccupationMultiplier, s.HPMax, s.HPCurrent, s.MPMax, s.MPCurrent, s.SanStart, s.SanMax, s.SanCurrent,
		s.Status, s.Version, nullInt64(s.ParentSheetID), s.VersionNote, s.SessionCount,
		boolToInt(s.IsActive), boolToInt(s.IsPublic),
	)
	if err != nil {
		return classify(err, "failed to create sheet")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read sheet id: %w", err)
	}
	s.ID = id
	return nil
}

// GetByID retrieves a sheet by its ID.
func (r *SheetRepository) GetByID(ctx context.Context, id int64) (*secondary.SheetRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+sheetColumns+" FROM sheets WHERE id = ?", id)
	record, err := scanSheet(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("sheet %d not found", id)
	}
	if err != nil {
		return nil, classify(err, "failed to get sheet")
	}
	return record, nil
}

// Update writes every mutable column of an existing sheet.
func (r *SheetRepository) Update(ctx context.Context, s *secondary.SheetRecord) error {
	a := s.Abilities
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE sheets SET name = ?, player_name = ?, age = ?, gender = ?, occupation = ?, birthplace = ?, residence = ?,
			str_score = ?, con_score = ?, pow_score = ?, dex_score = ?, app_score = ?, siz_score = ?, int_score = ?, edu_score = ?,
			occupation_multiplier = ?, hp_max = ?, hp_current = ?, mp_max = ?, mp_current = ?,
			san_start = ?, san_max = ?, san_current = ?, status = ?, version_note = ?, session_count = ?,
			is_active = ?, is_public = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		s.Name, s.PlayerName, s.Age, s.Gender, s.Occupation, s.Birthplace, s.Residence,
		a.STR, a.CON, a.POW, a.DEX, a.APP, a.SIZ, a.INT, a.EDU,
		s.OccupationMultiplier, s.HPMax, s.HPCurrent, s.MPMax, s.MPCurrent,
		s.SanStart, s.SanMax, s.SanCurrent, s.Status, s.VersionNote, s.SessionCount,
		boolToInt(s.IsActive), boolToInt(s.IsPublic),
		s.ID,
	)
	if err != nil {
		return classify(err, "failed to update sheet")
	}
	return requireAffected(res, "sheet", s.ID)
}

// Delete removes a sheet. Child rows and descendant versions cascade.
func (r *SheetRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM sheets WHERE id = ?", id)
	if err != nil {
		return classify(err, "failed to delete sheet")
	}
	return requireAffected(res, "sheet", id)
}

// List retrieves sheets matching the given filters, newest first.
func (r *SheetRepository) List(ctx context.Context, filters secondary.SheetFilters) ([]*secondary.SheetRecord, error) {
	query := "SELECT " + sheetColumns + " FROM sheets WHERE 1=1"
	args := []any{}

	if filters.OwnerID != "" {
		query += " AND owner_id = ?"
		args = append(args, filters.OwnerID)
	}
	if filters.Edition != "" {
		query += " AND edition = ?"
		args = append(args, filters.Edition)
	}
	if filters.IsActive != nil {
		query += " AND is_active = ?"
		args = append(args, boolToInt(*filters.IsActive))
	}

	query += " ORDER BY id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}

	return r.query(ctx, "failed to list sheets", query, args...)
}

// UpdateSanMax writes san_max alone.
func (r *SheetRepository) UpdateSanMax(ctx context.Context, id int64, sanMax int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE sheets SET san_max = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", sanMax, id)
	if err != nil {
		return classify(err, "failed to update san_max")
	}
	return requireAffected(res, "sheet", id)
}

// SetParent writes parent_sheet_id and version together.
func (r *SheetRepository) SetParent(ctx context.Context, id, parentID int64, version int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE sheets SET parent_sheet_id = ?, version = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		nullInt64(parentID), version, id)
	if err != nil {
		return classify(err, "failed to set parent")
	}
	return requireAffected(res, "sheet", id)
}

// Ancestors returns the chain from id up to its root, id first. The walk
// stops at a repeated ID so corrupt data cannot loop forever.
func (r *SheetRepository) Ancestors(ctx context.Context, id int64) ([]int64, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		WITH RECURSIVE chain(id, parent_sheet_id, depth) AS (
			SELECT id, parent_sheet_id, 0 FROM sheets WHERE id = ?
			UNION
			SELECT s.id, s.parent_sheet_id, c.depth + 1
			FROM sheets s JOIN chain c ON s.id = c.parent_sheet_id
			WHERE c.depth < 10000
		)
		SELECT id FROM chain ORDER BY depth`, id)
	if err != nil {
		return nil, classify(err, "failed to walk ancestors")
	}
	defer rows.Close()

	var chain []int64
	seen := map[int64]bool{}
	for rows.Next() {
		var ancestor int64
		if err := rows.Scan(&ancestor); err != nil {
			return nil, fmt.Errorf("failed to scan ancestor: %w", err)
		}
		if seen[ancestor] {
			break
		}
		seen[ancestor] = true
		chain = append(chain, ancestor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to walk ancestors: %w", err)
	}
	if len(chain) == 0 {
		return nil, errs.NotFound("sheet %d not found", id)
	}
	return chain, nil
}

// Tree returns every sheet in the tree rooted at rootID, root included.
func (r *SheetRepository) Tree(ctx context.Context, rootID int64) ([]*secondary.SheetRecord, error) {
	return r.query(ctx, "failed to load version tree", `
		WITH RECURSIVE tree(id) AS (
			SELECT id FROM sheets WHERE id = ?
			UNION
			SELECT s.id FROM sheets s JOIN tree t ON s.parent_sheet_id = t.id
		)
		SELECT `+sheetColumns+` FROM sheets WHERE id IN (SELECT id FROM tree) ORDER BY version, id`, rootID)
}

// GetSidecar returns the 6th edition sidecar, or nil when the sheet has none.
func (r *SheetRepository) GetSidecar(ctx context.Context, sheetID int64) (*secondary.Sheet6thRecord, error) {
	var cash, assets, income string
	rec := &secondary.Sheet6thRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT sheet_id, mental_disorder, idea_roll, luck_roll, know_roll, damage_bonus, cash, assets, annual_income, real_estate
		FROM sheet6th WHERE sheet_id = ?`, sheetID,
	).Scan(&rec.SheetID, &rec.MentalDisorder, &rec.IdeaRoll, &rec.LuckRoll, &rec.KnowRoll, &rec.DamageBonus,
		&cash, &assets, &income, &rec.RealEstate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "failed to get sidecar")
	}

	for _, f := range []struct {
		raw string
		dst *decimal.Decimal
	}{{cash, &rec.Cash}, {assets, &rec.Assets}, {income, &rec.AnnualIncome}} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored money %q: %w", f.raw, err)
		}
		*f.dst = d
	}
	return rec, nil
}

// UpsertSidecar creates or replaces the 6th edition sidecar.
func (r *SheetRepository) UpsertSidecar(ctx context.Context, s *secondary.Sheet6thRecord) error {
	damageBonus := s.DamageBonus
	if damageBonus == "" {
		damageBonus = "+0"
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO sheet6th (sheet_id, mental_disorder, idea_roll, luck_roll, know_roll, damage_bonus, cash, assets, annual_income, real_estate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sheet_id) DO UPDATE SET
			mental_disorder = excluded.mental_disorder,
			idea_roll = excluded.idea_roll,
			luck_roll = excluded.luck_roll,
			know_roll = excluded.know_roll,
			damage_bonus = excluded.damage_bonus,
			cash = excluded.cash,
			assets = excluded.assets,
			annual_income = excluded.annual_income,
			real_estate = excluded.real_estate`,
		s.SheetID, s.MentalDisorder, s.IdeaRoll, s.LuckRoll, s.KnowRoll, damageBonus,
		s.Cash.String(), s.Assets.String(), s.AnnualIncome.String(), s.RealEstate,
	)
	if err != nil {
		return classify(err, "failed to upsert sidecar")
	}
	return nil
}

func (r *SheetRepository) query(ctx context.Context, failure, query string, args ...any) ([]*secondary.SheetRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "%s", failure)
	}
	defer rows.Close()

	var sheets []*secondary.SheetRecord
	for rows.Next() {
		record, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", failure, err)
		}
		sheets = append(sheets, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", failure, err)
	}
	return sheets, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSheet(row scanner) (*secondary.SheetRecord, error) {
	var (
		s         secondary.SheetRecord
		a         stats.Abilities
		parentID  sql.NullInt64
		isActive  int
		isPublic  int
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&s.ID, &s.OwnerID, &s.Edition, &s.Name, &s.PlayerName, &s.Age, &s.Gender, &s.Occupation, &s.Birthplace, &s.Residence,
		&a.STR, &a.CON, &a.POW, &a.DEX, &a.APP, &a.SIZ, &a.INT, &a.EDU,
		&s.OccupationMultiplier, &s.HPMax, &s.HPCurrent, &s.MPMax, &s.MPCurrent, &s.SanStart, &s.SanMax, &s.SanCurrent,
		&s.Status, &s.Version, &parentID, &s.VersionNote, &s.SessionCount, &isActive, &isPublic, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	s.Abilities = a
	s.ParentSheetID = parentID.Int64
	s.IsActive = isActive != 0
	s.IsPublic = isPublic != 0
	s.CreatedAt = createdAt.Format(time.RFC3339)
	s.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &s, nil
}

func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return errs.NotFound("%s %d not found", entity, id)
	}
	return nil
}

var _ secondary.SheetRepository = (*SheetRepository)(nil)
