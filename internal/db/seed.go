package db

import (
	"database/sql"
	"fmt"
)

// Fixture IDs created by SeedFixtures.
const (
	FixtureOwner       = "keeper"
	FixtureSheetV1     = 1
	FixtureSheetV2     = 2
	FixturePublicSheet = 3
)

// SeedFixtures populates the database with a small version tree for
// development and tests: a two-version detective owned by "keeper" with
// skills and one session record, plus a public sheet owned by "guest".
func SeedFixtures(database *sql.DB) error {
	sheets := []struct {
		id       int64
		owner    string
		name     string
		version  int
		parent   any
		note     string
		isPublic int
	}{
		{FixtureSheetV1, FixtureOwner, "Harvey Walters", 1, nil, "", 0},
		{FixtureSheetV2, FixtureOwner, "Harvey Walters", 2, int64(FixtureSheetV1), "after the haunted house", 0},
		{FixturePublicSheet, "guest", "Kate Winthrop", 1, nil, "", 1},
	}
	for _, s := range sheets {
		if _, err := database.Exec(`
			INSERT INTO sheets (id, owner_id, edition, name, age, occupation,
				str_score, con_score, pow_score, dex_score, app_score, siz_score, int_score, edu_score,
				hp_max, hp_current, mp_max, mp_current, san_start, san_max, san_current,
				version, parent_sheet_id, version_note, is_public)
			VALUES (?, ?, '6th', ?, 28, 'detective', 13, 14, 11, 13, 10, 12, 15, 16,
				13, 13, 11, 11, 55, 55, 55, ?, ?, ?, ?)`,
			s.id, s.owner, s.name, s.version, s.parent, s.note, s.isPublic,
		); err != nil {
			return fmt.Errorf("seed sheets: %w", err)
		}
		if _, err := database.Exec(
			"INSERT INTO sheet6th (sheet_id, idea_roll, luck_roll, know_roll, damage_bonus, cash) VALUES (?, 75, 55, 80, '+0', '1500.50')",
			s.id,
		); err != nil {
			return fmt.Errorf("seed sheet6th: %w", err)
		}
	}

	skills := []struct {
		sheetID  int64
		name     string
		category string
		base     int
		occ      int
	}{
		{FixtureSheetV1, "目星", "exploration", 25, 40},
		{FixtureSheetV1, "図書館", "exploration", 25, 35},
		{FixtureSheetV2, "目星", "exploration", 25, 45},
		{FixtureSheetV2, "図書館", "exploration", 25, 35},
		{FixturePublicSheet, "聞き耳", "exploration", 25, 0},
	}
	for _, sk := range skills {
		if _, err := database.Exec(
			"INSERT INTO skills (sheet_id, skill_name, category, base_value, occupation_points, current_value) VALUES (?, ?, ?, ?, ?, ?)",
			sk.sheetID, sk.name, sk.category, sk.base, sk.occ, sk.base+sk.occ,
		); err != nil {
			return fmt.Errorf("seed skills: %w", err)
		}
	}

	res, err := database.Exec(
		"INSERT INTO growth_records (sheet_id, session_date, scenario_name, sanity_gained, sanity_lost, experience_gained) VALUES (?, '2026-01-10', '悪霊の家', 3, 8, 2)",
		FixtureSheetV1,
	)
	if err != nil {
		return fmt.Errorf("seed growth_records: %w", err)
	}
	recordID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("seed growth_records: %w", err)
	}
	if _, err := database.Exec(
		"INSERT INTO skill_growths (growth_record_id, skill_name, had_experience_check, growth_roll_result, old_value, new_value, growth_amount) VALUES (?, '目星', 1, 88, 65, 70, 5)",
		recordID,
	); err != nil {
		return fmt.Errorf("seed skill_growths: %w", err)
	}

	return nil
}
