package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Migrations are
// built from the same fragments, and every repository test loads this schema
// via GetSchemaSQL() instead of declaring its own tables. A repository that
// references a missing column fails its tests with "no such column".
//
// When adding columns or tables:
//  1. Add a fragment and a migration in migrations.go
//  2. Append the fragment here
//  3. Run the sqlite adapter tests
var SchemaSQL = coreTablesSQL + growthTablesSQL + imageAuditTablesSQL

const coreTablesSQL = `
-- Sheets (one row per version of a character)
CREATE TABLE IF NOT EXISTS sheets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id TEXT NOT NULL,
	edition TEXT NOT NULL CHECK(edition IN ('6th')) DEFAULT '6th',
	name TEXT NOT NULL CHECK(length(name) BETWEEN 1 AND 100),
	player_name TEXT NOT NULL DEFAULT '',
	age INTEGER NOT NULL CHECK(age BETWEEN 15 AND 90),
	gender TEXT NOT NULL DEFAULT '',
	occupation TEXT NOT NULL DEFAULT '',
	birthplace TEXT NOT NULL DEFAULT '',
	residence TEXT NOT NULL DEFAULT '',
	str_score INTEGER NOT NULL CHECK(str_score BETWEEN 1 AND 999),
	con_score INTEGER NOT NULL CHECK(con_score BETWEEN 1 AND 999),
	pow_score INTEGER NOT NULL CHECK(pow_score BETWEEN 1 AND 999),
	dex_score INTEGER NOT NULL CHECK(dex_score BETWEEN 1 AND 999),
	app_score INTEGER NOT NULL CHECK(app_score BETWEEN 1 AND 999),
	siz_score INTEGER NOT NULL CHECK(siz_score BETWEEN 1 AND 999),
	int_score INTEGER NOT NULL CHECK(int_score BETWEEN 1 AND 999),
	edu_score INTEGER NOT NULL CHECK(edu_score BETWEEN 1 AND 999),
	occupation_multiplier INTEGER NOT NULL DEFAULT 20 CHECK(occupation_multiplier BETWEEN 15 AND 30),
	hp_max INTEGER NOT NULL DEFAULT 0,
	hp_current INTEGER NOT NULL DEFAULT 0,
	mp_max INTEGER NOT NULL DEFAULT 0,
	mp_current INTEGER NOT NULL DEFAULT 0,
	san_start INTEGER NOT NULL DEFAULT 0,
	san_max INTEGER NOT NULL DEFAULT 0,
	san_current INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL CHECK(status IN ('alive', 'dead', 'insane', 'injured', 'missing', 'retired')) DEFAULT 'alive',
	version INTEGER NOT NULL DEFAULT 1 CHECK(version >= 1),
	parent_sheet_id INTEGER,
	version_note TEXT NOT NULL DEFAULT '' CHECK(length(version_note) <= 1000),
	session_count INTEGER NOT NULL DEFAULT 0 CHECK(session_count >= 0),
	is_active INTEGER NOT NULL DEFAULT 1,
	is_public INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (parent_sheet_id) REFERENCES sheets(id) ON DELETE CASCADE,
	UNIQUE(parent_sheet_id, version)
);

CREATE INDEX IF NOT EXISTS idx_sheets_owner ON sheets(owner_id);
CREATE INDEX IF NOT EXISTS idx_sheets_parent ON sheets(parent_sheet_id);

-- 6th edition sidecar (1:1 with sheets)
CREATE TABLE IF NOT EXISTS sheet6th (
	sheet_id INTEGER PRIMARY KEY,
	mental_disorder TEXT NOT NULL DEFAULT '',
	idea_roll INTEGER NOT NULL DEFAULT 0,
	luck_roll INTEGER NOT NULL DEFAULT 0,
	know_roll INTEGER NOT NULL DEFAULT 0,
	damage_bonus TEXT NOT NULL DEFAULT '+0',
	cash TEXT NOT NULL DEFAULT '0',
	assets TEXT NOT NULL DEFAULT '0',
	annual_income TEXT NOT NULL DEFAULT '0',
	real_estate TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (sheet_id) REFERENCES sheets(id) ON DELETE CASCADE
);

-- Skills
CREATE TABLE IF NOT EXISTS skills (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sheet_id INTEGER NOT NULL,
	skill_name TEXT NOT NULL CHECK(length(skill_name) BETWEEN 1 AND 100),
	category TEXT NOT NULL CHECK(category IN ('combat', 'firearms', 'exploration', 'action', 'negotiation', 'knowledge', 'language', 'other')) DEFAULT 'other',
	base_value INTEGER NOT NULL DEFAULT 0 CHECK(base_value BETWEEN 0 AND 100),
	occupation_points INTEGER NOT NULL DEFAULT 0 CHECK(occupation_points BETWEEN 0 AND 100),
	interest_points INTEGER NOT NULL DEFAULT 0 CHECK(interest_points BETWEEN 0 AND 100),
	bonus_points INTEGER NOT NULL DEFAULT 0 CHECK(bonus_points BETWEEN 0 AND 100),
	other_points INTEGER NOT NULL DEFAULT 0 CHECK(other_points BETWEEN 0 AND 100),
	current_value INTEGER NOT NULL DEFAULT 0 CHECK(current_value BETWEEN 0 AND 999),
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (sheet_id) REFERENCES sheets(id) ON DELETE CASCADE,
	UNIQUE(sheet_id, skill_name)
);

CREATE INDEX IF NOT EXISTS idx_skills_sheet ON skills(sheet_id);
`

const growthTablesSQL = `
-- Growth records (append-only session ledger)
CREATE TABLE IF NOT EXISTS growth_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sheet_id INTEGER NOT NULL,
	session_date TEXT NOT NULL,
	scenario_name TEXT NOT NULL CHECK(length(scenario_name) BETWEEN 1 AND 200),
	gm_name TEXT NOT NULL DEFAULT '',
	sanity_gained INTEGER NOT NULL DEFAULT 0 CHECK(sanity_gained BETWEEN 0 AND 99),
	sanity_lost INTEGER NOT NULL DEFAULT 0 CHECK(sanity_lost BETWEEN 0 AND 99),
	experience_gained INTEGER NOT NULL DEFAULT 0 CHECK(experience_gained >= 0),
	special_rewards TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (sheet_id) REFERENCES sheets(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_growth_records_sheet ON growth_records(sheet_id);

-- Skill growth rows (children of growth_records)
CREATE TABLE IF NOT EXISTS skill_growths (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	growth_record_id INTEGER NOT NULL,
	skill_name TEXT NOT NULL,
	had_experience_check INTEGER NOT NULL DEFAULT 0,
	growth_roll_result INTEGER CHECK(growth_roll_result IS NULL OR growth_roll_result BETWEEN 1 AND 100),
	old_value INTEGER NOT NULL CHECK(old_value BETWEEN 0 AND 90),
	new_value INTEGER NOT NULL CHECK(new_value BETWEEN 0 AND 90),
	growth_amount INTEGER NOT NULL,
	FOREIGN KEY (growth_record_id) REFERENCES growth_records(id) ON DELETE CASCADE,
	CHECK(growth_amount = new_value - old_value)
);

CREATE INDEX IF NOT EXISTS idx_skill_growths_record ON skill_growths(growth_record_id);
`

const imageAuditTablesSQL = `
-- Character images (opaque handles)
CREATE TABLE IF NOT EXISTS images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sheet_id INTEGER NOT NULL,
	handle TEXT NOT NULL,
	is_main INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0 CHECK(sort_order >= 0),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (sheet_id) REFERENCES sheets(id) ON DELETE CASCADE,
	UNIQUE(sheet_id, handle)
);

CREATE INDEX IF NOT EXISTS idx_images_sheet ON images(sheet_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_images_one_main ON images(sheet_id) WHERE is_main = 1;

-- Audit log
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	actor_id TEXT NOT NULL DEFAULT '',
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id);
`

const schemaVersionSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// InitSchema brings the database to the current schema. A fresh database gets
// SchemaSQL directly with every migration marked applied; an existing one
// runs pending migrations.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tableCount > 0 {
		return RunMigrations(database)
	}

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := tx.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	for _, m := range migrations {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to mark migration %d: %w", m.Version, err)
		}
	}
	return tx.Commit()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
