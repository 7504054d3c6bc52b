// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not declare CREATE TABLE statements in test files;
// use setupTestDB() and the seed helpers instead.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/cocsheet/internal/adapters/sqlite"
	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/db"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// The pool is pinned to one connection so every statement sees the same
// in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func testAbilities() stats.Abilities {
	return stats.Abilities{STR: 13, CON: 14, POW: 11, DEX: 13, APP: 10, SIZ: 12, INT: 15, EDU: 16}
}

// seedSheet inserts a root sheet owned by owner and returns it.
func seedSheet(t *testing.T, testDB *sql.DB, owner, name string) *secondary.SheetRecord {
	t.Helper()
	return seedVersion(t, testDB, owner, name, 0, 1)
}

// seedVersion inserts a sheet under parentID with the given version.
func seedVersion(t *testing.T, testDB *sql.DB, owner, name string, parentID int64, version int) *secondary.SheetRecord {
	t.Helper()
	if owner == "" {
		owner = "keeper"
	}
	if name == "" {
		name = "Harvey Walters"
	}
	record := &secondary.SheetRecord{
		OwnerID:              owner,
		Edition:              "6th",
		Name:                 name,
		Age:                  28,
		Abilities:            testAbilities(),
		OccupationMultiplier: 20,
		HPMax:                13,
		HPCurrent:            13,
		MPMax:                11,
		MPCurrent:            11,
		SanStart:             55,
		SanMax:               99,
		SanCurrent:           55,
		Status:               "alive",
		Version:              version,
		ParentSheetID:        parentID,
		IsActive:             true,
	}
	if err := sqlite.NewSheetRepository(testDB).Create(context.Background(), record); err != nil {
		t.Fatalf("failed to seed sheet: %v", err)
	}
	return record
}

// seedSkill inserts a skill on sheetID and returns it.
func seedSkill(t *testing.T, testDB *sql.DB, sheetID int64, name string, occupation int) *secondary.SkillRecord {
	t.Helper()
	record := &secondary.SkillRecord{
		SheetID:          sheetID,
		Name:             name,
		Category:         "exploration",
		BaseValue:        25,
		OccupationPoints: occupation,
		CurrentValue:     25 + occupation,
	}
	if err := sqlite.NewSkillRepository(testDB).Create(context.Background(), record); err != nil {
		t.Fatalf("failed to seed skill: %v", err)
	}
	return record
}
