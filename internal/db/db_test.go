package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expectedTables = []string{"sheets", "sheet6th", "skills", "growth_records", "skill_growths", "images", "audit_log", "schema_version"}

func tableNames(t *testing.T, database *sql.DB) map[string]bool {
	t.Helper()
	rows, err := database.Query("SELECT name FROM sqlite_master WHERE type='table'")
	require.NoError(t, err)
	defer rows.Close()

	names := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names[name] = true
	}
	require.NoError(t, rows.Err())
	return names
}

func TestOpenBothDrivers(t *testing.T) {
	for _, driver := range []string{DriverMattn, DriverModernc} {
		t.Run(driver, func(t *testing.T) {
			database, err := Open(driver, MemoryPath)
			require.NoError(t, err)
			defer database.Close()

			names := tableNames(t, database)
			for _, table := range expectedTables {
				assert.True(t, names[table], "missing table %s", table)
			}

			var fk int
			require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&fk))
			assert.Equal(t, 1, fk)

			var version int
			require.NoError(t, database.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version))
			assert.Equal(t, LatestVersion(), version)
		})
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", MemoryPath)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenFileCreatesDirectoryAndIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cocsheet.db")

	database, err := Open(DriverMattn, path)
	require.NoError(t, err)
	require.NoError(t, SeedFixtures(database))
	require.NoError(t, database.Close())

	database, err = Open(DriverMattn, path)
	require.NoError(t, err)
	defer database.Close()

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM sheets").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestRunMigrationsFromEmpty(t *testing.T) {
	database, err := sql.Open(DriverMattn, MemoryPath)
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	defer database.Close()

	// an existing but empty schema_version forces the migration path
	_, err = database.Exec(schemaVersionSQL)
	require.NoError(t, err)
	require.NoError(t, InitSchema(database))

	names := tableNames(t, database)
	for _, table := range expectedTables {
		assert.True(t, names[table], "missing table %s", table)
	}

	var applied int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&applied))
	assert.Equal(t, len(migrations), applied)

	// running again is a no-op
	require.NoError(t, RunMigrations(database))
}

func TestSchemaConstraints(t *testing.T) {
	database, err := Open(DriverMattn, MemoryPath)
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, SeedFixtures(database))

	t.Run("duplicate skill name per sheet", func(t *testing.T) {
		_, err := database.Exec("INSERT INTO skills (sheet_id, skill_name) VALUES (?, '目星')", FixtureSheetV1)
		assert.ErrorContains(t, err, "UNIQUE")
	})

	t.Run("duplicate version under one parent", func(t *testing.T) {
		_, err := database.Exec(`INSERT INTO sheets (owner_id, name, age, str_score, con_score, pow_score, dex_score,
			app_score, siz_score, int_score, edu_score, version, parent_sheet_id)
			VALUES ('keeper', 'dup', 30, 10, 10, 10, 10, 10, 10, 10, 10, 2, ?)`, FixtureSheetV1)
		assert.ErrorContains(t, err, "UNIQUE")
	})

	t.Run("second main image", func(t *testing.T) {
		_, err := database.Exec("INSERT INTO images (sheet_id, handle, is_main) VALUES (?, 'a', 1)", FixtureSheetV1)
		require.NoError(t, err)
		_, err = database.Exec("INSERT INTO images (sheet_id, handle, is_main) VALUES (?, 'b', 1)", FixtureSheetV1)
		assert.ErrorContains(t, err, "UNIQUE")
	})

	t.Run("growth amount must match values", func(t *testing.T) {
		_, err := database.Exec(`INSERT INTO skill_growths (growth_record_id, skill_name, old_value, new_value, growth_amount)
			VALUES (1, 'x', 10, 20, 5)`)
		assert.ErrorContains(t, err, "CHECK")
	})

	t.Run("delete cascades down the version tree", func(t *testing.T) {
		_, err := database.Exec("DELETE FROM sheets WHERE id = ?", FixtureSheetV1)
		require.NoError(t, err)

		var n int
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM sheets WHERE id IN (?, ?)", FixtureSheetV1, FixtureSheetV2).Scan(&n))
		assert.Zero(t, n)
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM skills WHERE sheet_id IN (?, ?)", FixtureSheetV1, FixtureSheetV2).Scan(&n))
		assert.Zero(t, n)
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM skill_growths").Scan(&n))
		assert.Zero(t, n)
	})
}

func TestSchemaVersion(t *testing.T) {
	raw, err := sql.Open(DriverModernc, MemoryPath)
	require.NoError(t, err)
	defer raw.Close()
	raw.SetMaxOpenConns(1)

	v, err := SchemaVersion(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, v, "uninitialized database")

	require.NoError(t, InitSchema(raw))
	v, err = SchemaVersion(raw)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)
}
