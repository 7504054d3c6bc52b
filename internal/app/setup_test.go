package app_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/cocsheet/internal/adapters/sqlite"
	"github.com/example/cocsheet/internal/app"
	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/db"
	"github.com/example/cocsheet/internal/ports/primary"
)

const (
	owner    = "keeper"
	stranger = "guest"
)

type services struct {
	db       *sql.DB
	audit    *sqlite.AuditRepository
	sheets   *app.SheetServiceImpl
	skills   *app.SkillServiceImpl
	versions *app.VersionServiceImpl
	growth   *app.GrowthServiceImpl
	export   *app.ExportServiceImpl
	images   *app.ImageServiceImpl
	logs     *app.LogServiceImpl
}

// newServices wires every service against a fresh in-memory database.
func newServices(t *testing.T) *services {
	t.Helper()

	database, err := db.Open(db.DriverMattn, db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	tx := sqlite.NewTransactor(database, sqlite.DefaultRetryPolicy, nil)
	sheetRepo := sqlite.NewSheetRepository(database)
	skillRepo := sqlite.NewSkillRepository(database)
	imageRepo := sqlite.NewImageRepository(database)
	audit := sqlite.NewAuditRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(audit)

	return &services{
		db:       database,
		audit:    audit,
		sheets:   app.NewSheetService(tx, sheetRepo, skillRepo, logWriter, nil, nil),
		skills:   app.NewSkillService(tx, sheetRepo, skillRepo, nil, nil),
		versions: app.NewVersionService(tx, sheetRepo, skillRepo, imageRepo, logWriter, nil),
		growth:   app.NewGrowthService(tx, sheetRepo, sqlite.NewGrowthRepository(database), nil),
		export:   app.NewExportService(sheetRepo, skillRepo),
		images:   app.NewImageService(tx, sheetRepo, imageRepo, nil),
		logs:     app.NewLogService(sheetRepo, audit),
	}
}

// detective is the reference investigator used across scenarios.
func detective() primary.CreateSheetRequest {
	return primary.CreateSheetRequest{
		Name:       "Harvey Walters",
		PlayerName: "sato",
		Age:        28,
		Occupation: "detective",
		Abilities: stats.Abilities{
			STR: 13, CON: 14, POW: 11, DEX: 13,
			APP: 10, SIZ: 12, INT: 15, EDU: 16,
		},
	}
}

func createSheet(t *testing.T, svc *services, req primary.CreateSheetRequest) *primary.Sheet {
	t.Helper()
	s, err := svc.sheets.CreateSheet(context.Background(), owner, req)
	require.NoError(t, err)
	return s
}

func upsert(t *testing.T, svc *services, sheetID int64, req primary.UpsertSkillRequest) *primary.Skill {
	t.Helper()
	sk, err := svc.skills.UpsertSkill(context.Background(), owner, sheetID, req)
	require.NoError(t, err)
	return sk
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
