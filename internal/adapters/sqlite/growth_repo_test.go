package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/cocsheet/internal/adapters/sqlite"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/secondary"
)

func createTestGrowthRecord(t *testing.T, repo *sqlite.GrowthRepository, ctx context.Context, sheetID int64, date, scenario string) *secondary.GrowthRecord {
	t.Helper()
	record := &secondary.GrowthRecord{
		SheetID:          sheetID,
		SessionDate:      date,
		ScenarioName:     scenario,
		SanityGained:     2,
		SanityLost:       7,
		ExperienceGained: 1,
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return record
}

func TestGrowthRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGrowthRepository(db)
	ctx := context.Background()

	sheet := seedSheet(t, db, "", "")
	older := createTestGrowthRecord(t, repo, ctx, sheet.ID, "2026-01-10", "悪霊の家")
	newer := createTestGrowthRecord(t, repo, ctx, sheet.ID, "2026-02-14", "死者のストンプ")

	got, err := repo.GetByID(ctx, older.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ScenarioName != "悪霊の家" || got.SanityLost != 7 {
		t.Errorf("unexpected record: %+v", got)
	}

	list, err := repo.ListBySheet(ctx, sheet.ID)
	if err != nil {
		t.Fatalf("ListBySheet failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Errorf("expected newest session first, got %+v", list)
	}

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGrowthRepository_SkillGrowths(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGrowthRepository(db)
	ctx := context.Background()

	sheet := seedSheet(t, db, "", "")
	record := createTestGrowthRecord(t, repo, ctx, sheet.ID, "2026-01-10", "悪霊の家")

	roll := 88
	success := &secondary.SkillGrowthRecord{
		GrowthRecordID:     record.ID,
		SkillName:          "目星",
		HadExperienceCheck: true,
		GrowthRollResult:   &roll,
		OldValue:           65,
		NewValue:           70,
		GrowthAmount:       5,
	}
	if err := repo.AddSkillGrowth(ctx, success); err != nil {
		t.Fatalf("AddSkillGrowth failed: %v", err)
	}
	noRoll := &secondary.SkillGrowthRecord{
		GrowthRecordID: record.ID,
		SkillName:      "聞き耳",
		OldValue:       40,
		NewValue:       40,
	}
	if err := repo.AddSkillGrowth(ctx, noRoll); err != nil {
		t.Fatalf("AddSkillGrowth failed: %v", err)
	}

	growths, err := repo.ListSkillGrowths(ctx, record.ID)
	if err != nil {
		t.Fatalf("ListSkillGrowths failed: %v", err)
	}
	if len(growths) != 2 {
		t.Fatalf("expected 2 growths, got %d", len(growths))
	}
	if growths[0].GrowthRollResult == nil || *growths[0].GrowthRollResult != 88 || !growths[0].HadExperienceCheck {
		t.Errorf("roll did not round-trip: %+v", growths[0])
	}
	if growths[1].GrowthRollResult != nil {
		t.Errorf("expected null roll, got %d", *growths[1].GrowthRollResult)
	}

	bad := *success
	bad.ID = 0
	bad.GrowthAmount = 3
	if err := repo.AddSkillGrowth(ctx, &bad); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error for mismatched amount, got %v", err)
	}
}
