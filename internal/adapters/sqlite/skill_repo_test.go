package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/cocsheet/internal/adapters/sqlite"
	"github.com/example/cocsheet/internal/errs"
)

func TestSkillRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewSkillRepository(db)
	ctx := context.Background()

	sheet := seedSheet(t, db, "", "")
	created := seedSkill(t, db, sheet.ID, "目星", 40)

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID.Name != "目星" || byID.CurrentValue != 65 {
		t.Errorf("unexpected skill: %+v", byID)
	}

	byName, err := repo.GetByName(ctx, sheet.ID, "目星")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("expected ID %d, got %d", created.ID, byName.ID)
	}

	if _, err := repo.GetByName(ctx, sheet.ID, "図書館"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSkillRepository_DuplicateName(t *testing.T) {
	db := setupTestDB(t)
	sheet := seedSheet(t, db, "", "")
	seedSkill(t, db, sheet.ID, "目星", 0)

	dup := *seedSkill(t, db, sheet.ID, "図書館", 0)
	dup.ID = 0
	dup.Name = "目星"
	err := sqlite.NewSkillRepository(db).Create(context.Background(), &dup)
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if errs.FieldOf(err) != "skill_name" {
		t.Errorf("expected field skill_name, got %q", errs.FieldOf(err))
	}
}

func TestSkillRepository_ListUpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewSkillRepository(db)
	ctx := context.Background()

	sheet := seedSheet(t, db, "", "")
	first := seedSkill(t, db, sheet.ID, "目星", 0)
	seedSkill(t, db, sheet.ID, "聞き耳", 0)

	first.InterestPoints = 20
	first.CurrentValue = 45
	first.Notes = "keen eyes"
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	list, err := repo.ListBySheet(ctx, sheet.ID)
	if err != nil {
		t.Fatalf("ListBySheet failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(list))
	}
	if list[0].ID != first.ID || list[0].CurrentValue != 45 || list[0].Notes != "keen eyes" {
		t.Errorf("expected updated first skill in ID order, got %+v", list[0])
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestSkillRepository_ComponentRange(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewSkillRepository(db)

	sheet := seedSheet(t, db, "", "")
	s := seedSkill(t, db, sheet.ID, "目星", 0)
	s.OccupationPoints = 101
	if err := repo.Update(context.Background(), s); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
