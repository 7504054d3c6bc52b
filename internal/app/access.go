// Package app implements the primary ports on top of the secondary ports.
// Every mutation runs inside one Transactor.WithinTx call.
package app

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/example/cocsheet/internal/core/sheet"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// loadVisible fetches a sheet the viewer may read.
func loadVisible(ctx context.Context, sheets secondary.SheetRepository, viewerID string, id int64) (*secondary.SheetRecord, error) {
	record, err := sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sheet.CanView(accessFor(record, viewerID)).Error(); err != nil {
		return nil, err
	}
	return record, nil
}

// loadEditable fetches a sheet the caller owns.
func loadEditable(ctx context.Context, sheets secondary.SheetRepository, ownerID string, id int64) (*secondary.SheetRecord, error) {
	record, err := sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sheet.CanEdit(accessFor(record, ownerID)).Error(); err != nil {
		return nil, err
	}
	return record, nil
}

func accessFor(record *secondary.SheetRecord, viewerID string) sheet.AccessContext {
	return sheet.AccessContext{
		SheetID:  record.ID,
		ViewerID: viewerID,
		OwnerID:  record.OwnerID,
		IsPublic: record.IsPublic,
	}
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func recordToSheet(r *secondary.SheetRecord, side *secondary.Sheet6thRecord) *primary.Sheet {
	s := &primary.Sheet{
		ID:                   r.ID,
		OwnerID:              r.OwnerID,
		Edition:              r.Edition,
		Name:                 r.Name,
		PlayerName:           r.PlayerName,
		Age:                  r.Age,
		Gender:               r.Gender,
		Occupation:           r.Occupation,
		Birthplace:           r.Birthplace,
		Residence:            r.Residence,
		Abilities:            r.Abilities,
		OccupationMultiplier: r.OccupationMultiplier,
		HPMax:                r.HPMax,
		HPCurrent:            r.HPCurrent,
		MPMax:                r.MPMax,
		MPCurrent:            r.MPCurrent,
		SanStart:             r.SanStart,
		SanMax:               r.SanMax,
		SanCurrent:           r.SanCurrent,
		Status:               r.Status,
		Version:              r.Version,
		ParentSheetID:        r.ParentSheetID,
		VersionNote:          r.VersionNote,
		SessionCount:         r.SessionCount,
		IsActive:             r.IsActive,
		IsPublic:             r.IsPublic,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if side != nil {
		s.MentalDisorder = side.MentalDisorder
		s.IdeaRoll = side.IdeaRoll
		s.LuckRoll = side.LuckRoll
		s.KnowRoll = side.KnowRoll
		s.DamageBonus = side.DamageBonus
		s.Cash = side.Cash
		s.Assets = side.Assets
		s.AnnualIncome = side.AnnualIncome
		s.RealEstate = side.RealEstate
	}
	return s
}

func recordToSkill(r *secondary.SkillRecord) *primary.Skill {
	return &primary.Skill{
		ID:               r.ID,
		SheetID:          r.SheetID,
		Name:             r.Name,
		Category:         r.Category,
		BaseValue:        r.BaseValue,
		OccupationPoints: r.OccupationPoints,
		InterestPoints:   r.InterestPoints,
		BonusPoints:      r.BonusPoints,
		OtherPoints:      r.OtherPoints,
		CurrentValue:     r.CurrentValue,
		Notes:            r.Notes,
	}
}

func recordsToSkills(records []*secondary.SkillRecord) []*primary.Skill {
	out := make([]*primary.Skill, len(records))
	for i, r := range records {
		out[i] = recordToSkill(r)
	}
	return out
}
