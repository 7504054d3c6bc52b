package app

import (
	"context"
	"fmt"

	"github.com/example/cocsheet/internal/core/export"
	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// ExportServiceImpl implements the ExportService interface. It only reads.
type ExportServiceImpl struct {
	sheets secondary.SheetRepository
	skills secondary.SkillRepository
}

// NewExportService creates a new ExportService with injected dependencies.
func NewExportService(sheets secondary.SheetRepository, skills secondary.SkillRepository) *ExportServiceImpl {
	return &ExportServiceImpl{sheets: sheets, skills: skills}
}

// ExportCCFOLIA renders a visible sheet as a CCFOLIA character document.
func (s *ExportServiceImpl) ExportCCFOLIA(ctx context.Context, viewerID string, sheetID int64) ([]byte, error) {
	record, err := loadVisible(ctx, s.sheets, viewerID, sheetID)
	if err != nil {
		return nil, err
	}
	side, err := s.sheets.GetSidecar(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	records, err := s.skills.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	damage := stats.DamageBonus(record.Abilities.STR + record.Abilities.SIZ)
	if side != nil && side.DamageBonus != "" {
		damage = side.DamageBonus
	}
	memo := ""
	if record.Occupation != "" {
		memo = fmt.Sprintf("職業: %s", record.Occupation)
	}

	skills := make([]export.Skill, len(records))
	for i, r := range records {
		skills[i] = export.Skill{ID: r.ID, Name: r.Name, CurrentValue: r.CurrentValue}
	}
	return export.Marshal(export.Sheet{
		Name:        record.Name,
		Abilities:   record.Abilities,
		HPCurrent:   record.HPCurrent,
		HPMax:       record.HPMax,
		MPCurrent:   record.MPCurrent,
		MPMax:       record.MPMax,
		SanCurrent:  record.SanCurrent,
		SanMax:      record.SanMax,
		DamageBonus: damage,
		Memo:        memo,
	}, skills)
}

var _ primary.ExportService = (*ExportServiceImpl)(nil)
