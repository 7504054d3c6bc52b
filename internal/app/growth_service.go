package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/cocsheet/internal/core/growth"
	"github.com/example/cocsheet/internal/core/skill"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// sessionDateLayout is the stored form of growth_records.session_date.
const sessionDateLayout = "2006-01-02"

// GrowthServiceImpl implements the GrowthService interface.
type GrowthServiceImpl struct {
	tx     secondary.Transactor
	sheets secondary.SheetRepository
	growth secondary.GrowthRepository
	logger *zap.Logger
}

// NewGrowthService creates a new GrowthService with injected dependencies.
func NewGrowthService(
	tx secondary.Transactor,
	sheets secondary.SheetRepository,
	growthRepo secondary.GrowthRepository,
	logger *zap.Logger,
) *GrowthServiceImpl {
	return &GrowthServiceImpl{
		tx:     tx,
		sheets: sheets,
		growth: growthRepo,
		logger: nopIfNil(logger).Named("growth"),
	}
}

// CreateGrowthRecord stores a session record and its skill rows in one
// transaction. Skill values on the sheet are not touched.
func (s *GrowthServiceImpl) CreateGrowthRecord(ctx context.Context, ownerID string, sheetID int64, req primary.CreateGrowthRecordRequest) (*primary.GrowthRecord, error) {
	if req.SessionDate.IsZero() {
		return nil, errs.Validation("session_date", "session date is required")
	}
	if err := growth.CanCreateRecord(growth.RecordContext{
		ScenarioName:     req.ScenarioName,
		SanityGained:     req.SanityGained,
		SanityLost:       req.SanityLost,
		ExperienceGained: req.ExperienceGained,
	}).Error(); err != nil {
		return nil, err
	}

	children := make([]growth.SkillGrowth, len(req.Skills))
	for i, sg := range req.Skills {
		g, err := buildSkillGrowth(sg)
		if err != nil {
			return nil, err
		}
		children[i] = g
	}

	record := &secondary.GrowthRecord{
		SheetID:          sheetID,
		SessionDate:      req.SessionDate.Format(sessionDateLayout),
		ScenarioName:     req.ScenarioName,
		GMName:           req.GMName,
		SanityGained:     req.SanityGained,
		SanityLost:       req.SanityLost,
		ExperienceGained: req.ExperienceGained,
		SpecialRewards:   req.SpecialRewards,
		Notes:            req.Notes,
	}
	rows := make([]*secondary.SkillGrowthRecord, len(children))

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := loadEditable(ctx, s.sheets, ownerID, sheetID); err != nil {
			return err
		}
		if err := s.growth.Create(ctx, record); err != nil {
			return err
		}
		for i, g := range children {
			rows[i] = skillGrowthRecord(record.ID, g)
			if err := s.growth.AddSkillGrowth(ctx, rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("growth recorded",
		zap.Int64("sheet_id", sheetID),
		zap.Int64("growth_record_id", record.ID),
		zap.String("scenario", record.ScenarioName),
		zap.Int("skills", len(rows)))
	return growthRecordToPrimary(record, rows), nil
}

// AddSkillGrowth appends a skill row to an existing record.
func (s *GrowthServiceImpl) AddSkillGrowth(ctx context.Context, ownerID string, growthRecordID int64, req primary.SkillGrowthRequest) (*primary.SkillGrowth, error) {
	g, err := buildSkillGrowth(req)
	if err != nil {
		return nil, err
	}

	var row *secondary.SkillGrowthRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.growth.GetByID(ctx, growthRecordID)
		if err != nil {
			return err
		}
		if _, err := loadEditable(ctx, s.sheets, ownerID, record.SheetID); err != nil {
			return err
		}
		row = skillGrowthRecord(record.ID, g)
		return s.growth.AddSkillGrowth(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("skill growth added",
		zap.Int64("growth_record_id", growthRecordID),
		zap.String("skill", row.SkillName),
		zap.Int("growth_amount", row.GrowthAmount))
	return skillGrowthToPrimary(row), nil
}

// GrowthSummary totals every record of a sheet. Owner only.
func (s *GrowthServiceImpl) GrowthSummary(ctx context.Context, ownerID string, sheetID int64) (*primary.GrowthSummary, error) {
	if _, err := loadEditable(ctx, s.sheets, ownerID, sheetID); err != nil {
		return nil, err
	}
	records, err := s.growth.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	folded := make([]growth.Record, len(records))
	for i, r := range records {
		rows, err := s.growth.ListSkillGrowths(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		skills := make([]growth.SkillGrowth, len(rows))
		for j, row := range rows {
			skills[j] = growth.SkillGrowth{
				SkillName:          row.SkillName,
				HadExperienceCheck: row.HadExperienceCheck,
				GrowthRoll:         row.GrowthRollResult,
				OldValue:           row.OldValue,
				NewValue:           row.NewValue,
				GrowthAmount:       row.GrowthAmount,
			}
		}
		folded[i] = growth.Record{
			SanityGained:     r.SanityGained,
			SanityLost:       r.SanityLost,
			ExperienceGained: r.ExperienceGained,
			Skills:           skills,
		}
	}
	summary := growth.Summarize(folded)
	return &summary, nil
}

// ListGrowthRecords lists records newest session first, with their skill rows.
func (s *GrowthServiceImpl) ListGrowthRecords(ctx context.Context, viewerID string, sheetID int64) ([]*primary.GrowthRecord, error) {
	if _, err := loadVisible(ctx, s.sheets, viewerID, sheetID); err != nil {
		return nil, err
	}
	records, err := s.growth.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.GrowthRecord, len(records))
	for i, r := range records {
		rows, err := s.growth.ListSkillGrowths(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out[i] = growthRecordToPrimary(r, rows)
	}
	return out, nil
}

// buildSkillGrowth derives the growth amount and validates the row. A
// caller-supplied amount that disagrees with the values is rejected.
func buildSkillGrowth(req primary.SkillGrowthRequest) (growth.SkillGrowth, error) {
	g := growth.NewSkillGrowth(skill.NormalizeName(req.SkillName), req.HadExperienceCheck,
		req.GrowthRollResult, req.OldValue, req.NewValue)
	if req.GrowthAmount != nil {
		g.GrowthAmount = *req.GrowthAmount
	}
	if err := growth.CanAddSkillGrowth(g).Error(); err != nil {
		return growth.SkillGrowth{}, err
	}
	return g, nil
}

func skillGrowthRecord(recordID int64, g growth.SkillGrowth) *secondary.SkillGrowthRecord {
	return &secondary.SkillGrowthRecord{
		GrowthRecordID:     recordID,
		SkillName:          g.SkillName,
		HadExperienceCheck: g.HadExperienceCheck,
		GrowthRollResult:   g.GrowthRoll,
		OldValue:           g.OldValue,
		NewValue:           g.NewValue,
		GrowthAmount:       g.GrowthAmount,
	}
}

func skillGrowthToPrimary(r *secondary.SkillGrowthRecord) *primary.SkillGrowth {
	g := growth.SkillGrowth{
		HadExperienceCheck: r.HadExperienceCheck,
		GrowthRoll:         r.GrowthRollResult,
		OldValue:           r.OldValue,
	}
	return &primary.SkillGrowth{
		ID:                 r.ID,
		GrowthRecordID:     r.GrowthRecordID,
		SkillName:          r.SkillName,
		HadExperienceCheck: r.HadExperienceCheck,
		GrowthRollResult:   r.GrowthRollResult,
		OldValue:           r.OldValue,
		NewValue:           r.NewValue,
		GrowthAmount:       r.GrowthAmount,
		Succeeded:          g.Succeeded(),
	}
}

func growthRecordToPrimary(r *secondary.GrowthRecord, rows []*secondary.SkillGrowthRecord) *primary.GrowthRecord {
	out := &primary.GrowthRecord{
		ID:               r.ID,
		SheetID:          r.SheetID,
		SessionDate:      r.SessionDate,
		ScenarioName:     r.ScenarioName,
		GMName:           r.GMName,
		SanityGained:     r.SanityGained,
		SanityLost:       r.SanityLost,
		ExperienceGained: r.ExperienceGained,
		SpecialRewards:   r.SpecialRewards,
		Notes:            r.Notes,
		Skills:           make([]*primary.SkillGrowth, len(rows)),
	}
	for i, row := range rows {
		out.Skills[i] = skillGrowthToPrimary(row)
	}
	return out
}

var _ primary.GrowthService = (*GrowthServiceImpl)(nil)
