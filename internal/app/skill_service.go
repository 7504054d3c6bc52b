package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/cocsheet/internal/core/skill"
	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/ctxutil"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// SkillServiceImpl implements the SkillService interface.
type SkillServiceImpl struct {
	tx      secondary.Transactor
	sheets  secondary.SheetRepository
	skills  secondary.SkillRepository
	catalog *skill.Catalog
	logger  *zap.Logger
}

// NewSkillService creates a new SkillService with injected dependencies.
func NewSkillService(
	tx secondary.Transactor,
	sheets secondary.SheetRepository,
	skills secondary.SkillRepository,
	catalog *skill.Catalog,
	logger *zap.Logger,
) *SkillServiceImpl {
	if catalog == nil {
		catalog = skill.Default()
	}
	return &SkillServiceImpl{
		tx:      tx,
		sheets:  sheets,
		skills:  skills,
		catalog: catalog,
		logger:  nopIfNil(logger).Named("skill"),
	}
}

// skillSet is a sheet's skills loaded for an in-memory edit. Writes are
// applied to the set, validated as a whole, then flushed.
type skillSet struct {
	sheet   *secondary.SheetRecord
	records []*secondary.SkillRecord
	touched map[*secondary.SkillRecord]bool
	// points as loaded; skills added later start from zero
	before map[*secondary.SkillRecord]skill.Points

	occBefore, intBefore int
}

func (s *SkillServiceImpl) loadSet(ctx context.Context, ownerID string, sheetID int64) (*skillSet, error) {
	sh, err := loadEditable(ctx, s.sheets, ownerID, sheetID)
	if err != nil {
		return nil, err
	}
	records, err := s.skills.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	occ, interest := skill.Spent(pointsOf(records))
	before := make(map[*secondary.SkillRecord]skill.Points, len(records))
	for _, r := range records {
		before[r] = pointsFromRecord(r)
	}
	return &skillSet{
		sheet:     sh,
		records:   records,
		touched:   map[*secondary.SkillRecord]bool{},
		before:    before,
		occBefore: occ,
		intBefore: interest,
	}, nil
}

func (set *skillSet) byName(name string) *secondary.SkillRecord {
	name = skill.NormalizeName(name)
	for _, r := range set.records {
		if skill.NormalizeName(r.Name) == name {
			return r
		}
	}
	return nil
}

func (set *skillSet) byID(id int64) *secondary.SkillRecord {
	for _, r := range set.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// add appends a new, not yet persisted skill.
func (set *skillSet) add(r *secondary.SkillRecord) {
	set.records = append(set.records, r)
	set.touched[r] = true
}

// flush validates every touched skill and the sheet budgets, persists the
// touched rows and keeps san_max in step with the Mythos skill.
func (s *SkillServiceImpl) flush(ctx context.Context, set *skillSet) error {
	edition := stats.Edition(set.sheet.Edition)
	mythosTouched := false
	occRaised, intRaised := false, false

	for _, r := range set.records {
		if !set.touched[r] {
			continue
		}
		p := pointsFromRecord(r)
		guard := skill.CanWriteSkill(skill.WriteContext{
			Name:     r.Name,
			Category: r.Category,
			Points:   p,
			Edition:  edition,
		})
		if err := guard.Error(); err != nil {
			return err
		}
		r.CurrentValue = p.CurrentValue(edition)
		prev := set.before[r]
		occRaised = occRaised || p.Occupation > prev.Occupation
		intRaised = intRaised || p.Interest > prev.Interest
		if skill.IsMythos(r.Name) {
			mythosTouched = true
		}
	}

	occ, interest := skill.Spent(pointsOf(set.records))
	budget := skill.CanSpend(skill.BudgetContext{
		Budgets:          skill.BudgetsFor(set.sheet.Abilities, set.sheet.OccupationMultiplier),
		OccupationSpent:  occ,
		InterestSpent:    interest,
		OccupationBefore: set.occBefore,
		InterestBefore:   set.intBefore,
		OccupationRaised: occRaised,
		InterestRaised:   intRaised,
		Bypass:           ctxutil.PointValidationBypassed(ctx),
	})
	if err := budget.Error(); err != nil {
		return err
	}

	for _, r := range set.records {
		if !set.touched[r] {
			continue
		}
		var err error
		if r.ID == 0 {
			err = s.skills.Create(ctx, r)
		} else {
			err = s.skills.Update(ctx, r)
		}
		if err != nil {
			return err
		}
	}

	if mythosTouched {
		return s.syncSanMax(ctx, set.sheet, mythosValue(set.records))
	}
	return nil
}

// syncSanMax writes san_max = 99 - mythos, treating a missing skill as 0.
func (s *SkillServiceImpl) syncSanMax(ctx context.Context, sh *secondary.SheetRecord, mythos *int) error {
	m := 0
	if mythos != nil {
		m = *mythos
	}
	sanMax := skill.SanMax(m)
	if sanMax == sh.SanMax {
		return nil
	}
	s.logger.Debug("mythos changed sanity ceiling",
		zap.Int64("sheet_id", sh.ID),
		zap.Int("old_san_max", sh.SanMax),
		zap.Int("new_san_max", sanMax))
	if err := s.sheets.UpdateSanMax(ctx, sh.ID, sanMax); err != nil {
		return err
	}
	sh.SanMax = sanMax
	return nil
}

// upsertInto applies a full-state write to set, creating the skill if needed.
func (s *SkillServiceImpl) upsertInto(set *skillSet, req primary.UpsertSkillRequest) (*secondary.SkillRecord, error) {
	name := skill.NormalizeName(req.Name)
	r := set.byName(name)
	if r == nil {
		base, category, err := s.catalog.BaseValue(name, set.sheet.Abilities)
		if err != nil {
			return nil, err
		}
		r = &secondary.SkillRecord{
			SheetID:   set.sheet.ID,
			Name:      name,
			Category:  string(category),
			BaseValue: base,
		}
		set.add(r)
	} else {
		set.touched[r] = true
	}

	if req.Category != "" {
		r.Category = req.Category
	}
	if req.BaseValue != nil {
		r.BaseValue = *req.BaseValue
	}
	r.OccupationPoints = req.OccupationPoints
	r.InterestPoints = req.InterestPoints
	r.BonusPoints = req.BonusPoints
	r.OtherPoints = req.OtherPoints
	r.Notes = req.Notes
	return r, nil
}

// allocateInto applies an allocation to set. Bonus points are left alone.
func (s *SkillServiceImpl) allocateInto(set *skillSet, alloc primary.Allocation) (*secondary.SkillRecord, error) {
	var r *secondary.SkillRecord
	switch {
	case alloc.SkillID != 0:
		if r = set.byID(alloc.SkillID); r == nil {
			return nil, errs.NotFound("skill %d not found on sheet %d", alloc.SkillID, set.sheet.ID)
		}
		set.touched[r] = true
	case alloc.SkillName != "":
		var err error
		if r = set.byName(alloc.SkillName); r == nil {
			r, err = s.upsertInto(set, primary.UpsertSkillRequest{Name: alloc.SkillName})
			if err != nil {
				return nil, err
			}
		}
		set.touched[r] = true
	default:
		return nil, errs.Validation("skill_name", "an allocation needs a skill id or name")
	}

	if alloc.BaseValue != nil {
		r.BaseValue = *alloc.BaseValue
	}
	r.OccupationPoints = alloc.OccupationPoints
	r.InterestPoints = alloc.InterestPoints
	r.OtherPoints = alloc.OtherPoints
	return r, nil
}

// UpsertSkill creates or updates a skill by (sheet, name).
func (s *SkillServiceImpl) UpsertSkill(ctx context.Context, ownerID string, sheetID int64, req primary.UpsertSkillRequest) (*primary.Skill, error) {
	var written *secondary.SkillRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		set, err := s.loadSet(ctx, ownerID, sheetID)
		if err != nil {
			return err
		}
		if written, err = s.upsertInto(set, req); err != nil {
			return err
		}
		return s.flush(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("skill written",
		zap.Int64("sheet_id", sheetID),
		zap.String("owner_id", ownerID),
		zap.String("skill", written.Name),
		zap.Int("current_value", written.CurrentValue))
	return recordToSkill(written), nil
}

// DeleteSkill deletes one skill; removing the Mythos skill restores san_max to 99.
func (s *SkillServiceImpl) DeleteSkill(ctx context.Context, ownerID string, sheetID, skillID int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sh, err := loadEditable(ctx, s.sheets, ownerID, sheetID)
		if err != nil {
			return err
		}
		r, err := s.skills.GetByID(ctx, skillID)
		if err != nil {
			return err
		}
		if r.SheetID != sheetID {
			return errs.NotFound("skill %d not found on sheet %d", skillID, sheetID)
		}
		if err := s.skills.Delete(ctx, skillID); err != nil {
			return err
		}
		if skill.IsMythos(r.Name) {
			return s.syncSanMax(ctx, sh, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("skill deleted", zap.Int64("sheet_id", sheetID), zap.Int64("skill_id", skillID))
	return nil
}

// ListSkills lists a visible sheet's skills ordered by ID.
func (s *SkillServiceImpl) ListSkills(ctx context.Context, viewerID string, sheetID int64) ([]*primary.Skill, error) {
	if _, err := loadVisible(ctx, s.sheets, viewerID, sheetID); err != nil {
		return nil, err
	}
	records, err := s.skills.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	return recordsToSkills(records), nil
}

// AllocateSingle sets the points of one skill, creating it by name if needed.
func (s *SkillServiceImpl) AllocateSingle(ctx context.Context, ownerID string, sheetID int64, alloc primary.Allocation) (*primary.Skill, error) {
	skills, err := s.AllocateBatch(ctx, ownerID, sheetID, []primary.Allocation{alloc})
	if err != nil {
		return nil, err
	}
	return skills[0], nil
}

// AllocateBatch applies every allocation in one transaction. Budgets are
// checked against the final state, so the order of allocations is irrelevant.
func (s *SkillServiceImpl) AllocateBatch(ctx context.Context, ownerID string, sheetID int64, allocs []primary.Allocation) ([]*primary.Skill, error) {
	if len(allocs) == 0 {
		return nil, errs.Validation("allocations", "at least one allocation is required")
	}
	written := make([]*secondary.SkillRecord, len(allocs))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		set, err := s.loadSet(ctx, ownerID, sheetID)
		if err != nil {
			return err
		}
		for i, alloc := range allocs {
			if written[i], err = s.allocateInto(set, alloc); err != nil {
				return err
			}
		}
		return s.flush(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("points allocated",
		zap.Int64("sheet_id", sheetID),
		zap.String("owner_id", ownerID),
		zap.Int("allocations", len(allocs)))
	return recordsToSkills(written), nil
}

// ResetPoints zeroes occupation and interest points on every skill.
func (s *SkillServiceImpl) ResetPoints(ctx context.Context, ownerID string, sheetID int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		set, err := s.loadSet(ctx, ownerID, sheetID)
		if err != nil {
			return err
		}
		for _, r := range set.records {
			r.OccupationPoints = 0
			r.InterestPoints = 0
			set.touched[r] = true
		}
		return s.flush(ctx, set)
	})
	if err != nil {
		return err
	}
	s.logger.Info("points reset", zap.Int64("sheet_id", sheetID), zap.String("owner_id", ownerID))
	return nil
}

// ApplyOccupationTemplate creates the template skills the sheet lacks.
// Existing skills are left as they are.
func (s *SkillServiceImpl) ApplyOccupationTemplate(ctx context.Context, ownerID string, sheetID int64) ([]*primary.Skill, error) {
	var created []*secondary.SkillRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		set, err := s.loadSet(ctx, ownerID, sheetID)
		if err != nil {
			return err
		}
		occ, ok := s.catalog.Occupation(set.sheet.Occupation)
		if !ok {
			return errs.Validation("occupation", "no skill template for occupation %q", set.sheet.Occupation)
		}
		for _, name := range occ.Skills {
			if set.byName(name) != nil {
				continue
			}
			r, err := s.upsertInto(set, primary.UpsertSkillRequest{Name: name})
			if err != nil {
				return err
			}
			created = append(created, r)
		}
		return s.flush(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("occupation template applied",
		zap.Int64("sheet_id", sheetID),
		zap.Int("created", len(created)))
	return recordsToSkills(created), nil
}

// RestoreSkills writes skills from a backup with budget checks bypassed.
// Per-skill bounds still apply.
func (s *SkillServiceImpl) RestoreSkills(ctx context.Context, ownerID string, sheetID int64, skills []primary.UpsertSkillRequest) ([]*primary.Skill, error) {
	ctx = ctxutil.WithPointValidationBypass(ctx)
	written := make([]*secondary.SkillRecord, len(skills))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		set, err := s.loadSet(ctx, ownerID, sheetID)
		if err != nil {
			return err
		}
		for i, req := range skills {
			if written[i], err = s.upsertInto(set, req); err != nil {
				return err
			}
		}
		return s.flush(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("skills restored",
		zap.Int64("sheet_id", sheetID),
		zap.Int("skills", len(skills)))
	return recordsToSkills(written), nil
}

// PointSummary reports both budgets with spent and remaining points.
func (s *SkillServiceImpl) PointSummary(ctx context.Context, viewerID string, sheetID int64) (*primary.PointSummary, error) {
	sh, err := loadVisible(ctx, s.sheets, viewerID, sheetID)
	if err != nil {
		return nil, err
	}
	records, err := s.skills.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	budgets := skill.BudgetsFor(sh.Abilities, sh.OccupationMultiplier)
	occ, interest := skill.Spent(pointsOf(records))
	return &primary.PointSummary{
		OccupationBudget:    budgets.Occupation,
		OccupationSpent:     occ,
		OccupationRemaining: budgets.Occupation - occ,
		HobbyBudget:         budgets.Hobby,
		HobbySpent:          interest,
		HobbyRemaining:      budgets.Hobby - interest,
	}, nil
}

var _ primary.SkillService = (*SkillServiceImpl)(nil)
