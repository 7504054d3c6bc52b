package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/cocsheet/internal/core/formula"
	"github.com/example/cocsheet/internal/core/sheet"
	"github.com/example/cocsheet/internal/core/skill"
	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// SheetServiceImpl implements the SheetService interface.
type SheetServiceImpl struct {
	tx        secondary.Transactor
	sheets    secondary.SheetRepository
	skills    secondary.SkillRepository
	logWriter secondary.LogWriter
	catalog   *skill.Catalog
	logger    *zap.Logger
}

// NewSheetService creates a new SheetService with injected dependencies.
func NewSheetService(
	tx secondary.Transactor,
	sheets secondary.SheetRepository,
	skills secondary.SkillRepository,
	logWriter secondary.LogWriter,
	catalog *skill.Catalog,
	logger *zap.Logger,
) *SheetServiceImpl {
	if catalog == nil {
		catalog = skill.Default()
	}
	return &SheetServiceImpl{
		tx:        tx,
		sheets:    sheets,
		skills:    skills,
		logWriter: logWriter,
		catalog:   catalog,
		logger:    nopIfNil(logger).Named("sheet"),
	}
}

// CreateSheet creates a sheet with derived stats computed from its abilities.
func (s *SheetServiceImpl) CreateSheet(ctx context.Context, ownerID string, req primary.CreateSheetRequest) (*primary.Sheet, error) {
	edition := req.Edition
	if edition == "" {
		edition = string(stats.Edition6th)
	}
	status, err := sheet.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	templateMultiplier := 0
	if occ, ok := s.catalog.Occupation(req.Occupation); ok {
		templateMultiplier = occ.Multiplier
	}
	multiplier := sheet.ResolveMultiplier(req.OccupationMultiplier, templateMultiplier)

	guard := sheet.CanCreateSheet(sheet.Fields{
		Name:                 req.Name,
		Age:                  req.Age,
		Edition:              edition,
		Abilities:            req.Abilities,
		OccupationMultiplier: multiplier,
		Status:               string(status),
		Version:              1,
		Cash:                 req.Cash,
		Assets:               req.Assets,
		AnnualIncome:         req.AnnualIncome,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	record := &secondary.SheetRecord{
		OwnerID:              ownerID,
		Edition:              edition,
		Name:                 req.Name,
		PlayerName:           req.PlayerName,
		Age:                  req.Age,
		Gender:               req.Gender,
		Occupation:           req.Occupation,
		Birthplace:           req.Birthplace,
		Residence:            req.Residence,
		Abilities:            req.Abilities,
		OccupationMultiplier: multiplier,
		Status:               string(status),
		Version:              1,
		IsActive:             true,
		IsPublic:             req.IsPublic,
	}
	side := &secondary.Sheet6thRecord{
		MentalDisorder: req.MentalDisorder,
		Cash:           req.Cash,
		Assets:         req.Assets,
		AnnualIncome:   req.AnnualIncome,
		RealEstate:     req.RealEstate,
	}
	if err := applyDerived(record, side, nil); err != nil {
		return nil, err
	}
	record.HPCurrent = record.HPMax
	record.MPCurrent = record.MPMax
	record.SanCurrent = record.SanStart

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.sheets.Create(ctx, record); err != nil {
			return err
		}
		side.SheetID = record.ID
		if err := s.sheets.UpsertSidecar(ctx, side); err != nil {
			return err
		}
		return s.logWriter.LogCreate(ctx, "sheet", idString(record.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sheet created",
		zap.Int64("sheet_id", record.ID),
		zap.String("owner_id", ownerID),
		zap.Int("occupation_multiplier", multiplier))
	return s.fetch(ctx, record.ID)
}

// GetSheet returns a sheet the viewer owns or that is public.
func (s *SheetServiceImpl) GetSheet(ctx context.Context, viewerID string, sheetID int64) (*primary.Sheet, error) {
	record, err := loadVisible(ctx, s.sheets, viewerID, sheetID)
	if err != nil {
		return nil, err
	}
	side, err := s.sheets.GetSidecar(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return recordToSheet(record, side), nil
}

// UpdateSheet applies a patch. Derived values are written verbatim unless
// the patch asks for recomputation.
func (s *SheetServiceImpl) UpdateSheet(ctx context.Context, ownerID string, sheetID int64, patch primary.SheetPatch) (*primary.Sheet, error) {
	var changes []fieldChange
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := loadEditable(ctx, s.sheets, ownerID, sheetID)
		if err != nil {
			return err
		}
		side, err := s.sidecarOrEmpty(ctx, current.ID)
		if err != nil {
			return err
		}

		next := *current
		nextSide := *side
		edition := applyPatch(&next, &nextSide, patch)

		skills, err := s.skills.ListBySheet(ctx, sheetID)
		if err != nil {
			return err
		}
		occSpent, intSpent := skill.Spent(pointsOf(skills))
		mythos := 0
		if m := mythosValue(skills); m != nil {
			mythos = *m
		}

		guard := sheet.CanUpdateSheet(sheet.UpdateContext{
			SheetID: sheetID,
			Fields: sheet.Fields{
				Name:                 next.Name,
				Age:                  next.Age,
				Edition:              edition,
				Abilities:            next.Abilities,
				OccupationMultiplier: next.OccupationMultiplier,
				Status:               next.Status,
				Version:              next.Version,
				VersionNote:          next.VersionNote,
				SessionCount:         next.SessionCount,
				Cash:                 nextSide.Cash,
				Assets:               nextSide.Assets,
				AnnualIncome:         nextSide.AnnualIncome,
			},
			CurrentEdition:    current.Edition,
			CurrentAbilities:  current.Abilities,
			CurrentMultiplier: current.OccupationMultiplier,
			RecomputeDerived:  patch.Recompute,
			DerivedTouched:    patch.HPMax != nil || patch.MPMax != nil || patch.SanMax != nil,
			SanMax:            next.SanMax,
			SanMaxTouched:     patch.SanMax != nil,
			MythosValue:       mythos,
			OccupationSpent:   occSpent,
			InterestSpent:     intSpent,
		})
		if err := guard.Error(); err != nil {
			return err
		}

		if patch.Recompute {
			if err := applyDerived(&next, &nextSide, mythosValue(skills)); err != nil {
				return err
			}
		}

		if err := s.sheets.Update(ctx, &next); err != nil {
			return err
		}
		nextSide.SheetID = next.ID
		if err := s.sheets.UpsertSidecar(ctx, &nextSide); err != nil {
			return err
		}

		changes = sheetChanges(current, &next)
		for _, c := range changes {
			if err := s.logWriter.LogUpdate(ctx, "sheet", idString(sheetID), c.field, c.old, c.new); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sheet updated",
		zap.Int64("sheet_id", sheetID),
		zap.String("owner_id", ownerID),
		zap.Int("fields_changed", len(changes)),
		zap.Bool("recompute", patch.Recompute))
	return s.fetch(ctx, sheetID)
}

// DeleteSheet deletes a sheet; skills, growth records, images, the sidecar
// and descendant versions cascade.
func (s *SheetServiceImpl) DeleteSheet(ctx context.Context, ownerID string, sheetID int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := loadEditable(ctx, s.sheets, ownerID, sheetID); err != nil {
			return err
		}
		if err := s.sheets.Delete(ctx, sheetID); err != nil {
			return err
		}
		return s.logWriter.LogDelete(ctx, "sheet", idString(sheetID))
	})
	if err != nil {
		return err
	}
	s.logger.Info("sheet deleted", zap.Int64("sheet_id", sheetID), zap.String("owner_id", ownerID))
	return nil
}

// ListSheets lists the owner's sheets, newest first.
func (s *SheetServiceImpl) ListSheets(ctx context.Context, ownerID string, filters primary.SheetFilters) ([]*primary.Sheet, error) {
	if filters.Limit < 0 || filters.Offset < 0 {
		return nil, errs.Validation("limit", "pagination values cannot be negative")
	}
	records, err := s.sheets.List(ctx, secondary.SheetFilters{
		OwnerID:  ownerID,
		Edition:  filters.Edition,
		IsActive: filters.IsActive,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}

	sheets := make([]*primary.Sheet, len(records))
	for i, r := range records {
		side, err := s.sheets.GetSidecar(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		sheets[i] = recordToSheet(r, side)
	}
	return sheets, nil
}

// RecomputeDerived refreshes derived stats. Current values are untouched.
func (s *SheetServiceImpl) RecomputeDerived(ctx context.Context, ownerID string, sheetID int64) (*primary.Sheet, error) {
	return s.UpdateSheet(ctx, ownerID, sheetID, primary.SheetPatch{Recompute: true})
}

// EvaluateFormula evaluates a named formula tag, or expression when tag is
// empty or "custom", against the sheet's abilities.
func (s *SheetServiceImpl) EvaluateFormula(ctx context.Context, viewerID string, sheetID int64, tag, expression string) (int, error) {
	record, err := loadVisible(ctx, s.sheets, viewerID, sheetID)
	if err != nil {
		return 0, err
	}
	if tag == "" {
		tag = string(formula.TagCustom)
	}
	return formula.EvaluateTag(formula.Tag(tag), expression, record.Abilities.Vars())
}

func (s *SheetServiceImpl) fetch(ctx context.Context, id int64) (*primary.Sheet, error) {
	record, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	side, err := s.sheets.GetSidecar(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToSheet(record, side), nil
}

func (s *SheetServiceImpl) sidecarOrEmpty(ctx context.Context, sheetID int64) (*secondary.Sheet6thRecord, error) {
	side, err := s.sheets.GetSidecar(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if side == nil {
		side = &secondary.Sheet6thRecord{SheetID: sheetID, DamageBonus: "+0"}
	}
	return side, nil
}

// applyDerived overwrites the computed columns of r and side from r's
// abilities. A non-nil mythos replaces the creation-time sanity ceiling.
func applyDerived(r *secondary.SheetRecord, side *secondary.Sheet6thRecord, mythos *int) error {
	d, err := stats.Derive(stats.Edition(r.Edition), r.Abilities)
	if err != nil {
		return err
	}
	r.HPMax = d.HPMax
	r.MPMax = d.MPMax
	r.SanStart = d.SanStart
	r.SanMax = d.SanMax
	if mythos != nil {
		r.SanMax = stats.SanMaxWithMythos(*mythos)
	}
	side.IdeaRoll = d.Idea
	side.LuckRoll = d.Luck
	side.KnowRoll = d.Know
	side.DamageBonus = d.DamageBonus
	return nil
}

// applyPatch copies the set fields of p onto r and side and returns the
// edition the patch asks for.
func applyPatch(r *secondary.SheetRecord, side *secondary.Sheet6thRecord, p primary.SheetPatch) string {
	setString(&r.Name, p.Name)
	setString(&r.PlayerName, p.PlayerName)
	setInt(&r.Age, p.Age)
	setString(&r.Gender, p.Gender)
	setString(&r.Occupation, p.Occupation)
	setString(&r.Birthplace, p.Birthplace)
	setString(&r.Residence, p.Residence)
	if p.Abilities != nil {
		r.Abilities = *p.Abilities
	}
	setInt(&r.OccupationMultiplier, p.OccupationMultiplier)
	setInt(&r.HPMax, p.HPMax)
	setInt(&r.HPCurrent, p.HPCurrent)
	setInt(&r.MPMax, p.MPMax)
	setInt(&r.MPCurrent, p.MPCurrent)
	setInt(&r.SanMax, p.SanMax)
	setInt(&r.SanCurrent, p.SanCurrent)
	setString(&r.Status, p.Status)
	setString(&r.VersionNote, p.VersionNote)
	setInt(&r.SessionCount, p.SessionCount)
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
	if p.IsPublic != nil {
		r.IsPublic = *p.IsPublic
	}

	setString(&side.MentalDisorder, p.MentalDisorder)
	setDecimal(&side.Cash, p.Cash)
	setDecimal(&side.Assets, p.Assets)
	setDecimal(&side.AnnualIncome, p.AnnualIncome)
	setString(&side.RealEstate, p.RealEstate)

	if p.Edition != nil {
		return *p.Edition
	}
	return r.Edition
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

type fieldChange struct {
	field, old, new string
}

// sheetChanges lists the audited columns that differ between a and b.
func sheetChanges(a, b *secondary.SheetRecord) []fieldChange {
	var out []fieldChange
	str := func(field, x, y string) {
		if x != y {
			out = append(out, fieldChange{field, x, y})
		}
	}
	num := func(field string, x, y int) {
		str(field, strconv.Itoa(x), strconv.Itoa(y))
	}
	flag := func(field string, x, y bool) {
		str(field, strconv.FormatBool(x), strconv.FormatBool(y))
	}

	str("name", a.Name, b.Name)
	str("player_name", a.PlayerName, b.PlayerName)
	num("age", a.Age, b.Age)
	str("occupation", a.Occupation, b.Occupation)
	for _, name := range stats.AbilityNames {
		x, _ := a.Abilities.Get(name)
		y, _ := b.Abilities.Get(name)
		num(name, x, y)
	}
	num("occupation_multiplier", a.OccupationMultiplier, b.OccupationMultiplier)
	num("hp_max", a.HPMax, b.HPMax)
	num("hp_current", a.HPCurrent, b.HPCurrent)
	num("mp_max", a.MPMax, b.MPMax)
	num("mp_current", a.MPCurrent, b.MPCurrent)
	num("san_start", a.SanStart, b.SanStart)
	num("san_max", a.SanMax, b.SanMax)
	num("san_current", a.SanCurrent, b.SanCurrent)
	str("status", a.Status, b.Status)
	str("version_note", a.VersionNote, b.VersionNote)
	num("session_count", a.SessionCount, b.SessionCount)
	flag("is_active", a.IsActive, b.IsActive)
	flag("is_public", a.IsPublic, b.IsPublic)
	return out
}

func pointsOf(records []*secondary.SkillRecord) []skill.Points {
	out := make([]skill.Points, len(records))
	for i, r := range records {
		out[i] = pointsFromRecord(r)
	}
	return out
}

func pointsFromRecord(r *secondary.SkillRecord) skill.Points {
	return skill.Points{
		Base:       r.BaseValue,
		Occupation: r.OccupationPoints,
		Interest:   r.InterestPoints,
		Bonus:      r.BonusPoints,
		Other:      r.OtherPoints,
	}
}

// mythosValue returns the Mythos skill's current value, or nil when the
// sheet has no Mythos skill.
func mythosValue(records []*secondary.SkillRecord) *int {
	for _, r := range records {
		if skill.IsMythos(r.Name) {
			v := r.CurrentValue
			return &v
		}
	}
	return nil
}

var _ primary.SheetService = (*SheetServiceImpl)(nil)
