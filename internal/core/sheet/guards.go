// Package sheet contains the pure business rules for character sheets:
// field validation, access rights, and budget checks on update.
// No I/O happens here; callers pre-fetch what the guards need.
package sheet

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/errs"
)

// Status is the lifecycle state of an investigator.
type Status string

const (
	StatusAlive   Status = "alive"
	StatusDead    Status = "dead"
	StatusInsane  Status = "insane"
	StatusInjured Status = "injured"
	StatusMissing Status = "missing"
	StatusRetired Status = "retired"
)

var statuses = []Status{StatusAlive, StatusDead, StatusInsane, StatusInjured, StatusMissing, StatusRetired}

// ParseStatus validates s; the empty string maps to StatusAlive.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusAlive, nil
	}
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", errs.Validation("status", "unknown status %q", s)
}

// Field bounds.
const (
	MinAge            = 15
	MaxAge            = 90
	MaxNameLength     = 100
	MaxNoteLength     = 1000
	MinMultiplier     = 15
	MaxMultiplier     = 30
	DefaultMultiplier = 20
)

// MaxMoney is the exclusive upper bound for financial fields.
var MaxMoney = decimal.NewFromInt(1_000_000_000)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string    // Human-readable reason (populated when not allowed)
	Field   string    // Offending field, when the failure is field-specific
	Kind    errs.Kind // Defaults to validation
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	kind := r.Kind
	if kind == "" {
		kind = errs.KindValidation
	}
	return &errs.Error{Kind: kind, Field: r.Field, Message: r.Reason}
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(field, format string, args ...any) GuardResult {
	return GuardResult{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Fields is the editable state of a sheet checked by create and update guards.
type Fields struct {
	Name                 string
	Age                  int
	Edition              string
	Abilities            stats.Abilities
	OccupationMultiplier int
	Status               string
	Version              int
	VersionNote          string
	SessionCount         int
	Cash                 decimal.Decimal
	Assets               decimal.Decimal
	AnnualIncome         decimal.Decimal
}

// CanCreateSheet evaluates whether a new sheet may be stored.
// Rules: edition is 6th, fields in range, money in [0, 10^9).
func CanCreateSheet(f Fields) GuardResult {
	if _, err := stats.ParseEdition(f.Edition); err != nil {
		return deny("edition", "unsupported edition %q", f.Edition)
	}
	return checkFields(f)
}

func checkFields(f Fields) GuardResult {
	n := utf8.RuneCountInString(f.Name)
	if n == 0 {
		return deny("name", "name is required")
	}
	if n > MaxNameLength {
		return deny("name", "name exceeds %d characters", MaxNameLength)
	}
	if f.Age < MinAge || f.Age > MaxAge {
		return deny("age", "age must be between %d and %d (got %d)", MinAge, MaxAge, f.Age)
	}
	if err := f.Abilities.Validate(); err != nil {
		return deny(errs.FieldOf(err), "%s must be between %d and %d", errs.FieldOf(err), stats.MinAbility, stats.MaxAbility)
	}
	if f.OccupationMultiplier < MinMultiplier || f.OccupationMultiplier > MaxMultiplier {
		return deny("occupation_multiplier", "occupation multiplier must be between %d and %d (got %d)",
			MinMultiplier, MaxMultiplier, f.OccupationMultiplier)
	}
	if _, err := ParseStatus(f.Status); err != nil {
		return deny("status", "unknown status %q", f.Status)
	}
	if f.Version < 1 {
		return deny("version", "version must be positive (got %d)", f.Version)
	}
	if utf8.RuneCountInString(f.VersionNote) > MaxNoteLength {
		return deny("version_note", "version note exceeds %d characters", MaxNoteLength)
	}
	if f.SessionCount < 0 {
		return deny("session_count", "session count cannot be negative")
	}
	for _, m := range []struct {
		field string
		v     decimal.Decimal
	}{{"cash", f.Cash}, {"assets", f.Assets}, {"annual_income", f.AnnualIncome}} {
		if m.v.IsNegative() || m.v.GreaterThanOrEqual(MaxMoney) {
			return deny(m.field, "%s must be at least 0 and below 1000000000", m.field)
		}
	}
	return allow()
}

// UpdateContext carries the patched sheet and the facts an update guard needs.
type UpdateContext struct {
	SheetID int64
	Fields  Fields
	// CurrentEdition is the stored edition; the patch may not change it.
	CurrentEdition string
	// Stored values the point budgets are computed from.
	CurrentAbilities  stats.Abilities
	CurrentMultiplier int
	// RecomputeDerived is set when the same call asks for derived-stat recomputation.
	RecomputeDerived bool
	// DerivedTouched is set when the patch writes derived values directly.
	DerivedTouched bool
	// SanMax is the patched sanity ceiling; checked when SanMaxTouched.
	SanMax        int
	SanMaxTouched bool
	// MythosValue is the Mythos skill's current value, 0 without one.
	MythosValue int
	// Points already allocated across the sheet's skills.
	OccupationSpent int
	InterestSpent   int
}

// CanUpdateSheet evaluates whether a patch may be applied.
// Rules: edition is immutable, derived values cannot be written and
// recomputed in one call, san_max stays within 99 minus Mythos, and a
// budget the patch lowers cannot drop below spent points.
func CanUpdateSheet(ctx UpdateContext) GuardResult {
	if ctx.Fields.Edition != ctx.CurrentEdition {
		return deny("edition", "edition cannot be changed (sheet %d is %q)", ctx.SheetID, ctx.CurrentEdition)
	}
	if ctx.RecomputeDerived && ctx.DerivedTouched {
		return deny("derived", "cannot write derived values and recompute them in the same update")
	}
	if r := checkFields(ctx.Fields); !r.Allowed {
		return r
	}

	if ceiling := stats.SanMaxWithMythos(ctx.MythosValue); ctx.SanMaxTouched && ctx.SanMax > ceiling {
		return deny("san_max", "san_max %d exceeds the ceiling of %d (99 minus Mythos %d)", ctx.SanMax, ceiling, ctx.MythosValue)
	}

	occBudget := ctx.Fields.Abilities.EDU * ctx.Fields.OccupationMultiplier
	occBefore := ctx.CurrentAbilities.EDU * ctx.CurrentMultiplier
	if occBudget < occBefore && ctx.OccupationSpent > occBudget {
		return deny("occupation_points", "occupation budget %d is below the %d points already allocated", occBudget, ctx.OccupationSpent)
	}
	hobbyBudget := ctx.Fields.Abilities.INT * 10
	hobbyBefore := ctx.CurrentAbilities.INT * 10
	if hobbyBudget < hobbyBefore && ctx.InterestSpent > hobbyBudget {
		return deny("interest_points", "hobby budget %d is below the %d points already allocated", hobbyBudget, ctx.InterestSpent)
	}
	return allow()
}

// AccessContext describes a viewer's relationship to a sheet.
type AccessContext struct {
	SheetID  int64
	ViewerID string
	OwnerID  string
	IsPublic bool
}

// CanView evaluates read access: owner or public sheet.
// Hidden sheets are reported as not found so existence does not leak.
func CanView(ctx AccessContext) GuardResult {
	if ctx.ViewerID == ctx.OwnerID || ctx.IsPublic {
		return allow()
	}
	return GuardResult{Kind: errs.KindNotFound, Reason: fmt.Sprintf("sheet %d not found", ctx.SheetID)}
}

// CanEdit evaluates write access: owner only.
func CanEdit(ctx AccessContext) GuardResult {
	if ctx.ViewerID == ctx.OwnerID {
		return allow()
	}
	if !ctx.IsPublic {
		return GuardResult{Kind: errs.KindNotFound, Reason: fmt.Sprintf("sheet %d not found", ctx.SheetID)}
	}
	return GuardResult{
		Kind:   errs.KindPermissionDenied,
		Reason: fmt.Sprintf("sheet %d belongs to another user", ctx.SheetID),
	}
}

// ResolveMultiplier picks the occupation multiplier for a new sheet.
// An explicit value wins, then the occupation template's, then 20.
func ResolveMultiplier(explicit, templateDefault int) int {
	if explicit != 0 {
		return explicit
	}
	if templateDefault != 0 {
		return templateDefault
	}
	return DefaultMultiplier
}
