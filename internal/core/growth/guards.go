// Package growth holds the rules for session growth records and the
// per-sheet summary derived from them.
package growth

import (
	"fmt"
	"unicode/utf8"

	"github.com/example/cocsheet/internal/errs"
)

// Bounds for growth records.
const (
	MaxScenarioLength = 200
	MaxSanity         = 99
	MaxSkillValue     = 90
	MinRoll           = 1
	MaxRoll           = 100
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Field   string
}

// Error returns the guard result as a validation error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return errs.Validation(r.Field, "%s", r.Reason)
}

func deny(field, format string, args ...any) GuardResult {
	return GuardResult{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// RecordContext is the header of a growth record.
type RecordContext struct {
	ScenarioName     string
	SanityGained     int
	SanityLost       int
	ExperienceGained int
}

// CanCreateRecord validates a growth record header.
func CanCreateRecord(ctx RecordContext) GuardResult {
	n := utf8.RuneCountInString(ctx.ScenarioName)
	if n == 0 {
		return deny("scenario_name", "scenario name is required")
	}
	if n > MaxScenarioLength {
		return deny("scenario_name", "scenario name exceeds %d characters", MaxScenarioLength)
	}
	if ctx.SanityGained < 0 || ctx.SanityGained > MaxSanity {
		return deny("sanity_gained", "sanity gained must be between 0 and %d (got %d)", MaxSanity, ctx.SanityGained)
	}
	if ctx.SanityLost < 0 || ctx.SanityLost > MaxSanity {
		return deny("sanity_lost", "sanity lost must be between 0 and %d (got %d)", MaxSanity, ctx.SanityLost)
	}
	if ctx.ExperienceGained < 0 {
		return deny("experience_gained", "experience cannot be negative")
	}
	return GuardResult{Allowed: true}
}

// SkillGrowth is one skill's outcome within a session.
type SkillGrowth struct {
	SkillName          string
	HadExperienceCheck bool
	GrowthRoll         *int
	OldValue           int
	NewValue           int
	GrowthAmount       int
}

// NewSkillGrowth builds a child row with GrowthAmount derived from the values.
func NewSkillGrowth(name string, hadCheck bool, roll *int, oldValue, newValue int) SkillGrowth {
	return SkillGrowth{
		SkillName:          name,
		HadExperienceCheck: hadCheck,
		GrowthRoll:         roll,
		OldValue:           oldValue,
		NewValue:           newValue,
		GrowthAmount:       newValue - oldValue,
	}
}

// Succeeded reports whether the growth roll beat the old value.
func (g SkillGrowth) Succeeded() bool {
	return g.HadExperienceCheck && g.GrowthRoll != nil && *g.GrowthRoll > g.OldValue
}

// CanAddSkillGrowth validates a child row.
// Rules: values in [0, 90], roll in [1, 100], amount equals new minus old,
// and positive growth after a checked roll needs that roll to succeed.
func CanAddSkillGrowth(g SkillGrowth) GuardResult {
	if utf8.RuneCountInString(g.SkillName) == 0 {
		return deny("skill_name", "skill name is required")
	}
	if g.OldValue < 0 || g.OldValue > MaxSkillValue {
		return deny("old_value", "old value must be between 0 and %d (got %d)", MaxSkillValue, g.OldValue)
	}
	if g.NewValue < 0 || g.NewValue > MaxSkillValue {
		return deny("new_value", "new value must be between 0 and %d (got %d)", MaxSkillValue, g.NewValue)
	}
	if g.GrowthRoll != nil && (*g.GrowthRoll < MinRoll || *g.GrowthRoll > MaxRoll) {
		return deny("growth_roll_result", "growth roll must be between %d and %d (got %d)", MinRoll, MaxRoll, *g.GrowthRoll)
	}
	if g.GrowthAmount != g.NewValue-g.OldValue {
		return deny("growth_amount", "growth amount %d does not equal %d - %d", g.GrowthAmount, g.NewValue, g.OldValue)
	}
	if g.GrowthAmount > 0 && g.HadExperienceCheck && g.GrowthRoll != nil && *g.GrowthRoll <= g.OldValue {
		return deny("growth_roll_result", "roll %d did not exceed %d, so %s cannot grow", *g.GrowthRoll, g.OldValue, g.SkillName)
	}
	return GuardResult{Allowed: true}
}
