// Package skill contains the pure rules for skills and the skill-point
// economy: point decomposition, per-skill bounds, sheet budgets, and the
// Mythos sanity ceiling.
package skill

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/errs"
)

// MythosName is the reserved skill whose value lowers the sanity ceiling.
const MythosName = "クトゥルフ神話"

// Bounds on a single skill.
const (
	MaxNameLength = 100
	MaxComponent  = 100
)

// DefaultCap applies to editions without an entry in caps.
const DefaultCap = 999

var caps = map[stats.Edition]int{
	stats.Edition6th: 999,
}

// Cap returns the current_value ceiling for edition.
func Cap(edition stats.Edition) int {
	if c, ok := caps[edition]; ok {
		return c
	}
	return DefaultCap
}

// Category groups skills on the sheet.
type Category string

const (
	CategoryCombat      Category = "combat"
	CategoryFirearms    Category = "firearms"
	CategoryExploration Category = "exploration"
	CategoryAction      Category = "action"
	CategoryNegotiation Category = "negotiation"
	CategoryKnowledge   Category = "knowledge"
	CategoryLanguage    Category = "language"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCombat, CategoryFirearms, CategoryExploration, CategoryAction,
	CategoryNegotiation, CategoryKnowledge, CategoryLanguage, CategoryOther,
}

// ParseCategory validates s; the empty string maps to CategoryOther.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", errs.Validation("category", "unknown category %q", s)
}

// NormalizeName trims and NFC-normalizes a skill name so that composed and
// decomposed kana compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// IsMythos reports whether name is the Mythos skill.
func IsMythos(name string) bool {
	return NormalizeName(name) == MythosName
}

// Points is the five-way decomposition of a skill value.
type Points struct {
	Base       int
	Occupation int
	Interest   int
	Bonus      int
	Other      int
}

// Sum adds every component.
func (p Points) Sum() int {
	return p.Base + p.Occupation + p.Interest + p.Bonus + p.Other
}

// CurrentValue returns the clamped skill value for edition.
func (p Points) CurrentValue(edition stats.Edition) int {
	return clamp(p.Sum(), 0, Cap(edition))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

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

// WriteContext describes a single skill write.
type WriteContext struct {
	Name     string
	Category string
	Points   Points
	Edition  stats.Edition
}

// CanWriteSkill evaluates the per-skill rules.
// Rules: name is 1..100 characters, category is known, each component is
// in [0, 100], and the summed value stays within the edition cap.
func CanWriteSkill(ctx WriteContext) GuardResult {
	n := utf8.RuneCountInString(NormalizeName(ctx.Name))
	if n == 0 {
		return deny("skill_name", "skill name is required")
	}
	if n > MaxNameLength {
		return deny("skill_name", "skill name exceeds %d characters", MaxNameLength)
	}
	if _, err := ParseCategory(ctx.Category); err != nil {
		return deny("category", "unknown category %q", ctx.Category)
	}

	for _, c := range []struct {
		field string
		v     int
	}{
		{"base_value", ctx.Points.Base},
		{"occupation_points", ctx.Points.Occupation},
		{"interest_points", ctx.Points.Interest},
		{"bonus_points", ctx.Points.Bonus},
		{"other_points", ctx.Points.Other},
	} {
		if c.v < 0 || c.v > MaxComponent {
			return deny(c.field, "%s must be between 0 and %d (got %d)", c.field, MaxComponent, c.v)
		}
	}

	if limit := Cap(ctx.Edition); ctx.Points.Sum() > limit {
		return deny("current_value", "skill value %d exceeds the cap of %d", ctx.Points.Sum(), limit)
	}
	return GuardResult{Allowed: true}
}

// Budgets holds a sheet's two point pools.
type Budgets struct {
	Occupation int
	Hobby      int
}

// BudgetsFor computes EDU×multiplier and INT×10.
func BudgetsFor(a stats.Abilities, multiplier int) Budgets {
	return Budgets{
		Occupation: a.EDU * multiplier,
		Hobby:      a.INT * 10,
	}
}

// Spent totals occupation and interest points across skills.
func Spent(points []Points) (occupation, interest int) {
	for _, p := range points {
		occupation += p.Occupation
		interest += p.Interest
	}
	return occupation, interest
}

// BudgetContext describes the sheet-wide point totals around a write.
type BudgetContext struct {
	Budgets         Budgets
	OccupationSpent int
	InterestSpent   int
	// Totals before the write.
	OccupationBefore int
	InterestBefore   int
	// Set when the write raised any single skill's points in that pool.
	OccupationRaised bool
	InterestRaised   bool
	// Bypass skips the check; set only by restore paths.
	Bypass bool
}

// CanSpend evaluates the budget rule: spent occupation points may not exceed
// EDU×multiplier and spent interest points may not exceed INT×10.
// A pool already over budget, which only a restore can cause, accepts writes
// that raise no skill in that pool; moving points between skills is rejected.
func CanSpend(ctx BudgetContext) GuardResult {
	if ctx.Bypass {
		return GuardResult{Allowed: true}
	}
	if !withinPool(ctx.OccupationSpent, ctx.Budgets.Occupation, ctx.OccupationBefore, ctx.OccupationRaised) {
		return deny("occupation_points", "occupation points %d exceed the budget of %d",
			ctx.OccupationSpent, ctx.Budgets.Occupation)
	}
	if !withinPool(ctx.InterestSpent, ctx.Budgets.Hobby, ctx.InterestBefore, ctx.InterestRaised) {
		return deny("interest_points", "interest points %d exceed the budget of %d",
			ctx.InterestSpent, ctx.Budgets.Hobby)
	}
	return GuardResult{Allowed: true}
}

func withinPool(spent, budget, before int, raised bool) bool {
	if spent <= budget {
		return true
	}
	return !raised && spent <= before
}

// SanMax returns the sanity ceiling implied by a Mythos value.
func SanMax(mythosValue int) int {
	return stats.SanMaxWithMythos(mythosValue)
}
