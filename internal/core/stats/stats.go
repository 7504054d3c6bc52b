// Package stats holds the ability vector and the edition-specific
// derived-stat calculator.
package stats

import (
	"fmt"

	"github.com/example/cocsheet/internal/core/dice"
	"github.com/example/cocsheet/internal/core/formula"
	"github.com/example/cocsheet/internal/errs"
)

// Edition tags the rule set a sheet follows.
type Edition string

// Edition6th is the only edition the engine computes rules for.
const Edition6th Edition = "6th"

// Ability bounds at the persistence layer.
const (
	MinAbility = 1
	MaxAbility = 999
)

// MaxSan is the absolute sanity ceiling.
const MaxSan = 99

// ParseEdition validates an edition tag. Anything but "6th" is rejected.
func ParseEdition(s string) (Edition, error) {
	if Edition(s) == Edition6th {
		return Edition6th, nil
	}
	return "", errs.Validation("edition", "unsupported edition %q (only %q)", s, Edition6th)
}

// Abilities is the eight-score ability vector.
type Abilities struct {
	STR int
	CON int
	POW int
	DEX int
	APP int
	SIZ int
	INT int
	EDU int
}

// AbilityNames lists ability symbols in sheet order.
var AbilityNames = []string{"STR", "CON", "POW", "DEX", "APP", "SIZ", "INT", "EDU"}

// Get returns the value for symbol.
func (a Abilities) Get(symbol string) (int, bool) {
	switch symbol {
	case "STR":
		return a.STR, true
	case "CON":
		return a.CON, true
	case "POW":
		return a.POW, true
	case "DEX":
		return a.DEX, true
	case "APP":
		return a.APP, true
	case "SIZ":
		return a.SIZ, true
	case "INT":
		return a.INT, true
	case "EDU":
		return a.EDU, true
	}
	return 0, false
}

// Set assigns value to symbol; unknown symbols are ignored and reported.
func (a *Abilities) Set(symbol string, value int) bool {
	switch symbol {
	case "STR":
		a.STR = value
	case "CON":
		a.CON = value
	case "POW":
		a.POW = value
	case "DEX":
		a.DEX = value
	case "APP":
		a.APP = value
	case "SIZ":
		a.SIZ = value
	case "INT":
		a.INT = value
	case "EDU":
		a.EDU = value
	default:
		return false
	}
	return true
}

// Vars exposes the abilities for formula evaluation.
func (a Abilities) Vars() formula.Vars {
	vars := make(formula.Vars, len(AbilityNames))
	for _, name := range AbilityNames {
		v, _ := a.Get(name)
		vars[name] = v
	}
	return vars
}

// Validate checks every ability is within [MinAbility, MaxAbility].
// The returned error names the first offending ability.
func (a Abilities) Validate() error {
	for _, name := range AbilityNames {
		v, _ := a.Get(name)
		if v < MinAbility || v > MaxAbility {
			return errs.Validation(name, "must be between %d and %d (got %d)", MinAbility, MaxAbility, v)
		}
	}
	return nil
}

// Derived is the set of values computed from abilities.
type Derived struct {
	HPMax       int
	MPMax       int
	SanStart    int
	SanMax      int
	Idea        int
	Luck        int
	Know        int
	DamageBonus string
}

// Derive computes derived stats for edition. SanMax is the creation-time
// ceiling min(99, POW×5); later Mythos writes replace it.
func Derive(edition Edition, a Abilities) (Derived, error) {
	if edition != Edition6th {
		return Derived{}, errs.Validation("edition", "unsupported edition %q", edition)
	}

	return Derived{
		HPMax:       (a.CON + a.SIZ + 1) / 2,
		MPMax:       a.POW,
		SanStart:    a.POW * 5,
		SanMax:      min(MaxSan, a.POW*5),
		Idea:        a.INT * 5,
		Luck:        a.POW * 5,
		Know:        a.EDU * 5,
		DamageBonus: DamageBonus(a.STR + a.SIZ),
	}, nil
}

// damageSteps is the 6th-edition damage bonus table keyed by the upper bound
// of STR+SIZ; values above the last bound get +5D6.
var damageSteps = []struct {
	upTo  int
	bonus string
}{
	{12, "-1D6"},
	{16, "-1D4"},
	{24, "+0"},
	{32, "+1D4"},
	{40, "+1D6"},
	{56, "+2D6"},
	{72, "+3D6"},
	{88, "+4D6"},
}

// DamageBonus returns the damage bonus token for STR+SIZ.
func DamageBonus(strPlusSiz int) string {
	for _, step := range damageSteps {
		if strPlusSiz <= step.upTo {
			return step.bonus
		}
	}
	return "+5D6"
}

// SanMaxWithMythos is the sanity ceiling once a Mythos skill value is known.
func SanMaxWithMythos(mythos int) int {
	v := MaxSan - mythos
	if v < 0 {
		return 0
	}
	return v
}

// abilityDice is the 6th-edition creation roll for each ability.
var abilityDice = []struct {
	name string
	spec dice.Spec
}{
	{"STR", dice.Spec{Count: 3, Sides: 6}},
	{"CON", dice.Spec{Count: 3, Sides: 6}},
	{"POW", dice.Spec{Count: 3, Sides: 6}},
	{"DEX", dice.Spec{Count: 3, Sides: 6}},
	{"APP", dice.Spec{Count: 3, Sides: 6}},
	{"SIZ", dice.Spec{Count: 2, Sides: 6, Bonus: 6}},
	{"INT", dice.Spec{Count: 2, Sides: 6, Bonus: 6}},
	{"EDU", dice.Spec{Count: 3, Sides: 6, Bonus: 3}},
}

// RollAbilities rolls a fresh ability vector from src.
func RollAbilities(src dice.Source) (Abilities, error) {
	var a Abilities
	for _, ad := range abilityDice {
		res, err := dice.RollSpec(src, ad.spec)
		if err != nil {
			return Abilities{}, fmt.Errorf("roll %s: %w", ad.name, err)
		}
		a.Set(ad.name, res.Total)
	}
	return a, nil
}

// AbilityDice returns the creation roll notation for symbol.
func AbilityDice(symbol string) (string, bool) {
	for _, ad := range abilityDice {
		if ad.name == symbol {
			return ad.spec.String(), true
		}
	}
	return "", false
}
