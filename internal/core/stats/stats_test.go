package stats

import (
	"errors"
	"testing"

	"github.com/example/cocsheet/internal/core/dice"
	"github.com/example/cocsheet/internal/errs"
)

var detective = Abilities{STR: 13, CON: 14, POW: 11, DEX: 13, APP: 10, SIZ: 12, INT: 15, EDU: 16}

func TestDeriveDetective(t *testing.T) {
	got, err := Derive(Edition6th, detective)
	if err != nil {
		t.Fatalf("Derive returned error: %v", err)
	}

	want := Derived{
		HPMax:       13,
		MPMax:       11,
		SanStart:    55,
		SanMax:      55,
		Idea:        75,
		Luck:        55,
		Know:        80,
		DamageBonus: "+0",
	}
	if got != want {
		t.Errorf("Derive = %+v, want %+v", got, want)
	}
}

func TestDeriveRoundsHPUp(t *testing.T) {
	got, err := Derive(Edition6th, Abilities{STR: 10, CON: 13, POW: 10, DEX: 10, APP: 10, SIZ: 12, INT: 10, EDU: 10})
	if err != nil {
		t.Fatalf("Derive returned error: %v", err)
	}
	if got.HPMax != 13 {
		t.Errorf("HPMax = %d, want ceil(25/2)=13", got.HPMax)
	}
}

func TestDeriveCapsSanMax(t *testing.T) {
	got, err := Derive(Edition6th, Abilities{STR: 10, CON: 10, POW: 21, DEX: 10, APP: 10, SIZ: 10, INT: 10, EDU: 10})
	if err != nil {
		t.Fatalf("Derive returned error: %v", err)
	}
	if got.SanStart != 105 {
		t.Errorf("SanStart = %d, want 105", got.SanStart)
	}
	if got.SanMax != 99 {
		t.Errorf("SanMax = %d, want 99", got.SanMax)
	}
}

func TestDeriveRejectsOtherEditions(t *testing.T) {
	_, err := Derive("7th", detective)
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParseEdition("7th"); errs.FieldOf(err) != "edition" {
		t.Fatalf("ParseEdition error = %v", err)
	}
	if ed, err := ParseEdition("6th"); err != nil || ed != Edition6th {
		t.Fatalf("ParseEdition(6th) = %q, %v", ed, err)
	}
}

func TestDamageBonusPairs(t *testing.T) {
	tests := []struct {
		str, siz int
		want     string
	}{
		{6, 6, "-1D6"},
		{7, 7, "-1D4"},
		{10, 10, "+0"},
		{14, 14, "+1D4"},
		{18, 18, "+1D6"},
	}

	for _, tt := range tests {
		if got := DamageBonus(tt.str + tt.siz); got != tt.want {
			t.Errorf("DamageBonus(%d+%d) = %q, want %q", tt.str, tt.siz, got, tt.want)
		}
	}
}

func TestDamageBonusBoundaries(t *testing.T) {
	tests := []struct {
		sum  int
		want string
	}{
		{2, "-1D6"}, {12, "-1D6"},
		{13, "-1D4"}, {16, "-1D4"},
		{17, "+0"}, {24, "+0"},
		{25, "+1D4"}, {32, "+1D4"},
		{33, "+1D6"}, {40, "+1D6"},
		{41, "+2D6"}, {56, "+2D6"},
		{57, "+3D6"}, {72, "+3D6"},
		{73, "+4D6"}, {88, "+4D6"},
		{89, "+5D6"}, {1998, "+5D6"},
	}

	for _, tt := range tests {
		if got := DamageBonus(tt.sum); got != tt.want {
			t.Errorf("DamageBonus(%d) = %q, want %q", tt.sum, got, tt.want)
		}
	}
}

func TestDamageBonusIsMonotone(t *testing.T) {
	order := map[string]int{"-1D6": 0, "-1D4": 1, "+0": 2, "+1D4": 3, "+1D6": 4, "+2D6": 5, "+3D6": 6, "+4D6": 7, "+5D6": 8}
	prev := -1
	for sum := 2; sum <= 200; sum++ {
		rank, ok := order[DamageBonus(sum)]
		if !ok {
			t.Fatalf("unexpected token %q", DamageBonus(sum))
		}
		if rank < prev {
			t.Fatalf("DamageBonus decreased at %d", sum)
		}
		prev = rank
	}
}

func TestSanMaxWithMythos(t *testing.T) {
	if got := SanMaxWithMythos(20); got != 79 {
		t.Errorf("SanMaxWithMythos(20) = %d", got)
	}
	if got := SanMaxWithMythos(0); got != 99 {
		t.Errorf("SanMaxWithMythos(0) = %d", got)
	}
	if got := SanMaxWithMythos(150); got != 0 {
		t.Errorf("SanMaxWithMythos(150) = %d", got)
	}
}

func TestAbilitiesValidate(t *testing.T) {
	if err := detective.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	bad := detective
	bad.SIZ = 0
	if err := bad.Validate(); errs.FieldOf(err) != "SIZ" {
		t.Errorf("expected SIZ error, got %v", err)
	}

	bad = detective
	bad.EDU = 1000
	if err := bad.Validate(); errs.FieldOf(err) != "EDU" {
		t.Errorf("expected EDU error, got %v", err)
	}
}

func TestAbilitiesGetSetVars(t *testing.T) {
	var a Abilities
	for i, name := range AbilityNames {
		if !a.Set(name, i+1) {
			t.Fatalf("Set(%s) failed", name)
		}
	}
	if a.Set("LUCK", 1) {
		t.Fatalf("Set(LUCK) must fail")
	}

	vars := a.Vars()
	for i, name := range AbilityNames {
		got, ok := a.Get(name)
		if !ok || got != i+1 {
			t.Errorf("Get(%s) = %d, %v", name, got, ok)
		}
		if vars[name] != i+1 {
			t.Errorf("Vars[%s] = %d", name, vars[name])
		}
	}
}

func TestRollAbilitiesRanges(t *testing.T) {
	src := dice.NewSource(99)
	for i := 0; i < 200; i++ {
		a, err := RollAbilities(src)
		if err != nil {
			t.Fatalf("RollAbilities returned error: %v", err)
		}
		for _, name := range []string{"STR", "CON", "POW", "DEX", "APP"} {
			v, _ := a.Get(name)
			if v < 3 || v > 18 {
				t.Fatalf("%s = %d out of 3D6 range", name, v)
			}
		}
		if a.SIZ < 8 || a.SIZ > 18 || a.INT < 8 || a.INT > 18 {
			t.Fatalf("SIZ/INT out of 2D6+6 range: %+v", a)
		}
		if a.EDU < 6 || a.EDU > 21 {
			t.Fatalf("EDU = %d out of 3D6+3 range", a.EDU)
		}
	}
}

func TestAbilityDice(t *testing.T) {
	if s, ok := AbilityDice("EDU"); !ok || s != "3D6+3" {
		t.Errorf("AbilityDice(EDU) = %q, %v", s, ok)
	}
	if _, ok := AbilityDice("LUCK"); ok {
		t.Errorf("AbilityDice(LUCK) should not exist")
	}
}
