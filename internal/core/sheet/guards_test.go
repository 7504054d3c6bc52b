package sheet

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/errs"
)

func validFields() Fields {
	return Fields{
		Name:                 "Harvey Walters",
		Age:                  28,
		Edition:              "6th",
		Abilities:            stats.Abilities{STR: 13, CON: 14, POW: 11, DEX: 13, APP: 10, SIZ: 12, INT: 15, EDU: 16},
		OccupationMultiplier: 20,
		Status:               "alive",
		Version:              1,
		Cash:                 decimal.NewFromInt(500),
	}
}

func TestCanCreateSheet(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(f *Fields)
		wantAllowed bool
		wantField   string
	}{
		{name: "valid sheet", mutate: func(f *Fields) {}, wantAllowed: true},
		{name: "7th edition rejected", mutate: func(f *Fields) { f.Edition = "7th" }, wantField: "edition"},
		{name: "empty name", mutate: func(f *Fields) { f.Name = "" }, wantField: "name"},
		{name: "long name", mutate: func(f *Fields) { f.Name = strings.Repeat("あ", 101) }, wantField: "name"},
		{name: "100 rune name", mutate: func(f *Fields) { f.Name = strings.Repeat("あ", 100) }, wantAllowed: true},
		{name: "too young", mutate: func(f *Fields) { f.Age = 14 }, wantField: "age"},
		{name: "minimum age", mutate: func(f *Fields) { f.Age = 15 }, wantAllowed: true},
		{name: "maximum age", mutate: func(f *Fields) { f.Age = 90 }, wantAllowed: true},
		{name: "too old", mutate: func(f *Fields) { f.Age = 91 }, wantField: "age"},
		{name: "ability zero", mutate: func(f *Fields) { f.Abilities.POW = 0 }, wantField: "POW"},
		{name: "ability 999", mutate: func(f *Fields) { f.Abilities.STR = 999 }, wantAllowed: true},
		{name: "multiplier low", mutate: func(f *Fields) { f.OccupationMultiplier = 14 }, wantField: "occupation_multiplier"},
		{name: "multiplier high", mutate: func(f *Fields) { f.OccupationMultiplier = 31 }, wantField: "occupation_multiplier"},
		{name: "unknown status", mutate: func(f *Fields) { f.Status = "zombie" }, wantField: "status"},
		{name: "empty status defaults", mutate: func(f *Fields) { f.Status = "" }, wantAllowed: true},
		{name: "zero version", mutate: func(f *Fields) { f.Version = 0 }, wantField: "version"},
		{name: "long version note", mutate: func(f *Fields) { f.VersionNote = strings.Repeat("x", 1001) }, wantField: "version_note"},
		{name: "negative sessions", mutate: func(f *Fields) { f.SessionCount = -1 }, wantField: "session_count"},
		{name: "negative cash", mutate: func(f *Fields) { f.Cash = decimal.NewFromInt(-1) }, wantField: "cash"},
		{name: "assets at limit", mutate: func(f *Fields) { f.Assets = MaxMoney }, wantField: "assets"},
		{name: "income just below limit", mutate: func(f *Fields) { f.AnnualIncome = decimal.RequireFromString("999999999.99") }, wantAllowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			result := CanCreateSheet(f)

			if result.Allowed != tt.wantAllowed {
				t.Fatalf("CanCreateSheet() Allowed = %v, want %v (reason %q)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if result.Field != tt.wantField {
				t.Errorf("CanCreateSheet() Field = %q, want %q", result.Field, tt.wantField)
			}

			err := result.Error()
			if tt.wantAllowed && err != nil {
				t.Errorf("CanCreateSheet().Error() = %v, want nil", err)
			}
			if !tt.wantAllowed {
				if !errors.Is(err, errs.ErrValidation) {
					t.Errorf("CanCreateSheet().Error() = %v, want validation error", err)
				}
				if errs.FieldOf(err) != tt.wantField {
					t.Errorf("FieldOf = %q, want %q", errs.FieldOf(err), tt.wantField)
				}
			}
		})
	}
}

func TestCanUpdateSheet(t *testing.T) {
	stored := validFields()
	// updateCtx patches a copy of the stored sheet.
	updateCtx := func(patch func(*Fields), c UpdateContext) UpdateContext {
		f := validFields()
		if patch != nil {
			patch(&f)
		}
		c.SheetID = 1
		c.Fields = f
		c.CurrentEdition = stored.Edition
		c.CurrentAbilities = stored.Abilities
		c.CurrentMultiplier = stored.OccupationMultiplier
		return c
	}

	tests := []struct {
		name        string
		ctx         UpdateContext
		wantAllowed bool
		wantField   string
	}{
		{
			name:        "plain update",
			ctx:         updateCtx(nil, UpdateContext{}),
			wantAllowed: true,
		},
		{
			name:      "edition change",
			ctx:       updateCtx(func(f *Fields) { f.Edition = "7th" }, UpdateContext{}),
			wantField: "edition",
		},
		{
			name:      "derived written and recomputed",
			ctx:       updateCtx(nil, UpdateContext{RecomputeDerived: true, DerivedTouched: true}),
			wantField: "derived",
		},
		{
			name:        "recompute alone",
			ctx:         updateCtx(nil, UpdateContext{RecomputeDerived: true}),
			wantAllowed: true,
		},
		{
			name:        "budget equal to spent",
			ctx:         updateCtx(nil, UpdateContext{OccupationSpent: 320, InterestSpent: 150}),
			wantAllowed: true,
		},
		{
			name:      "occupation budget shrinks below spent",
			ctx:       updateCtx(func(f *Fields) { f.Abilities.EDU = 10 }, UpdateContext{OccupationSpent: 201}),
			wantField: "occupation_points",
		},
		{
			name:      "multiplier shrinks below spent",
			ctx:       updateCtx(func(f *Fields) { f.OccupationMultiplier = 10 }, UpdateContext{OccupationSpent: 161}),
			wantField: "occupation_points",
		},
		{
			name:      "hobby budget shrinks below spent",
			ctx:       updateCtx(func(f *Fields) { f.Abilities.INT = 10 }, UpdateContext{InterestSpent: 101}),
			wantField: "interest_points",
		},
		{
			name:        "budget lowered but still covers spent",
			ctx:         updateCtx(func(f *Fields) { f.Abilities.EDU = 10 }, UpdateContext{OccupationSpent: 200}),
			wantAllowed: true,
		},
		{
			name:        "already over budget and budget unchanged",
			ctx:         updateCtx(func(f *Fields) { f.Status = "injured" }, UpdateContext{OccupationSpent: 400, InterestSpent: 200}),
			wantAllowed: true,
		},
		{
			name:        "already over budget and budget raised",
			ctx:         updateCtx(func(f *Fields) { f.Abilities.EDU = 18 }, UpdateContext{OccupationSpent: 400}),
			wantAllowed: true,
		},
		{
			name:        "san_max at ceiling without Mythos",
			ctx:         updateCtx(nil, UpdateContext{SanMax: 99, SanMaxTouched: true}),
			wantAllowed: true,
		},
		{
			name:      "san_max above 99",
			ctx:       updateCtx(nil, UpdateContext{SanMax: 500, SanMaxTouched: true}),
			wantField: "san_max",
		},
		{
			name:      "san_max ignores Mythos",
			ctx:       updateCtx(nil, UpdateContext{SanMax: 99, SanMaxTouched: true, MythosValue: 30}),
			wantField: "san_max",
		},
		{
			name:        "san_max within Mythos ceiling",
			ctx:         updateCtx(nil, UpdateContext{SanMax: 69, SanMaxTouched: true, MythosValue: 30}),
			wantAllowed: true,
		},
		{
			name:        "stored san_max untouched",
			ctx:         updateCtx(nil, UpdateContext{SanMax: 99, MythosValue: 30}),
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanUpdateSheet(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Fatalf("CanUpdateSheet() Allowed = %v, want %v (reason %q)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if result.Field != tt.wantField {
				t.Errorf("CanUpdateSheet() Field = %q, want %q", result.Field, tt.wantField)
			}
		})
	}
}

func TestAccessGuards(t *testing.T) {
	tests := []struct {
		name     string
		ctx      AccessContext
		viewKind errs.Kind // empty when allowed
		editKind errs.Kind
	}{
		{
			name: "owner private",
			ctx:  AccessContext{SheetID: 1, ViewerID: "alice", OwnerID: "alice"},
		},
		{
			name:     "stranger private",
			ctx:      AccessContext{SheetID: 1, ViewerID: "bob", OwnerID: "alice"},
			viewKind: errs.KindNotFound,
			editKind: errs.KindNotFound,
		},
		{
			name:     "stranger public",
			ctx:      AccessContext{SheetID: 1, ViewerID: "bob", OwnerID: "alice", IsPublic: true},
			editKind: errs.KindPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := CanView(tt.ctx)
			if view.Allowed != (tt.viewKind == "") {
				t.Errorf("CanView() Allowed = %v", view.Allowed)
			}
			if tt.viewKind != "" && errs.KindOf(view.Error()) != tt.viewKind {
				t.Errorf("CanView() kind = %s, want %s", errs.KindOf(view.Error()), tt.viewKind)
			}

			edit := CanEdit(tt.ctx)
			if edit.Allowed != (tt.editKind == "") {
				t.Errorf("CanEdit() Allowed = %v", edit.Allowed)
			}
			if tt.editKind != "" && errs.KindOf(edit.Error()) != tt.editKind {
				t.Errorf("CanEdit() kind = %s, want %s", errs.KindOf(edit.Error()), tt.editKind)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"alive", "dead", "insane", "injured", "missing", "retired"} {
		if got, err := ParseStatus(s); err != nil || string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, err)
		}
	}
	if got, _ := ParseStatus(""); got != StatusAlive {
		t.Errorf("ParseStatus(\"\") = %q", got)
	}
	if _, err := ParseStatus("Alive"); err == nil {
		t.Error("ParseStatus is case-sensitive")
	}
}

func TestResolveMultiplier(t *testing.T) {
	tests := []struct {
		name            string
		explicit        int
		templateDefault int
		want            int
	}{
		{"professor template", 0, 25, 25},
		{"no template", 0, 0, 20},
		{"explicit wins", 18, 25, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMultiplier(tt.explicit, tt.templateDefault); got != tt.want {
				t.Errorf("ResolveMultiplier(%d, %d) = %d, want %d", tt.explicit, tt.templateDefault, got, tt.want)
			}
		})
	}
}
