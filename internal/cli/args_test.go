package cli

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/core/dice"
	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"SHEET-1", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseID(tt.arg, "sheet_id")
			if tt.wantErr {
				if errs.FieldOf(err) != "sheet_id" {
					t.Errorf("expected sheet_id validation error, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("parseID(%q) = %d, %v; want %d", tt.arg, got, err, tt.want)
			}
		})
	}
}

func TestParseAllocation(t *testing.T) {
	tests := []struct {
		in      string
		want    primary.Allocation
		wantErr bool
	}{
		{"目星=50/10", primary.Allocation{SkillName: "目星", OccupationPoints: 50, InterestPoints: 10}, false},
		{"回避=0/20/5", primary.Allocation{SkillName: "回避", InterestPoints: 20, OtherPoints: 5}, false},
		{" 図書館 = 40 / 0 ", primary.Allocation{SkillName: "図書館", OccupationPoints: 40}, false},
		{"目星=50", primary.Allocation{}, true},
		{"目星=a/b", primary.Allocation{}, true},
		{"=10/10", primary.Allocation{}, true},
		{"目星", primary.Allocation{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAllocation(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("allocation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSkillGrowth(t *testing.T) {
	roll := 82
	tests := []struct {
		in      string
		want    primary.SkillGrowthRequest
		wantErr bool
	}{
		{"目星:35:40:82", primary.SkillGrowthRequest{SkillName: "目星", HadExperienceCheck: true, GrowthRollResult: &roll, OldValue: 35, NewValue: 40}, false},
		{"図書館:25:25", primary.SkillGrowthRequest{SkillName: "図書館", OldValue: 25, NewValue: 25}, false},
		{"目星:35", primary.SkillGrowthRequest{}, true},
		{"目星:35:x", primary.SkillGrowthRequest{}, true},
		{"目星:1:2:3:4", primary.SkillGrowthRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSkillGrowth(tt.in)
			if tt.wantErr {
				if errs.FieldOf(err) != "skill" {
					t.Errorf("expected skill validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("skill growth mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-10-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", got)
	}

	today, err := parseDate("")
	if err != nil || today.IsZero() {
		t.Errorf("empty date should default to today, got %v, %v", today, err)
	}

	if _, err := parseDate("03/10/2026"); errs.FieldOf(err) != "session_date" {
		t.Errorf("expected session_date validation error, got %v", err)
	}
}

func TestFormulaArgs(t *testing.T) {
	tests := []struct {
		in, tag, expr string
	}{
		{"edu20", "edu20", ""},
		{"EDU10DEX10", "edu10dex10", ""},
		{"(STR + SIZ) / 2", "custom", "(STR + SIZ) / 2"},
		{"EDU * 20", "custom", "EDU * 20"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tag, expr := formulaArgs(tt.in)
			if tag != tt.tag || expr != tt.expr {
				t.Errorf("formulaArgs(%q) = %q, %q; want %q, %q", tt.in, tag, expr, tt.tag, tt.expr)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"validation with field",
			errs.Validation("occupation_points", "budget exceeded by 10"),
			"Error [validation] occupation_points: budget exceeded by 10",
		},
		{
			"wrapped not found",
			fmt.Errorf("failed to get sheet: %w", errs.NotFound("sheet 9 not found")),
			"Error [not_found] sheet 9 not found",
		},
		{
			"transient with cause",
			errs.Wrap(errs.KindTransient, errors.New("database is locked"), "gave up after 5 attempts"),
			"Error [transient] gave up after 5 attempts: database is locked",
		},
		{
			"dice out of range",
			func() error { _, err := dice.Parse("11D6"); return err }(),
			"Error [validation] dice: 11D6: dice count must be between 1 and 10",
		},
		{
			"plain error",
			errors.New("boom"),
			"Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatError(tt.err); got != tt.want {
				t.Errorf("FormatError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildSheetPatch(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "update"}
		addUpdateFlags(cmd)
		if err := cmd.Flags().Parse(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		return cmd
	}

	t.Run("only set flags are patched", func(t *testing.T) {
		p, err := buildSheetPatch(newCmd("--hp", "9", "--status", "injured", "--public"), stats.Abilities{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.HPCurrent == nil || *p.HPCurrent != 9 {
			t.Errorf("expected hp 9, got %v", p.HPCurrent)
		}
		if p.Status == nil || *p.Status != "injured" {
			t.Errorf("expected status injured, got %v", p.Status)
		}
		if p.IsPublic == nil || !*p.IsPublic {
			t.Errorf("expected public, got %v", p.IsPublic)
		}
		if p.Name != nil || p.SanCurrent != nil || p.IsActive != nil || p.Abilities != nil || p.Cash != nil {
			t.Errorf("unset flags must stay nil: %+v", p)
		}
		if p.Recompute {
			t.Error("recompute should default to false")
		}
	})

	t.Run("abilities merge onto current", func(t *testing.T) {
		current := stats.Abilities{STR: 13, CON: 14, POW: 11, DEX: 13, APP: 10, SIZ: 12, INT: 15, EDU: 16}
		p, err := buildSheetPatch(newCmd("--con", "18", "--recompute"), current)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := current
		want.CON = 18
		if p.Abilities == nil || *p.Abilities != want {
			t.Errorf("expected %+v, got %+v", want, p.Abilities)
		}
		if !p.Recompute {
			t.Error("expected recompute")
		}
	})

	t.Run("money", func(t *testing.T) {
		p, err := buildSheetPatch(newCmd("--cash", "1500.25"), stats.Abilities{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Cash == nil || !p.Cash.Equal(decimal.RequireFromString("1500.25")) {
			t.Errorf("expected cash 1500.25, got %v", p.Cash)
		}

		_, err = buildSheetPatch(newCmd("--income", "lots"), stats.Abilities{})
		if errs.FieldOf(err) != "income" {
			t.Errorf("expected income validation error, got %v", err)
		}
	})
}
