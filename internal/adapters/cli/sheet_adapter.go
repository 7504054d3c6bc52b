// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters format output but delegate every rule
// to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/ports/primary"
)

const rule = "────────────────────────────────────────────────────────────────"

var (
	okMark    = color.New(color.FgGreen).Sprint("✓")
	heading   = color.New(color.Bold)
	dimmed    = color.New(color.Faint)
	positive  = color.New(color.FgGreen)
	negative  = color.New(color.FgRed)
	highlight = color.New(color.FgCyan)
)

// signed renders a change with its sign, green when it grows.
func signed(n int) string {
	switch {
	case n > 0:
		return positive.Sprintf("+%d", n)
	case n < 0:
		return negative.Sprintf("%d", n)
	default:
		return "0"
	}
}

// SheetAdapter translates CLI operations to SheetService calls.
type SheetAdapter struct {
	service primary.SheetService
	actor   string
	out     io.Writer
}

// NewSheetAdapter creates a new SheetAdapter acting as actor.
func NewSheetAdapter(service primary.SheetService, actor string, out io.Writer) *SheetAdapter {
	return &SheetAdapter{service: service, actor: actor, out: out}
}

// Create creates a sheet and prints its derived stats.
func (a *SheetAdapter) Create(ctx context.Context, req primary.CreateSheetRequest) (*primary.Sheet, error) {
	sh, err := a.service.CreateSheet(ctx, a.actor, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Created sheet %d: %s\n", okMark, sh.ID, sh.Name)
	a.printDerived(sh)
	return sh, nil
}

// Show prints one sheet in full.
func (a *SheetAdapter) Show(ctx context.Context, sheetID int64) (*primary.Sheet, error) {
	sh, err := a.service.GetSheet(ctx, a.actor, sheetID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(a.out)
	heading.Fprintf(a.out, "Sheet %d: %s\n", sh.ID, sh.Name)
	fmt.Fprintf(a.out, "Edition:    %s\n", sh.Edition)
	fmt.Fprintf(a.out, "Version:    v%d", sh.Version)
	if sh.ParentSheetID != 0 {
		fmt.Fprintf(a.out, " (parent %d)", sh.ParentSheetID)
	}
	fmt.Fprintln(a.out)
	if sh.VersionNote != "" {
		fmt.Fprintf(a.out, "Note:       %s\n", sh.VersionNote)
	}
	fmt.Fprintf(a.out, "Status:     %s\n", sh.Status)
	if sh.PlayerName != "" {
		fmt.Fprintf(a.out, "Player:     %s\n", sh.PlayerName)
	}
	if sh.Occupation != "" {
		fmt.Fprintf(a.out, "Occupation: %s (x%d)\n", sh.Occupation, sh.OccupationMultiplier)
	}
	if sh.Age > 0 {
		fmt.Fprintf(a.out, "Age:        %d\n", sh.Age)
	}
	fmt.Fprintf(a.out, "Sessions:   %d\n", sh.SessionCount)
	if sh.IsPublic {
		fmt.Fprintln(a.out, "Visibility: public")
	}

	fmt.Fprintln(a.out)
	a.printAbilities(sh.Abilities)
	a.printDerived(sh)

	if sh.MentalDisorder != "" {
		fmt.Fprintf(a.out, "Disorder:   %s\n", sh.MentalDisorder)
	}
	if !sh.Cash.IsZero() || !sh.Assets.IsZero() || !sh.AnnualIncome.IsZero() {
		fmt.Fprintf(a.out, "Money:      cash %s / assets %s / income %s\n",
			sh.Cash.StringFixed(2), sh.Assets.StringFixed(2), sh.AnnualIncome.StringFixed(2))
	}
	if sh.RealEstate != "" {
		fmt.Fprintf(a.out, "Property:   %s\n", sh.RealEstate)
	}
	dimmed.Fprintf(a.out, "Created %s, updated %s\n", sh.CreatedAt, sh.UpdatedAt)
	fmt.Fprintln(a.out)
	return sh, nil
}

func (a *SheetAdapter) printAbilities(ab stats.Abilities) {
	for i, name := range stats.AbilityNames {
		v, _ := ab.Get(name)
		fmt.Fprintf(a.out, "%-4s %3d", name, v)
		if i%4 == 3 {
			fmt.Fprintln(a.out)
		} else {
			fmt.Fprint(a.out, "   ")
		}
	}
}

func (a *SheetAdapter) printDerived(sh *primary.Sheet) {
	fmt.Fprintf(a.out, "HP %d/%d   MP %d/%d   SAN %d/%d (start %d)\n",
		sh.HPCurrent, sh.HPMax, sh.MPCurrent, sh.MPMax, sh.SanCurrent, sh.SanMax, sh.SanStart)
	fmt.Fprintf(a.out, "Idea %d   Luck %d   Know %d   DB %s\n",
		sh.IdeaRoll, sh.LuckRoll, sh.KnowRoll, sh.DamageBonus)
}

// List prints the actor's sheets.
func (a *SheetAdapter) List(ctx context.Context, filters primary.SheetFilters) error {
	sheets, err := a.service.ListSheets(ctx, a.actor, filters)
	if err != nil {
		return err
	}

	if len(sheets) == 0 {
		fmt.Fprintln(a.out, "No sheets found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-4s %-8s %-10s %s\n", "ID", "VER", "EDITION", "STATUS", "NAME")
	fmt.Fprintln(a.out, rule)
	for _, sh := range sheets {
		name := sh.Name
		if !sh.IsActive {
			name = dimmed.Sprint(name)
		}
		fmt.Fprintf(a.out, "%-6d v%-3d %-8s %-10s %s\n", sh.ID, sh.Version, sh.Edition, sh.Status, name)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Update applies a patch and reports the new state.
func (a *SheetAdapter) Update(ctx context.Context, sheetID int64, patch primary.SheetPatch) error {
	sh, err := a.service.UpdateSheet(ctx, a.actor, sheetID, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Sheet %d updated\n", okMark, sh.ID)
	if patch.Recompute {
		a.printDerived(sh)
	}
	return nil
}

// Delete deletes a sheet and everything under it.
func (a *SheetAdapter) Delete(ctx context.Context, sheetID int64) error {
	if err := a.service.DeleteSheet(ctx, a.actor, sheetID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Sheet %d deleted\n", okMark, sheetID)
	return nil
}

// Recompute refreshes derived stats from the abilities.
func (a *SheetAdapter) Recompute(ctx context.Context, sheetID int64) error {
	sh, err := a.service.RecomputeDerived(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Recomputed sheet %d\n", okMark, sh.ID)
	a.printDerived(sh)
	return nil
}

// Formula evaluates a named formula or a custom expression.
func (a *SheetAdapter) Formula(ctx context.Context, sheetID int64, tag, expression string) (int, error) {
	v, err := a.service.EvaluateFormula(ctx, a.actor, sheetID, tag, expression)
	if err != nil {
		return 0, err
	}

	label := tag
	if expression != "" {
		label = expression
	}
	fmt.Fprintf(a.out, "%s = %s\n", label, highlight.Sprint(v))
	return v, nil
}
