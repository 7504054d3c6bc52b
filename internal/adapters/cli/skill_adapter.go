package cli

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/example/cocsheet/internal/ports/primary"
)

// SkillAdapter translates CLI operations to SkillService calls.
type SkillAdapter struct {
	service primary.SkillService
	actor   string
	out     io.Writer
}

// NewSkillAdapter creates a new SkillAdapter acting as actor.
func NewSkillAdapter(service primary.SkillService, actor string, out io.Writer) *SkillAdapter {
	return &SkillAdapter{service: service, actor: actor, out: out}
}

// Set writes one skill in full.
func (a *SkillAdapter) Set(ctx context.Context, sheetID int64, req primary.UpsertSkillRequest) error {
	sk, err := a.service.UpsertSkill(ctx, a.actor, sheetID, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s = %d\n", okMark, sk.Name, sk.CurrentValue)
	return nil
}

// Delete removes one skill.
func (a *SkillAdapter) Delete(ctx context.Context, sheetID, skillID int64) error {
	if err := a.service.DeleteSkill(ctx, a.actor, sheetID, skillID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Skill %d deleted\n", okMark, skillID)
	return nil
}

// List prints a sheet's skills as a point breakdown.
func (a *SkillAdapter) List(ctx context.Context, sheetID int64) error {
	skills, err := a.service.ListSkills(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	if len(skills) == 0 {
		fmt.Fprintln(a.out, "No skills found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-18s %-13s %5s %5s %5s %5s %5s %6s\n",
		"ID", "NAME", "CATEGORY", "BASE", "OCC", "INT", "BONUS", "OTHER", "VALUE")
	fmt.Fprintln(a.out, rule)
	for _, sk := range skills {
		fmt.Fprintf(a.out, "%-6d %-18s %-13s %5d %5d %5d %5d %5d %6s\n",
			sk.ID, sk.Name, sk.Category, sk.BaseValue, sk.OccupationPoints, sk.InterestPoints,
			sk.BonusPoints, sk.OtherPoints, highlight.Sprint(sk.CurrentValue))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Allocate applies allocations atomically.
func (a *SkillAdapter) Allocate(ctx context.Context, sheetID int64, allocs []primary.Allocation) error {
	skills, err := a.service.AllocateBatch(ctx, a.actor, sheetID, allocs)
	if err != nil {
		return err
	}

	for _, sk := range skills {
		fmt.Fprintf(a.out, "%s %s: occ %d / int %d = %d\n", okMark, sk.Name, sk.OccupationPoints, sk.InterestPoints, sk.CurrentValue)
	}
	return a.Points(ctx, sheetID)
}

// Reset zeroes every allocation on the sheet.
func (a *SkillAdapter) Reset(ctx context.Context, sheetID int64) error {
	if err := a.service.ResetPoints(ctx, a.actor, sheetID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Points reset on sheet %d\n", okMark, sheetID)
	return nil
}

// ApplyTemplate creates the occupation's missing skills.
func (a *SkillAdapter) ApplyTemplate(ctx context.Context, sheetID int64) error {
	created, err := a.service.ApplyOccupationTemplate(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	if len(created) == 0 {
		fmt.Fprintln(a.out, "Every occupation skill is already on the sheet")
		return nil
	}
	fmt.Fprintf(a.out, "%s Added %d occupation skills:\n", okMark, len(created))
	for _, sk := range created {
		fmt.Fprintf(a.out, "  - %s (%d)\n", sk.Name, sk.BaseValue)
	}
	return nil
}

// Points prints both point budgets.
func (a *SkillAdapter) Points(ctx context.Context, sheetID int64) error {
	ps, err := a.service.PointSummary(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Occupation: %d / %d (%s left)\n", ps.OccupationSpent, ps.OccupationBudget, remaining(ps.OccupationRemaining))
	fmt.Fprintf(a.out, "Interest:   %d / %d (%s left)\n", ps.HobbySpent, ps.HobbyBudget, remaining(ps.HobbyRemaining))
	return nil
}

func remaining(n int) string {
	if n < 0 {
		return negative.Sprint(n)
	}
	return positive.Sprint(n)
}

// skillBackup is the YAML shape of one backed up skill.
type skillBackup struct {
	Name             string `yaml:"name"`
	Category         string `yaml:"category,omitempty"`
	BaseValue        int    `yaml:"base"`
	OccupationPoints int    `yaml:"occupation,omitempty"`
	InterestPoints   int    `yaml:"interest,omitempty"`
	BonusPoints      int    `yaml:"bonus,omitempty"`
	OtherPoints      int    `yaml:"other,omitempty"`
	Notes            string `yaml:"notes,omitempty"`
}

// Backup writes a sheet's skills as YAML to w.
func (a *SkillAdapter) Backup(ctx context.Context, sheetID int64, w io.Writer) error {
	skills, err := a.service.ListSkills(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	doc := make([]skillBackup, 0, len(skills))
	for _, sk := range skills {
		doc = append(doc, skillBackup{
			Name:             sk.Name,
			Category:         sk.Category,
			BaseValue:        sk.BaseValue,
			OccupationPoints: sk.OccupationPoints,
			InterestPoints:   sk.InterestPoints,
			BonusPoints:      sk.BonusPoints,
			OtherPoints:      sk.OtherPoints,
			Notes:            sk.Notes,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return enc.Close()
}

// Restore reads a YAML backup from r and writes it without budget checks.
func (a *SkillAdapter) Restore(ctx context.Context, sheetID int64, r io.Reader) error {
	var doc []skillBackup
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse backup: %w", err)
	}

	reqs := make([]primary.UpsertSkillRequest, 0, len(doc))
	for _, b := range doc {
		base := b.BaseValue
		reqs = append(reqs, primary.UpsertSkillRequest{
			Name:             b.Name,
			Category:         b.Category,
			BaseValue:        &base,
			OccupationPoints: b.OccupationPoints,
			InterestPoints:   b.InterestPoints,
			BonusPoints:      b.BonusPoints,
			OtherPoints:      b.OtherPoints,
			Notes:            b.Notes,
		})
	}

	skills, err := a.service.RestoreSkills(ctx, a.actor, sheetID, reqs)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Restored %d skills on sheet %d\n", okMark, len(skills), sheetID)
	return nil
}
