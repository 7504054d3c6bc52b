package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/cocsheet/internal/ports/primary"
)

// GrowthAdapter translates CLI operations to GrowthService calls.
type GrowthAdapter struct {
	service primary.GrowthService
	actor   string
	out     io.Writer
}

// NewGrowthAdapter creates a new GrowthAdapter acting as actor.
func NewGrowthAdapter(service primary.GrowthService, actor string, out io.Writer) *GrowthAdapter {
	return &GrowthAdapter{service: service, actor: actor, out: out}
}

// Record stores a session record.
func (a *GrowthAdapter) Record(ctx context.Context, sheetID int64, req primary.CreateGrowthRecordRequest) error {
	rec, err := a.service.CreateGrowthRecord(ctx, a.actor, sheetID, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Recorded session %s (record %d) with %d skills\n", okMark, rec.SessionDate, rec.ID, len(rec.Skills))
	return nil
}

// AddSkill appends a skill row to a record.
func (a *GrowthAdapter) AddSkill(ctx context.Context, recordID int64, req primary.SkillGrowthRequest) error {
	g, err := a.service.AddSkillGrowth(ctx, a.actor, recordID, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s %d -> %d (%s)\n", okMark, g.SkillName, g.OldValue, g.NewValue, signed(g.GrowthAmount))
	return nil
}

// List prints every record of a sheet, newest first.
func (a *GrowthAdapter) List(ctx context.Context, sheetID int64) error {
	records, err := a.service.ListGrowthRecords(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No growth records found")
		return nil
	}

	for _, r := range records {
		fmt.Fprintln(a.out)
		heading.Fprintf(a.out, "%s  %s", r.SessionDate, r.ScenarioName)
		if r.GMName != "" {
			fmt.Fprintf(a.out, "  (GM %s)", r.GMName)
		}
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "  SAN %s/%s  XP %d\n", signed(r.SanityGained), signed(-r.SanityLost), r.ExperienceGained)
		for _, g := range r.Skills {
			check := " "
			if g.Succeeded {
				check = okMark
			}
			fmt.Fprintf(a.out, "  %s %-18s %3d -> %3d  %s\n", check, g.SkillName, g.OldValue, g.NewValue, signed(g.GrowthAmount))
		}
		if r.SpecialRewards != "" {
			fmt.Fprintf(a.out, "  Rewards: %s\n", r.SpecialRewards)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// Summary prints the sheet's totals.
func (a *GrowthAdapter) Summary(ctx context.Context, sheetID int64) error {
	s, err := a.service.GrowthSummary(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Sessions:   %d\n", s.Sessions)
	fmt.Fprintf(a.out, "Sanity:     +%d / -%d (net %s)\n", s.SanityGained, s.SanityLost, signed(s.NetSanity))
	fmt.Fprintf(a.out, "Experience: %d\n", s.ExperienceTotal)
	if len(s.Skills) > 0 {
		fmt.Fprintln(a.out, "Skills:")
		for _, name := range sortedKeys(s.Skills) {
			t := s.Skills[name]
			fmt.Fprintf(a.out, "  %-18s %s (%d checks)\n", name, signed(t.TotalGrowth), t.SuccessfulChecks)
		}
	}
	return nil
}
