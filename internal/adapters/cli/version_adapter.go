package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/ports/primary"
)

// VersionAdapter translates CLI operations to VersionService calls.
type VersionAdapter struct {
	service primary.VersionService
	actor   string
	out     io.Writer
}

// NewVersionAdapter creates a new VersionAdapter acting as actor.
func NewVersionAdapter(service primary.VersionService, actor string, out io.Writer) *VersionAdapter {
	return &VersionAdapter{service: service, actor: actor, out: out}
}

// Create branches a new version from sheetID.
func (a *VersionAdapter) Create(ctx context.Context, sheetID int64, req primary.CreateVersionRequest) error {
	sh, err := a.service.CreateNewVersion(ctx, a.actor, sheetID, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Created v%d as sheet %d\n", okMark, sh.Version, sh.ID)
	return nil
}

// History prints the version tree, indented by depth.
func (a *VersionAdapter) History(ctx context.Context, sheetID int64) error {
	entries, err := a.service.GetVersionHistory(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	for _, e := range entries {
		marker := " "
		if e.SheetID == sheetID {
			marker = highlight.Sprint("*")
		}
		fmt.Fprintf(a.out, "%s %sv%d  sheet %d  sessions %d", marker, strings.Repeat("  ", e.Depth), e.Version, e.SheetID, e.SessionCount)
		if e.VersionNote != "" {
			fmt.Fprintf(a.out, "  %s", dimmed.Sprint(e.VersionNote))
		}
		fmt.Fprintln(a.out)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Root prints the root of the sheet's tree.
func (a *VersionAdapter) Root(ctx context.Context, sheetID int64) error {
	sh, err := a.service.GetRootVersion(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Root: sheet %d (v%d)\n", sh.ID, sh.Version)
	return nil
}

// Latest prints the highest version of the sheet's tree.
func (a *VersionAdapter) Latest(ctx context.Context, sheetID int64) error {
	sh, err := a.service.GetLatestVersion(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Latest: sheet %d (v%d)\n", sh.ID, sh.Version)
	return nil
}

// Compare prints the differences from a to b.
func (a *VersionAdapter) Compare(ctx context.Context, from, to int64) error {
	d, err := a.service.CompareVersions(ctx, a.actor, from, to)
	if err != nil {
		return err
	}

	if d.Empty() {
		fmt.Fprintln(a.out, "No differences")
		return nil
	}

	if len(d.Abilities) > 0 {
		heading.Fprintln(a.out, "Abilities")
		for _, name := range stats.AbilityNames {
			if c, ok := d.Abilities[name]; ok {
				fmt.Fprintf(a.out, "  %-4s %3d -> %3d  %s\n", name, c.Old, c.New, signed(c.Change))
			}
		}
	}

	if len(d.Skills.Added)+len(d.Skills.Changed)+len(d.Skills.Removed) > 0 {
		heading.Fprintln(a.out, "Skills")
		for _, name := range sortedKeys(d.Skills.Changed) {
			c := d.Skills.Changed[name]
			fmt.Fprintf(a.out, "  ~ %s %d -> %d  %s\n", name, c.Old, c.New, signed(c.Change))
		}
		for _, name := range sortedKeys(d.Skills.Added) {
			fmt.Fprintf(a.out, "  %s %s %d\n", positive.Sprint("+"), name, d.Skills.Added[name])
		}
		for _, name := range sortedKeys(d.Skills.Removed) {
			fmt.Fprintf(a.out, "  %s %s %d\n", negative.Sprint("-"), name, d.Skills.Removed[name])
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rollback creates a new version copied from target.
func (a *VersionAdapter) Rollback(ctx context.Context, currentID, targetID int64) error {
	sh, err := a.service.RollbackToVersion(ctx, a.actor, currentID, targetID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Created v%d as sheet %d: %s\n", okMark, sh.Version, sh.ID, sh.VersionNote)
	return nil
}

// SetParent re-attaches a sheet; parentID 0 detaches it.
func (a *VersionAdapter) SetParent(ctx context.Context, sheetID, parentID int64) error {
	if err := a.service.SetParent(ctx, a.actor, sheetID, parentID); err != nil {
		return err
	}

	if parentID == 0 {
		fmt.Fprintf(a.out, "%s Sheet %d is now a root\n", okMark, sheetID)
	} else {
		fmt.Fprintf(a.out, "%s Sheet %d attached to %d\n", okMark, sheetID, parentID)
	}
	return nil
}
