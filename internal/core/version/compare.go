package version

import (
	"github.com/example/cocsheet/internal/core/stats"
)

// Snapshot is the comparable content of one version.
type Snapshot struct {
	Abilities stats.Abilities
	// Skills maps skill name to current value.
	Skills map[string]int
}

// Change is an old/new pair with the signed difference.
type Change struct {
	Old    int `json:"old"`
	New    int `json:"new"`
	Change int `json:"change"`
}

// SkillDiff lists skill-level differences between two snapshots.
type SkillDiff struct {
	Added   map[string]int    `json:"added"`
	Changed map[string]Change `json:"changed"`
	Removed map[string]int    `json:"removed"`
}

// Diff is the result of Compare. Only differing entries are present.
type Diff struct {
	Abilities map[string]Change `json:"abilities"`
	Skills    SkillDiff         `json:"skills"`
}

// Empty reports whether the two snapshots were identical.
func (d Diff) Empty() bool {
	return len(d.Abilities) == 0 && len(d.Skills.Added) == 0 &&
		len(d.Skills.Changed) == 0 && len(d.Skills.Removed) == 0
}

// Compare diffs a (old) against b (new).
func Compare(a, b Snapshot) Diff {
	d := Diff{
		Abilities: map[string]Change{},
		Skills: SkillDiff{
			Added:   map[string]int{},
			Changed: map[string]Change{},
			Removed: map[string]int{},
		},
	}

	for _, name := range stats.AbilityNames {
		ov, _ := a.Abilities.Get(name)
		nv, _ := b.Abilities.Get(name)
		if ov != nv {
			d.Abilities[name] = Change{Old: ov, New: nv, Change: nv - ov}
		}
	}

	for name, ov := range a.Skills {
		nv, ok := b.Skills[name]
		if !ok {
			d.Skills.Removed[name] = ov
			continue
		}
		if ov != nv {
			d.Skills.Changed[name] = Change{Old: ov, New: nv, Change: nv - ov}
		}
	}
	for name, nv := range b.Skills {
		if _, ok := a.Skills[name]; !ok {
			d.Skills.Added[name] = nv
		}
	}
	return d
}
