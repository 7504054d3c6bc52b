// Package export projects a sheet and its skills to the CCFOLIA clipboard
// character format. Everything here is pure and deterministic.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/cocsheet/internal/core/stats"
)

// Skill is the part of a skill the export needs.
type Skill struct {
	ID           int64
	Name         string
	CurrentValue int
}

// Sheet is the part of a sheet the export needs.
type Sheet struct {
	Name        string
	Abilities   stats.Abilities
	HPCurrent   int
	HPMax       int
	MPCurrent   int
	MPMax       int
	SanCurrent  int
	SanMax      int
	DamageBonus string
	Memo        string
}

// Character is the top-level CCFOLIA document.
type Character struct {
	Kind string `json:"kind"`
	Data Data   `json:"data"`
}

// Data is the character body.
type Data struct {
	Name       string   `json:"name"`
	Initiative int      `json:"initiative"`
	Memo       string   `json:"memo"`
	Commands   string   `json:"commands"`
	Status     []Status `json:"status"`
	Params     []Param  `json:"params"`
}

// Status is a gauge entry (HP, MP, SAN).
type Status struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Max   int    `json:"max"`
}

// Param is a named string value.
type Param struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KindCharacter is the document kind CCFOLIA expects.
const KindCharacter = "character"

// Build assembles the CCFOLIA document. Skills are emitted in ID order.
func Build(s Sheet, skills []Skill) Character {
	return Character{
		Kind: KindCharacter,
		Data: Data{
			Name:       s.Name,
			Initiative: s.Abilities.DEX,
			Memo:       s.Memo,
			Commands:   strings.Join(commands(s, skills), "\n"),
			Status: []Status{
				{Label: "HP", Value: s.HPCurrent, Max: s.HPMax},
				{Label: "MP", Value: s.MPCurrent, Max: s.MPMax},
				{Label: "SAN", Value: s.SanCurrent, Max: s.SanMax},
			},
			Params: params(s.Abilities),
		},
	}
}

// Marshal renders Build's output as JSON. "<" in roll commands is kept
// literal rather than escaped.
func Marshal(s Sheet, skills []Skill) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Build(s, skills)); err != nil {
		return nil, fmt.Errorf("failed to encode ccfolia character: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func check(value int, label string) string {
	return fmt.Sprintf("CCB<=%d 【%s】", value, label)
}

func commands(s Sheet, skills []Skill) []string {
	ordered := make([]Skill, len(skills))
	copy(ordered, skills)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	lines := make([]string, 0, len(ordered)+15)
	for _, sk := range ordered {
		lines = append(lines, check(sk.CurrentValue, sk.Name))
	}

	lines = append(lines,
		"CCB<={SAN} 【正気度ロール】",
		check(s.Abilities.INT*5, "アイデア"),
		check(s.Abilities.POW*5, "幸運"),
		check(s.Abilities.EDU*5, "知識"),
	)
	for _, name := range stats.AbilityNames {
		v, _ := s.Abilities.Get(name)
		lines = append(lines, check(v*5, name+" × 5"))
	}

	db := damageSuffix(s.DamageBonus)
	for _, die := range []string{"1d3", "1d4", "1d6"} {
		lines = append(lines, fmt.Sprintf("%s%s 【ダメージ判定】", die, db))
	}
	return lines
}

// damageSuffix turns a damage bonus token into a dice suffix; "+0" adds nothing.
func damageSuffix(token string) string {
	if token == "" || token == "+0" {
		return ""
	}
	return strings.ToLower(token)
}

func params(a stats.Abilities) []Param {
	out := make([]Param, 0, len(stats.AbilityNames))
	for _, name := range stats.AbilityNames {
		v, _ := a.Get(name)
		out = append(out, Param{Label: name, Value: strconv.Itoa(v)})
	}
	return out
}
