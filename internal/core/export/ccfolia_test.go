package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/example/cocsheet/internal/core/stats"
)

func detectiveSheet() Sheet {
	return Sheet{
		Name:        "Harvey Walters",
		Abilities:   stats.Abilities{STR: 13, CON: 14, POW: 11, DEX: 13, APP: 10, SIZ: 12, INT: 15, EDU: 16},
		HPCurrent:   11,
		HPMax:       13,
		MPCurrent:   11,
		MPMax:       11,
		SanCurrent:  50,
		SanMax:      55,
		DamageBonus: "+0",
	}
}

func TestMarshalShape(t *testing.T) {
	out, err := Marshal(detectiveSheet(), []Skill{{ID: 1, Name: "目星", CurrentValue: 65}})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	doc := string(out)

	if got := gjson.Get(doc, "kind").String(); got != "character" {
		t.Errorf("kind = %q", got)
	}
	if got := gjson.Get(doc, "data.name").String(); got != "Harvey Walters" {
		t.Errorf("data.name = %q", got)
	}
	if got := gjson.Get(doc, "data.initiative").Int(); got != 13 {
		t.Errorf("data.initiative = %d", got)
	}

	status := gjson.Get(doc, "data.status").Array()
	if len(status) != 3 {
		t.Fatalf("len(status) = %d", len(status))
	}
	for i, label := range []string{"HP", "MP", "SAN"} {
		if status[i].Get("label").String() != label {
			t.Errorf("status[%d].label = %q", i, status[i].Get("label").String())
		}
		if !status[i].Get("value").Exists() || !status[i].Get("max").Exists() {
			t.Errorf("status[%d] missing value or max", i)
		}
	}
	if got := gjson.Get(doc, `data.status.#(label=="SAN").max`).Int(); got != 55 {
		t.Errorf("SAN max = %d", got)
	}

	params := gjson.Get(doc, "data.params").Array()
	if len(params) != 8 {
		t.Fatalf("len(params) = %d", len(params))
	}
	if got := gjson.Get(doc, `data.params.#(label=="EDU").value`); got.Type != gjson.String || got.String() != "16" {
		t.Errorf("EDU param = %v", got)
	}

	commands := gjson.Get(doc, "data.commands").String()
	for _, want := range []string{
		"CCB<=65 【目星】",
		"CCB<={SAN} 【正気度ロール】",
		"CCB<=75 【アイデア】",
		"CCB<=55 【幸運】",
		"CCB<=80 【知識】",
		"CCB<=65 【STR × 5】",
		"CCB<=80 【EDU × 5】",
		"1d3 【ダメージ判定】",
		"1d6 【ダメージ判定】",
	} {
		if !strings.Contains(commands, want) {
			t.Errorf("commands missing %q:\n%s", want, commands)
		}
	}
}

func TestCommandsOrderSkillsByID(t *testing.T) {
	skills := []Skill{
		{ID: 9, Name: "聞き耳", CurrentValue: 40},
		{ID: 2, Name: "目星", CurrentValue: 65},
		{ID: 5, Name: "図書館", CurrentValue: 70},
	}
	lines := strings.Split(Build(detectiveSheet(), skills).Data.Commands, "\n")
	want := []string{"CCB<=65 【目星】", "CCB<=70 【図書館】", "CCB<=40 【聞き耳】"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
	if skills[0].ID != 9 {
		t.Error("Build must not reorder the caller's slice")
	}
	if n := len(lines); n != 3+4+8+3 {
		t.Errorf("len(lines) = %d", n)
	}
}

func TestDamageBonusInCommands(t *testing.T) {
	s := detectiveSheet()
	s.DamageBonus = "+1D4"
	commands := Build(s, nil).Data.Commands
	if !strings.Contains(commands, "1d3+1d4 【ダメージ判定】") {
		t.Errorf("commands = %s", commands)
	}

	s.DamageBonus = "-1D6"
	commands = Build(s, nil).Data.Commands
	if !strings.Contains(commands, "1d6-1d6 【ダメージ判定】") {
		t.Errorf("commands = %s", commands)
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	skills := []Skill{{ID: 1, Name: "目星", CurrentValue: 65}, {ID: 2, Name: "回避", CurrentValue: 26}}
	a, err := Marshal(detectiveSheet(), skills)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Marshal(detectiveSheet(), skills)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("exports differ:\n%s\n%s", a, b)
	}
}
