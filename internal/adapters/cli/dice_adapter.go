package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/cocsheet/internal/core/dice"
	"github.com/example/cocsheet/internal/core/stats"
)

// DiceAdapter rolls dice outside any sheet.
type DiceAdapter struct {
	src dice.Source
	out io.Writer
}

// NewDiceAdapter creates a new DiceAdapter drawing from src.
func NewDiceAdapter(src dice.Source, out io.Writer) *DiceAdapter {
	return &DiceAdapter{src: src, out: out}
}

// Roll rolls NdS[+-B] notation and prints every draw.
func (a *DiceAdapter) Roll(notation string) (dice.Result, error) {
	spec, err := dice.Parse(notation)
	if err != nil {
		return dice.Result{}, err
	}
	res, err := dice.RollSpec(a.src, spec)
	if err != nil {
		return dice.Result{}, err
	}

	draws := make([]string, len(res.Results))
	for i, r := range res.Results {
		draws[i] = fmt.Sprint(r)
	}
	fmt.Fprintf(a.out, "%s: [%s] = %s\n", spec, strings.Join(draws, ", "), highlight.Sprint(res.Total))
	return res, nil
}

// RollAbilities rolls a full set of 6th edition abilities.
func (a *DiceAdapter) RollAbilities() (stats.Abilities, error) {
	ab, err := stats.RollAbilities(a.src)
	if err != nil {
		return stats.Abilities{}, err
	}

	for _, name := range stats.AbilityNames {
		v, _ := ab.Get(name)
		notation, _ := stats.AbilityDice(name)
		fmt.Fprintf(a.out, "%-4s %-6s %3d\n", name, notation, v)
	}
	return ab, nil
}
