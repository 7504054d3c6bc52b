// Package dice implements the dice primitive: the sum of N uniform draws plus
// a signed bonus. The randomness source is injected so rolls are reproducible.
package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/cocsheet/internal/errs"
)

// Bounds on a single roll request.
const (
	MinCount = 1
	MaxCount = 10
	MinSides = 2
	MaxSides = 100
	MinBonus = -50
	MaxBonus = 50
)

// ErrInvalidCount indicates the die count is outside [MinCount, MaxCount].
var ErrInvalidCount = errors.New("dice count must be between 1 and 10")

// ErrInvalidSides indicates the side count is outside [MinSides, MaxSides].
var ErrInvalidSides = errors.New("dice sides must be between 2 and 100")

// ErrInvalidBonus indicates the bonus is outside [MinBonus, MaxBonus].
var ErrInvalidBonus = errors.New("dice bonus must be between -50 and 50")

// ErrInvalidNotation indicates a string that is not NdS[+-B].
var ErrInvalidNotation = errors.New("dice notation must look like 3D6 or 2D6+6")

// invalid wraps a sentinel as a validation error on the dice field, so
// errors.Is matches both the sentinel and errs.ErrValidation.
func invalid(sentinel error, roll string) error {
	e := errs.Wrap(errs.KindValidation, sentinel, "%s", roll)
	e.Field = "dice"
	return e
}

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a seeded math/rand source.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Spec describes a roll: Count dice of Sides faces plus Bonus.
type Spec struct {
	Count int
	Sides int
	Bonus int
}

// String renders the spec in NdS[+-B] notation.
func (s Spec) String() string {
	switch {
	case s.Bonus > 0:
		return fmt.Sprintf("%dD%d+%d", s.Count, s.Sides, s.Bonus)
	case s.Bonus < 0:
		return fmt.Sprintf("%dD%d%d", s.Count, s.Sides, s.Bonus)
	default:
		return fmt.Sprintf("%dD%d", s.Count, s.Sides)
	}
}

// Validate checks the spec against the roll bounds. Errors carry
// KindValidation and unwrap to one of the ErrInvalid sentinels.
func (s Spec) Validate() error {
	if s.Count < MinCount || s.Count > MaxCount {
		return invalid(ErrInvalidCount, s.String())
	}
	if s.Sides < MinSides || s.Sides > MaxSides {
		return invalid(ErrInvalidSides, s.String())
	}
	if s.Bonus < MinBonus || s.Bonus > MaxBonus {
		return invalid(ErrInvalidBonus, s.String())
	}
	return nil
}

// Result captures individual draws and the final total.
type Result struct {
	Spec    Spec
	Results []int
	Total   int
}

// Roll returns the sum of n draws from [1, sides] plus bonus.
func Roll(src Source, n, sides, bonus int) (int, error) {
	res, err := RollSpec(src, Spec{Count: n, Sides: sides, Bonus: bonus})
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// RollSpec rolls spec and keeps each draw. Draws happen in order, so the same
// seeded source always yields the same Result.
func RollSpec(src Source, spec Spec) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}

	results := make([]int, spec.Count)
	total := spec.Bonus
	for i := range results {
		results[i] = src.Intn(spec.Sides) + 1
		total += results[i]
	}

	return Result{Spec: spec, Results: results, Total: total}, nil
}

var notationPattern = regexp.MustCompile(`^(\d+)[dD](\d+)(?:([+-])(\d+))?$`)

// Parse reads NdS[+-B] notation, e.g. "3D6", "2d6+6", "1D100-5".
func Parse(notation string) (Spec, error) {
	m := notationPattern.FindStringSubmatch(strings.ReplaceAll(notation, " ", ""))
	if m == nil {
		return Spec{}, invalid(ErrInvalidNotation, strconv.Quote(notation))
	}

	count, _ := strconv.Atoi(m[1])
	sides, _ := strconv.Atoi(m[2])
	bonus := 0
	if m[3] != "" {
		bonus, _ = strconv.Atoi(m[4])
		if m[3] == "-" {
			bonus = -bonus
		}
	}

	spec := Spec{Count: count, Sides: sides, Bonus: bonus}
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}
