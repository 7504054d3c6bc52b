package skill

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/example/cocsheet/internal/core/formula"
	"github.com/example/cocsheet/internal/core/stats"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Entry is one row of the static skill table.
type Entry struct {
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	Base     string   `yaml:"base"`
}

// Occupation is a template of skills granted by an occupation.
type Occupation struct {
	Key        string   `yaml:"key"`
	Name       string   `yaml:"name"`
	Multiplier int      `yaml:"multiplier"`
	Skills     []string `yaml:"skills"`
}

// Catalog is the parsed static rule data.
type Catalog struct {
	Skills      []Entry      `yaml:"skills"`
	Occupations []Occupation `yaml:"occupations"`

	byName map[string]Entry
}

// LoadCatalog parses a catalog document and checks every base formula.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse skill catalog: %w", err)
	}

	c.byName = make(map[string]Entry, len(c.Skills))
	for i, e := range c.Skills {
		e.Name = NormalizeName(e.Name)
		if _, err := ParseCategory(string(e.Category)); err != nil {
			return nil, fmt.Errorf("skill %q: %w", e.Name, err)
		}
		if _, err := formula.Parse(e.Base); err != nil {
			return nil, fmt.Errorf("skill %q base: %w", e.Name, err)
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("skill %q listed twice", e.Name)
		}
		c.Skills[i] = e
		c.byName[e.Name] = e
	}

	for _, o := range c.Occupations {
		for _, name := range o.Skills {
			if _, ok := c.byName[NormalizeName(name)]; !ok {
				return nil, fmt.Errorf("occupation %q references unknown skill %q", o.Key, name)
			}
		}
	}
	return &c, nil
}

var defaultCatalog = mustLoad()

func mustLoad() *Catalog {
	c, err := LoadCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the embedded 6th edition catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Lookup returns the catalog entry for name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.byName[NormalizeName(name)]
	return e, ok
}

// BaseValue evaluates the default base for name against a; unknown skills
// get base 0 in CategoryOther.
func (c *Catalog) BaseValue(name string, a stats.Abilities) (int, Category, error) {
	e, ok := c.Lookup(name)
	if !ok {
		return 0, CategoryOther, nil
	}
	v, err := formula.Evaluate(e.Base, a.Vars())
	if err != nil {
		return 0, "", err
	}
	return min(v, MaxComponent), e.Category, nil
}

// Occupation finds a template by key or by its display name.
func (c *Catalog) Occupation(keyOrName string) (Occupation, bool) {
	for _, o := range c.Occupations {
		if o.Key == keyOrName || o.Name == keyOrName {
			return o, true
		}
	}
	return Occupation{}, false
}

// OccupationKeys lists template keys in sorted order.
func (c *Catalog) OccupationKeys() []string {
	keys := make([]string, 0, len(c.Occupations))
	for _, o := range c.Occupations {
		keys = append(keys, o.Key)
	}
	sort.Strings(keys)
	return keys
}
