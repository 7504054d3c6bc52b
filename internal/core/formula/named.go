package formula

import (
	"sort"

	"github.com/example/cocsheet/internal/errs"
)

// Tag names a predefined occupation-point formula.
type Tag string

const (
	TagEDU20      Tag = "edu20"
	TagEDU10APP10 Tag = "edu10app10"
	TagEDU10DEX10 Tag = "edu10dex10"
	TagEDU10POW10 Tag = "edu10pow10"
	TagEDU10STR10 Tag = "edu10str10"
	TagEDU10CON10 Tag = "edu10con10"
	TagEDU10SIZ10 Tag = "edu10siz10"
	TagEDU10INT10 Tag = "edu10int10"
	TagCustom     Tag = "custom"
)

var named = map[Tag]string{
	TagEDU20:      "EDU × 20",
	TagEDU10APP10: "EDU × 10 + APP × 10",
	TagEDU10DEX10: "EDU × 10 + DEX × 10",
	TagEDU10POW10: "EDU × 10 + POW × 10",
	TagEDU10STR10: "EDU × 10 + STR × 10",
	TagEDU10CON10: "EDU × 10 + CON × 10",
	TagEDU10SIZ10: "EDU × 10 + SIZ × 10",
	TagEDU10INT10: "EDU × 10 + INT × 10",
}

// Expression returns the source behind a predefined tag.
func Expression(tag Tag) (string, bool) {
	src, ok := named[tag]
	return src, ok
}

// Tags lists every recognized tag, custom last.
func Tags() []Tag {
	tags := make([]Tag, 0, len(named)+1)
	for t := range named {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return append(tags, TagCustom)
}

// EvaluateTag evaluates a predefined tag, or custom when tag is TagCustom.
func EvaluateTag(tag Tag, custom string, vars Vars) (int, error) {
	if tag == TagCustom {
		return Evaluate(custom, vars)
	}
	src, ok := named[tag]
	if !ok {
		return 0, errs.Validation("formula_tag", "unknown formula tag %q", tag)
	}
	return Evaluate(src, vars)
}
