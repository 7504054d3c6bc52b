package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/core/formula"
	"github.com/example/cocsheet/internal/ctxutil"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/wire"
)

// commandContext returns the command's context tagged with the configured actor.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxutil.WithActorID(ctx, wire.Actor())
}

// parseID reads a positive integer id argument.
func parseID(arg, field string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation(field, "invalid id %q", arg)
	}
	return id, nil
}

// parseAllocation reads NAME=OCC/INT[/OTHER], e.g. "目星=50/10".
func parseAllocation(s string) (primary.Allocation, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return primary.Allocation{}, errs.Validation("allocation", "expected NAME=OCC/INT[/OTHER], got %q", s)
	}
	name := strings.TrimSpace(s[:i])
	parts := strings.Split(s[i+1:], "/")
	if len(parts) < 2 || len(parts) > 3 {
		return primary.Allocation{}, errs.Validation("allocation", "expected NAME=OCC/INT[/OTHER], got %q", s)
	}

	points := make([]int, 3)
	for j, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return primary.Allocation{}, errs.Validation("allocation", "invalid points %q in %q", p, s)
		}
		points[j] = v
	}

	return primary.Allocation{
		SkillName:        name,
		OccupationPoints: points[0],
		InterestPoints:   points[1],
		OtherPoints:      points[2],
	}, nil
}

// parseSkillGrowth reads NAME:OLD:NEW[:ROLL]; a roll marks an experience check.
func parseSkillGrowth(s string) (primary.SkillGrowthRequest, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return primary.SkillGrowthRequest{}, errs.Validation("skill", "expected NAME:OLD:NEW[:ROLL], got %q", s)
	}

	nums := make([]int, len(parts)-1)
	for i, p := range parts[1:] {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return primary.SkillGrowthRequest{}, errs.Validation("skill", "invalid number %q in %q", p, s)
		}
		nums[i] = v
	}

	req := primary.SkillGrowthRequest{
		SkillName: strings.TrimSpace(parts[0]),
		OldValue:  nums[0],
		NewValue:  nums[1],
	}
	if len(nums) == 3 {
		roll := nums[2]
		req.HadExperienceCheck = true
		req.GrowthRollResult = &roll
	}
	return req, nil
}

// parseDate reads a YYYY-MM-DD session date; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errs.Validation("session_date", "expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// formulaArgs splits a formula argument into a known tag, or the custom tag
// and the expression.
func formulaArgs(arg string) (tag, expression string) {
	t := strings.ToLower(strings.TrimSpace(arg))
	if _, ok := formula.Expression(formula.Tag(t)); ok {
		return t, ""
	}
	return string(formula.TagCustom), arg
}

// FormatError renders err the way the CLI reports failures:
// "Error [kind] field: message".
func FormatError(err error) string {
	var e *errs.Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("Error: %v", err)
	}
	msg := e.Error()
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("Error [%s] %s", e.Kind, msg)
}
