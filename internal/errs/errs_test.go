package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("allocate: %w", Validation("occupation_points", "budget exceeded"))

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation kind to match")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("validation error must not match conflict")
	}
	if !errors.Is(err, &Error{Kind: KindValidation, Field: "occupation_points"}) {
		t.Fatalf("expected field-specific target to match")
	}
	if errors.Is(err, &Error{Kind: KindValidation, Field: "interest_points"}) {
		t.Fatalf("different field must not match")
	}
}

func TestKindOfAndFieldOf(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  Kind
		wantField string
	}{
		{"validation", Validation("age", "out of range"), KindValidation, "age"},
		{"wrapped conflict", fmt.Errorf("x: %w", Conflict("skill_name", "dup")), KindConflict, "skill_name"},
		{"plain", errors.New("boom"), KindInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.wantKind {
				t.Errorf("KindOf = %q, want %q", got, tt.wantKind)
			}
			if got := FieldOf(tt.err); got != tt.wantField {
				t.Errorf("FieldOf = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestErrorMessageIncludesField(t *testing.T) {
	err := Validation("EDU", "must be between %d and %d", 1, 999)
	if err.Error() != "EDU: must be between 1 and 999" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWithField(t *testing.T) {
	base := Validation("occupation_points", "over budget")
	got := WithField(base, "allocations[1].occupation_points")

	if FieldOf(got) != "allocations[1].occupation_points" {
		t.Errorf("FieldOf = %q", FieldOf(got))
	}
	if base.Field != "occupation_points" {
		t.Errorf("WithField must not mutate the original")
	}
	plain := errors.New("x")
	if WithField(plain, "f") != plain {
		t.Errorf("plain errors are returned unchanged")
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("database is locked")
	err := Wrap(KindTransient, cause, "create skill")
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if KindOf(err) != KindTransient {
		t.Fatalf("KindOf = %q", KindOf(err))
	}
}
