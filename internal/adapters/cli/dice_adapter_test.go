package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/cocsheet/internal/core/dice"
	"github.com/example/cocsheet/internal/core/growth"
	"github.com/example/cocsheet/internal/ports/primary"
)

// fixedSource always draws the same face.
type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

func TestDiceAdapter_Roll(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewDiceAdapter(fixedSource(2), &buf)

	res, err := adapter.Roll("2d6+6")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Total != 12 {
		t.Errorf("expected 12, got %d", res.Total)
	}
	if !strings.Contains(buf.String(), "2D6+6: [3, 3] = 12") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	if _, err := adapter.Roll("11D6"); !errors.Is(err, dice.ErrInvalidCount) {
		t.Errorf("expected ErrInvalidCount, got %v", err)
	}
}

func TestDiceAdapter_RollAbilitiesIsSeeded(t *testing.T) {
	a, err := NewDiceAdapter(dice.NewSource(42), &bytes.Buffer{}).RollAbilities()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, err := NewDiceAdapter(dice.NewSource(42), &bytes.Buffer{}).RollAbilities()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a != b {
		t.Errorf("same seed rolled %+v and %+v", a, b)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("rolled abilities should validate: %v", err)
	}
}

// mockExportService implements primary.ExportService for testing
type mockExportService struct{}

func (mockExportService) ExportCCFOLIA(ctx context.Context, viewerID string, sheetID int64) ([]byte, error) {
	return []byte(`{"kind":"character"}`), nil
}

func TestExportAdapter_WritesDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExportAdapter(mockExportService{}, "keeper", &buf).CCFOLIA(context.Background(), 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if buf.String() != "{\"kind\":\"character\"}\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

// mockGrowthService implements primary.GrowthService for testing
type mockGrowthService struct {
	primary.GrowthService
}

func (mockGrowthService) GrowthSummary(ctx context.Context, ownerID string, sheetID int64) (*primary.GrowthSummary, error) {
	return &primary.GrowthSummary{
		Sessions: 2, SanityGained: 5, SanityLost: 10, NetSanity: -5, ExperienceTotal: 4,
		Skills: map[string]growth.SkillTotals{"目星": {TotalGrowth: 10, SuccessfulChecks: 2}},
	}, nil
}

func TestGrowthAdapter_Summary(t *testing.T) {
	var buf bytes.Buffer
	if err := NewGrowthAdapter(mockGrowthService{}, "keeper", &buf).Summary(context.Background(), 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions:   2", "(net -5)", "目星", "+10 (2 checks)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
