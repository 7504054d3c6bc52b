package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/core/version"
	"github.com/example/cocsheet/internal/ports/primary"
)

// mockVersionService implements primary.VersionService for testing
type mockVersionService struct {
	primary.VersionService

	history []*primary.VersionEntry
	diff    primary.VersionDiff
}

func (m *mockVersionService) GetVersionHistory(ctx context.Context, viewerID string, sheetID int64) ([]*primary.VersionEntry, error) {
	return m.history, nil
}

func (m *mockVersionService) CompareVersions(ctx context.Context, viewerID string, a, b int64) (*primary.VersionDiff, error) {
	return &m.diff, nil
}

func (m *mockVersionService) RollbackToVersion(ctx context.Context, ownerID string, currentID, targetID int64) (*primary.Sheet, error) {
	return &primary.Sheet{ID: 4, Version: 4, VersionNote: "rollback from v3 to v1"}, nil
}

func TestVersionAdapter_HistoryIndentsByDepth(t *testing.T) {
	mock := &mockVersionService{history: []*primary.VersionEntry{
		{SheetID: 1, Version: 1, Depth: 0},
		{SheetID: 2, Version: 2, Depth: 1, VersionNote: "after the haunted house"},
	}}
	var buf bytes.Buffer
	adapter := NewVersionAdapter(mock, "keeper", &buf)

	if err := adapter.History(context.Background(), 2); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "  v1  sheet 1") {
		t.Errorf("expected root row, got %q", out)
	}
	if !strings.Contains(out, "*   v2  sheet 2") {
		t.Errorf("expected indented current row, got %q", out)
	}
}

func TestVersionAdapter_Compare(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		var buf bytes.Buffer
		adapter := NewVersionAdapter(&mockVersionService{}, "keeper", &buf)
		if err := adapter.Compare(context.Background(), 1, 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), "No differences") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("changes", func(t *testing.T) {
		diff := version.Compare(
			version.Snapshot{Abilities: stats.Abilities{INT: 15}, Skills: map[string]int{"目星": 35, "鍵開け": 1}},
			version.Snapshot{Abilities: stats.Abilities{INT: 16}, Skills: map[string]int{"目星": 40, "図書館": 25}},
		)
		var buf bytes.Buffer
		adapter := NewVersionAdapter(&mockVersionService{diff: diff}, "keeper", &buf)
		if err := adapter.Compare(context.Background(), 1, 2); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := buf.String()
		for _, want := range []string{"INT   15 ->  16  +1", "~ 目星 35 -> 40  +5", "+ 図書館 25", "- 鍵開け 1"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}
	})
}

func TestVersionAdapter_Rollback(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewVersionAdapter(&mockVersionService{}, "keeper", &buf)

	if err := adapter.Rollback(context.Background(), 3, 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Created v4 as sheet 4: rollback from v3 to v1") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
