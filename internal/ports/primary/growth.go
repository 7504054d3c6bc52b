package primary

import (
	"context"
	"time"

	"github.com/example/cocsheet/internal/core/growth"
)

// GrowthService defines the primary port for the growth ledger.
// Recording growth never changes skill values; callers update skills separately.
type GrowthService interface {
	// CreateGrowthRecord stores a session record and its skill rows atomically.
	CreateGrowthRecord(ctx context.Context, ownerID string, sheetID int64, req CreateGrowthRecordRequest) (*GrowthRecord, error)

	// AddSkillGrowth appends a skill row to an existing record.
	AddSkillGrowth(ctx context.Context, ownerID string, growthRecordID int64, req SkillGrowthRequest) (*SkillGrowth, error)

	// GrowthSummary totals every record of a sheet.
	GrowthSummary(ctx context.Context, ownerID string, sheetID int64) (*GrowthSummary, error)

	// ListGrowthRecords lists records newest session first, with their skill rows.
	ListGrowthRecords(ctx context.Context, viewerID string, sheetID int64) ([]*GrowthRecord, error)
}

// CreateGrowthRecordRequest contains parameters for a session record.
type CreateGrowthRecordRequest struct {
	SessionDate      time.Time
	ScenarioName     string
	GMName           string
	SanityGained     int
	SanityLost       int
	ExperienceGained int
	SpecialRewards   string
	Notes            string
	Skills           []SkillGrowthRequest
}

// SkillGrowthRequest describes one skill's outcome. GrowthAmount is derived
// from the values; a supplied amount must match.
type SkillGrowthRequest struct {
	SkillName          string
	HadExperienceCheck bool
	GrowthRollResult   *int
	OldValue           int
	NewValue           int
	GrowthAmount       *int
}

// GrowthRecord represents a session record at the port boundary.
type GrowthRecord struct {
	ID               int64
	SheetID          int64
	SessionDate      string
	ScenarioName     string
	GMName           string
	SanityGained     int
	SanityLost       int
	ExperienceGained int
	SpecialRewards   string
	Notes            string
	Skills           []*SkillGrowth
}

// SkillGrowth represents one skill row at the port boundary.
type SkillGrowth struct {
	ID                 int64
	GrowthRecordID     int64
	SkillName          string
	HadExperienceCheck bool
	GrowthRollResult   *int
	OldValue           int
	NewValue           int
	GrowthAmount       int
	Succeeded          bool
}

// GrowthSummary is the per-sheet aggregate.
type GrowthSummary = growth.Summary
