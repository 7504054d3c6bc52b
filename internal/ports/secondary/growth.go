package secondary

import "context"

// GrowthRepository defines the secondary port for growth records.
// Records are append-only in practice; there is no Delete.
type GrowthRepository interface {
	// Create persists a new growth record and sets its ID.
	Create(ctx context.Context, record *GrowthRecord) error

	// GetByID retrieves a growth record by its ID.
	GetByID(ctx context.Context, id int64) (*GrowthRecord, error)

	// ListBySheet retrieves a sheet's records, newest session first.
	ListBySheet(ctx context.Context, sheetID int64) ([]*GrowthRecord, error)

	// AddSkillGrowth persists a child row and sets its ID.
	AddSkillGrowth(ctx context.Context, growth *SkillGrowthRecord) error

	// ListSkillGrowths retrieves the children of one record ordered by ID.
	ListSkillGrowths(ctx context.Context, growthRecordID int64) ([]*SkillGrowthRecord, error)
}

// GrowthRecord represents a session record as stored in persistence.
type GrowthRecord struct {
	ID               int64
	SheetID          int64
	SessionDate      string // YYYY-MM-DD
	ScenarioName     string
	GMName           string
	SanityGained     int
	SanityLost       int
	ExperienceGained int
	SpecialRewards   string
	Notes            string
	CreatedAt        string
}

// SkillGrowthRecord represents one skill's growth within a session.
type SkillGrowthRecord struct {
	ID                 int64
	GrowthRecordID     int64
	SkillName          string
	HadExperienceCheck bool
	GrowthRollResult   *int // nil means null
	OldValue           int
	NewValue           int
	GrowthAmount       int
}
