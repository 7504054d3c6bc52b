package secondary

import "context"

// SkillRepository defines the secondary port for skill persistence.
type SkillRepository interface {
	// Create persists a new skill and sets its ID.
	Create(ctx context.Context, skill *SkillRecord) error

	// GetByID retrieves a skill by its ID.
	GetByID(ctx context.Context, id int64) (*SkillRecord, error)

	// GetByName retrieves a skill by sheet and name.
	GetByName(ctx context.Context, sheetID int64, name string) (*SkillRecord, error)

	// ListBySheet retrieves a sheet's skills ordered by ID.
	ListBySheet(ctx context.Context, sheetID int64) ([]*SkillRecord, error)

	// Update writes every mutable column of an existing skill.
	Update(ctx context.Context, skill *SkillRecord) error

	// Delete removes a skill.
	Delete(ctx context.Context, id int64) error
}

// SkillRecord represents a skill as stored in persistence.
type SkillRecord struct {
	ID               int64
	SheetID          int64
	Name             string
	Category         string
	BaseValue        int
	OccupationPoints int
	InterestPoints   int
	BonusPoints      int
	OtherPoints      int
	CurrentValue     int
	Notes            string
	CreatedAt        string
	UpdatedAt        string
}
