package primary

import "context"

// SkillService defines the primary port for skills and the point economy.
type SkillService interface {
	// UpsertSkill creates or updates a skill by (sheet, name). A nil BaseValue
	// takes the catalog default on create and keeps the stored base on update.
	UpsertSkill(ctx context.Context, ownerID string, sheetID int64, req UpsertSkillRequest) (*Skill, error)

	// DeleteSkill deletes one skill.
	DeleteSkill(ctx context.Context, ownerID string, sheetID, skillID int64) error

	// ListSkills lists a sheet's skills ordered by ID.
	ListSkills(ctx context.Context, viewerID string, sheetID int64) ([]*Skill, error)

	// AllocateSingle sets the points of one skill. Repeating the call is a no-op.
	AllocateSingle(ctx context.Context, ownerID string, sheetID int64, alloc Allocation) (*Skill, error)

	// AllocateBatch applies every allocation or none.
	AllocateBatch(ctx context.Context, ownerID string, sheetID int64, allocs []Allocation) ([]*Skill, error)

	// ResetPoints zeroes occupation and interest points on every skill.
	ResetPoints(ctx context.Context, ownerID string, sheetID int64) error

	// ApplyOccupationTemplate creates the template skills the sheet lacks and
	// returns the created ones.
	ApplyOccupationTemplate(ctx context.Context, ownerID string, sheetID int64) ([]*Skill, error)

	// RestoreSkills writes skills from a backup without budget checks.
	RestoreSkills(ctx context.Context, ownerID string, sheetID int64, skills []UpsertSkillRequest) ([]*Skill, error)

	// PointSummary reports both budgets with spent and remaining points.
	PointSummary(ctx context.Context, viewerID string, sheetID int64) (*PointSummary, error)
}

// UpsertSkillRequest contains the full state of a skill to write.
type UpsertSkillRequest struct {
	Name             string
	Category         string
	BaseValue        *int
	OccupationPoints int
	InterestPoints   int
	BonusPoints      int
	OtherPoints      int
	Notes            string
}

// Allocation sets the budgeted points of a skill identified by ID or name.
// Bonus points are never touched by an allocation.
type Allocation struct {
	SkillID          int64
	SkillName        string
	BaseValue        *int
	OccupationPoints int
	InterestPoints   int
	OtherPoints      int
}

// Skill represents a skill entity at the port boundary.
type Skill struct {
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
}

// PointSummary reports a sheet's point budgets.
type PointSummary struct {
	OccupationBudget    int
	OccupationSpent     int
	OccupationRemaining int
	HobbyBudget         int
	HobbySpent          int
	HobbyRemaining      int
}
