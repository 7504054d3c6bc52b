// Package primary defines the primary ports (driving adapters) of the sheet engine:
// the service interfaces the CLI and any other outer layer call, and the
// request and entity types crossing that boundary.
package primary

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/example/cocsheet/internal/core/stats"
)

// SheetService defines the primary port for sheet operations.
type SheetService interface {
	// CreateSheet creates a 6th edition sheet owned by ownerID with derived
	// stats computed from the abilities.
	CreateSheet(ctx context.Context, ownerID string, req CreateSheetRequest) (*Sheet, error)

	// GetSheet returns a sheet the viewer owns or that is public.
	GetSheet(ctx context.Context, viewerID string, sheetID int64) (*Sheet, error)

	// UpdateSheet applies a patch. Owner only.
	UpdateSheet(ctx context.Context, ownerID string, sheetID int64, patch SheetPatch) (*Sheet, error)

	// DeleteSheet deletes a sheet and cascades to its children and later versions.
	DeleteSheet(ctx context.Context, ownerID string, sheetID int64) error

	// ListSheets lists the owner's sheets.
	ListSheets(ctx context.Context, ownerID string, filters SheetFilters) ([]*Sheet, error)

	// RecomputeDerived refreshes every *_max value, the sidecar rolls and the
	// damage bonus from the current abilities. Current values are untouched.
	RecomputeDerived(ctx context.Context, ownerID string, sheetID int64) (*Sheet, error)

	// EvaluateFormula evaluates a named tag, or expression when tag is "custom",
	// against the sheet's abilities.
	EvaluateFormula(ctx context.Context, viewerID string, sheetID int64, tag, expression string) (int, error)
}

// CreateSheetRequest contains parameters for creating a sheet.
type CreateSheetRequest struct {
	Edition    string // defaults to "6th"
	Name       string
	PlayerName string
	Age        int
	Gender     string
	Occupation string // free text or an occupation template key/name
	Birthplace string
	Residence  string
	Abilities  stats.Abilities
	// OccupationMultiplier of 0 picks the template default, else 20.
	OccupationMultiplier int
	Status               string
	IsPublic             bool
	MentalDisorder       string
	Cash                 decimal.Decimal
	Assets               decimal.Decimal
	AnnualIncome         decimal.Decimal
	RealEstate           string
}

// SheetPatch lists the fields an update may touch; nil leaves a field alone.
type SheetPatch struct {
	Name                 *string
	PlayerName           *string
	Age                  *int
	Gender               *string
	Occupation           *string
	Birthplace           *string
	Residence            *string
	Edition              *string
	Abilities            *stats.Abilities
	OccupationMultiplier *int
	HPMax                *int
	HPCurrent            *int
	MPMax                *int
	MPCurrent            *int
	SanMax               *int
	SanCurrent           *int
	Status               *string
	VersionNote          *string
	SessionCount         *int
	IsActive             *bool
	IsPublic             *bool
	MentalDisorder       *string
	Cash                 *decimal.Decimal
	Assets               *decimal.Decimal
	AnnualIncome         *decimal.Decimal
	RealEstate           *string
	// Recompute asks for derived stats to be recomputed after the patch.
	Recompute bool
}

// SheetFilters contains filter options for listing sheets.
type SheetFilters struct {
	Edition  string
	IsActive *bool
	Limit    int
	Offset   int
}

// Sheet represents a sheet entity at the port boundary.
type Sheet struct {
	ID                   int64
	OwnerID              string
	Edition              string
	Name                 string
	PlayerName           string
	Age                  int
	Gender               string
	Occupation           string
	Birthplace           string
	Residence            string
	Abilities            stats.Abilities
	OccupationMultiplier int
	HPMax                int
	HPCurrent            int
	MPMax                int
	MPCurrent            int
	SanStart             int
	SanMax               int
	SanCurrent           int
	Status               string
	Version              int
	ParentSheetID        int64
	VersionNote          string
	SessionCount         int
	IsActive             bool
	IsPublic             bool

	// 6th edition sidecar
	MentalDisorder string
	IdeaRoll       int
	LuckRoll       int
	KnowRoll       int
	DamageBonus    string
	Cash           decimal.Decimal
	Assets         decimal.Decimal
	AnnualIncome   decimal.Decimal
	RealEstate     string

	CreatedAt string
	UpdatedAt string
}
