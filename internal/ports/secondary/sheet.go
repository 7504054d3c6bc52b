// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/example/cocsheet/internal/core/stats"
)

// Transactor runs work inside a store transaction.
type Transactor interface {
	// WithinTx runs fn in a transaction carried by the context passed to fn.
	// A nested call joins the outer transaction. The transaction commits when
	// fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SheetRepository defines the secondary port for sheet persistence.
type SheetRepository interface {
	// Create persists a new sheet and sets its ID.
	Create(ctx context.Context, sheet *SheetRecord) error

	// GetByID retrieves a sheet by its ID.
	GetByID(ctx context.Context, id int64) (*SheetRecord, error)

	// Update writes every mutable column of an existing sheet.
	Update(ctx context.Context, sheet *SheetRecord) error

	// Delete removes a sheet; children and descendant versions cascade.
	Delete(ctx context.Context, id int64) error

	// List retrieves sheets matching the given filters.
	List(ctx context.Context, filters SheetFilters) ([]*SheetRecord, error)

	// UpdateSanMax writes san_max alone.
	UpdateSanMax(ctx context.Context, id int64, sanMax int) error

	// SetParent writes parent_sheet_id and version; parentID 0 clears the parent.
	SetParent(ctx context.Context, id, parentID int64, version int) error

	// Ancestors returns the chain from id up to its root, id first.
	Ancestors(ctx context.Context, id int64) ([]int64, error)

	// Tree returns every sheet in the tree rooted at rootID, root included.
	Tree(ctx context.Context, rootID int64) ([]*SheetRecord, error)

	// GetSidecar returns the 6th edition sidecar, or nil when the sheet has none.
	GetSidecar(ctx context.Context, sheetID int64) (*Sheet6thRecord, error)

	// UpsertSidecar creates or replaces the 6th edition sidecar.
	UpsertSidecar(ctx context.Context, sidecar *Sheet6thRecord) error
}

// SheetRecord represents a sheet as stored in persistence.
type SheetRecord struct {
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
	ParentSheetID        int64 // 0 means null
	VersionNote          string
	SessionCount         int
	IsActive             bool
	IsPublic             bool
	CreatedAt            string
	UpdatedAt            string
}

// Sheet6thRecord is the 1:1 sidecar holding 6th edition extras.
type Sheet6thRecord struct {
	SheetID        int64
	MentalDisorder string
	IdeaRoll       int
	LuckRoll       int
	KnowRoll       int
	DamageBonus    string
	Cash           decimal.Decimal
	Assets         decimal.Decimal
	AnnualIncome   decimal.Decimal
	RealEstate     string
}

// SheetFilters contains filter options for listing sheets.
type SheetFilters struct {
	OwnerID  string
	Edition  string
	IsActive *bool
	Limit    int // 0 means no limit
	Offset   int
}
