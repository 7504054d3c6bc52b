package primary

import (
	"context"

	"github.com/example/cocsheet/internal/core/version"
)

// VersionService defines the primary port for the version forest.
type VersionService interface {
	// CreateNewVersion copies a sheet into a new version attached to the root
	// of its tree.
	CreateNewVersion(ctx context.Context, ownerID string, sheetID int64, req CreateVersionRequest) (*Sheet, error)

	// GetVersionHistory walks the sheet's tree depth-first from the root.
	GetVersionHistory(ctx context.Context, viewerID string, sheetID int64) ([]*VersionEntry, error)

	// GetRootVersion returns the root of the sheet's tree.
	GetRootVersion(ctx context.Context, viewerID string, sheetID int64) (*Sheet, error)

	// GetLatestVersion returns the highest version in the sheet's tree.
	GetLatestVersion(ctx context.Context, viewerID string, sheetID int64) (*Sheet, error)

	// CompareVersions diffs abilities and skills of a (old) against b (new).
	CompareVersions(ctx context.Context, viewerID string, a, b int64) (*VersionDiff, error)

	// RollbackToVersion creates a new version copied from target. Neither the
	// current sheet nor the target changes.
	RollbackToVersion(ctx context.Context, ownerID string, currentID, targetID int64) (*Sheet, error)

	// SetParent re-attaches a sheet; parentID 0 makes it a root.
	SetParent(ctx context.Context, ownerID string, sheetID, parentID int64) error
}

// CreateVersionRequest contains parameters for creating a version.
type CreateVersionRequest struct {
	VersionNote  string
	SessionCount *int // nil keeps the source's count
	CopySkills   bool
}

// VersionEntry is one row of a version history.
type VersionEntry struct {
	SheetID       int64
	ParentSheetID int64
	Version       int
	Depth         int
	Name          string
	VersionNote   string
	SessionCount  int
	CreatedAt     string
}

// VersionDiff is the result of comparing two versions.
type VersionDiff = version.Diff
