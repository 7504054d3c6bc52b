package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/cocsheet/internal/core/version"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// VersionServiceImpl implements the VersionService interface.
// New versions always hang off the root of their tree.
type VersionServiceImpl struct {
	tx        secondary.Transactor
	sheets    secondary.SheetRepository
	skills    secondary.SkillRepository
	images    secondary.ImageRepository
	logWriter secondary.LogWriter
	logger    *zap.Logger
}

// NewVersionService creates a new VersionService with injected dependencies.
func NewVersionService(
	tx secondary.Transactor,
	sheets secondary.SheetRepository,
	skills secondary.SkillRepository,
	images secondary.ImageRepository,
	logWriter secondary.LogWriter,
	logger *zap.Logger,
) *VersionServiceImpl {
	return &VersionServiceImpl{
		tx:        tx,
		sheets:    sheets,
		skills:    skills,
		images:    images,
		logWriter: logWriter,
		logger:    nopIfNil(logger).Named("version"),
	}
}

// tree loads the whole tree containing sheetID.
func (s *VersionServiceImpl) tree(ctx context.Context, sheetID int64) (int64, []*secondary.SheetRecord, error) {
	chain, err := s.sheets.Ancestors(ctx, sheetID)
	if err != nil {
		return 0, nil, err
	}
	root := version.RootOf(chain)
	records, err := s.sheets.Tree(ctx, root)
	if err != nil {
		return 0, nil, err
	}
	return root, records, nil
}

func nodesOf(records []*secondary.SheetRecord) []version.Node {
	nodes := make([]version.Node, len(records))
	for i, r := range records {
		nodes[i] = version.Node{ID: r.ID, ParentID: r.ParentSheetID, Version: r.Version}
	}
	return nodes
}

func childVersions(records []*secondary.SheetRecord, parentID int64) []int {
	var out []int
	for _, r := range records {
		if r.ParentSheetID == parentID {
			out = append(out, r.Version)
		}
	}
	return out
}

type copyOptions struct {
	note         string
	sessionCount int
	skills       bool
}

// branch copies source into a new version under the root of its tree.
func (s *VersionServiceImpl) branch(ctx context.Context, source *secondary.SheetRecord, o copyOptions) (*secondary.SheetRecord, error) {
	root, records, err := s.tree(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	next := version.NextVersion(nodesOf(records))
	if err := version.CanAttach(version.SiblingContext{
		ParentID:        root,
		Version:         next,
		SiblingVersions: childVersions(records, root),
	}).Error(); err != nil {
		return nil, err
	}

	copied := *source
	copied.ID = 0
	copied.ParentSheetID = root
	copied.Version = next
	copied.VersionNote = o.note
	copied.SessionCount = o.sessionCount
	copied.CreatedAt, copied.UpdatedAt = "", ""
	if err := s.sheets.Create(ctx, &copied); err != nil {
		return nil, err
	}

	side, err := s.sheets.GetSidecar(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	if side != nil {
		sideCopy := *side
		sideCopy.SheetID = copied.ID
		if err := s.sheets.UpsertSidecar(ctx, &sideCopy); err != nil {
			return nil, err
		}
	}

	images, err := s.images.ListBySheet(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		imgCopy := *img
		imgCopy.ID = 0
		imgCopy.SheetID = copied.ID
		imgCopy.CreatedAt = ""
		if err := s.images.Create(ctx, &imgCopy); err != nil {
			return nil, err
		}
	}

	if o.skills {
		skills, err := s.skills.ListBySheet(ctx, source.ID)
		if err != nil {
			return nil, err
		}
		for _, sk := range skills {
			skCopy := *sk
			skCopy.ID = 0
			skCopy.SheetID = copied.ID
			skCopy.CreatedAt, skCopy.UpdatedAt = "", ""
			if err := s.skills.Create(ctx, &skCopy); err != nil {
				return nil, err
			}
		}
	}

	if err := s.logWriter.LogCreate(ctx, "sheet", idString(copied.ID)); err != nil {
		return nil, err
	}
	return &copied, nil
}

// CreateNewVersion copies a sheet into a new version attached to the root
// of its tree, numbered one past the highest version in the tree.
func (s *VersionServiceImpl) CreateNewVersion(ctx context.Context, ownerID string, sheetID int64, req primary.CreateVersionRequest) (*primary.Sheet, error) {
	var created *secondary.SheetRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		source, err := loadEditable(ctx, s.sheets, ownerID, sheetID)
		if err != nil {
			return err
		}
		sessions := source.SessionCount
		if req.SessionCount != nil {
			sessions = *req.SessionCount
		}
		if err := version.CanCreateVersion(version.CreateContext{
			VersionNote:  req.VersionNote,
			SessionCount: sessions,
		}).Error(); err != nil {
			return err
		}
		created, err = s.branch(ctx, source, copyOptions{
			note:         req.VersionNote,
			sessionCount: sessions,
			skills:       req.CopySkills,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("version created",
		zap.Int64("source_id", sheetID),
		zap.Int64("sheet_id", created.ID),
		zap.Int64("root_id", created.ParentSheetID),
		zap.Int("version", created.Version),
		zap.Bool("copy_skills", req.CopySkills))
	return s.fetch(ctx, created.ID)
}

// RollbackToVersion copies target into a new version. Both sheets must be
// in the same tree; neither is modified.
// The new version's parent is the tree root, not currentID.
func (s *VersionServiceImpl) RollbackToVersion(ctx context.Context, ownerID string, currentID, targetID int64) (*primary.Sheet, error) {
	var created *secondary.SheetRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := loadEditable(ctx, s.sheets, ownerID, currentID)
		if err != nil {
			return err
		}
		target, err := loadEditable(ctx, s.sheets, ownerID, targetID)
		if err != nil {
			return err
		}
		currentChain, err := s.sheets.Ancestors(ctx, currentID)
		if err != nil {
			return err
		}
		targetChain, err := s.sheets.Ancestors(ctx, targetID)
		if err != nil {
			return err
		}
		if version.RootOf(currentChain) != version.RootOf(targetChain) {
			return errs.Validation("target_sheet_id", "sheet %d is not a version of sheet %d", targetID, currentID)
		}

		created, err = s.branch(ctx, target, copyOptions{
			note:         version.RollbackNote(current.Version, target.Version),
			sessionCount: current.SessionCount,
			skills:       true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rolled back",
		zap.Int64("current_id", currentID),
		zap.Int64("target_id", targetID),
		zap.Int64("sheet_id", created.ID),
		zap.Int("version", created.Version))
	return s.fetch(ctx, created.ID)
}

// GetVersionHistory walks the sheet's tree depth-first from the root.
func (s *VersionServiceImpl) GetVersionHistory(ctx context.Context, viewerID string, sheetID int64) ([]*primary.VersionEntry, error) {
	if _, err := loadVisible(ctx, s.sheets, viewerID, sheetID); err != nil {
		return nil, err
	}
	root, records, err := s.tree(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*secondary.SheetRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	depth := map[int64]int{}
	var out []*primary.VersionEntry
	for _, n := range version.History(nodesOf(records), root) {
		r := byID[n.ID]
		d := 0
		if n.ID != root {
			d = depth[n.ParentID] + 1
		}
		depth[n.ID] = d
		out = append(out, &primary.VersionEntry{
			SheetID:       r.ID,
			ParentSheetID: r.ParentSheetID,
			Version:       r.Version,
			Depth:         d,
			Name:          r.Name,
			VersionNote:   r.VersionNote,
			SessionCount:  r.SessionCount,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, nil
}

// GetRootVersion returns the root of the sheet's tree.
func (s *VersionServiceImpl) GetRootVersion(ctx context.Context, viewerID string, sheetID int64) (*primary.Sheet, error) {
	if _, err := loadVisible(ctx, s.sheets, viewerID, sheetID); err != nil {
		return nil, err
	}
	chain, err := s.sheets.Ancestors(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	return s.visible(ctx, viewerID, version.RootOf(chain))
}

// GetLatestVersion returns the highest version in the sheet's tree.
func (s *VersionServiceImpl) GetLatestVersion(ctx context.Context, viewerID string, sheetID int64) (*primary.Sheet, error) {
	if _, err := loadVisible(ctx, s.sheets, viewerID, sheetID); err != nil {
		return nil, err
	}
	_, records, err := s.tree(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	latest, ok := version.Latest(nodesOf(records))
	if !ok {
		return nil, errs.NotFound("sheet %d not found", sheetID)
	}
	return s.visible(ctx, viewerID, latest.ID)
}

// CompareVersions diffs abilities and skill values of a against b.
func (s *VersionServiceImpl) CompareVersions(ctx context.Context, viewerID string, a, b int64) (*primary.VersionDiff, error) {
	old, err := s.snapshot(ctx, viewerID, a)
	if err != nil {
		return nil, err
	}
	updated, err := s.snapshot(ctx, viewerID, b)
	if err != nil {
		return nil, err
	}
	d := version.Compare(old, updated)
	return &d, nil
}

func (s *VersionServiceImpl) snapshot(ctx context.Context, viewerID string, sheetID int64) (version.Snapshot, error) {
	record, err := loadVisible(ctx, s.sheets, viewerID, sheetID)
	if err != nil {
		return version.Snapshot{}, err
	}
	skills, err := s.skills.ListBySheet(ctx, sheetID)
	if err != nil {
		return version.Snapshot{}, err
	}
	values := make(map[string]int, len(skills))
	for _, sk := range skills {
		values[sk.Name] = sk.CurrentValue
	}
	return version.Snapshot{Abilities: record.Abilities, Skills: values}, nil
}

// SetParent re-attaches a sheet under parentID, or makes it a root when
// parentID is 0. The sheet keeps its version number.
func (s *VersionServiceImpl) SetParent(ctx context.Context, ownerID string, sheetID, parentID int64) error {
	var previous int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sh, err := loadEditable(ctx, s.sheets, ownerID, sheetID)
		if err != nil {
			return err
		}
		previous = sh.ParentSheetID

		guard := version.ParentContext{SheetID: sheetID, ParentID: parentID}
		var siblings []int
		if parentID != 0 {
			if _, err := loadEditable(ctx, s.sheets, ownerID, parentID); err != nil {
				return err
			}
			if guard.ParentAncestors, err = s.sheets.Ancestors(ctx, parentID); err != nil {
				return err
			}
			children, err := s.sheets.List(ctx, secondary.SheetFilters{OwnerID: ownerID})
			if err != nil {
				return err
			}
			for _, c := range children {
				if c.ParentSheetID == parentID && c.ID != sheetID {
					siblings = append(siblings, c.Version)
				}
			}
		}
		if err := version.CanSetParent(guard).Error(); err != nil {
			return err
		}
		if parentID != 0 {
			if err := version.CanAttach(version.SiblingContext{
				ParentID:        parentID,
				Version:         sh.Version,
				SiblingVersions: siblings,
			}).Error(); err != nil {
				return err
			}
		}

		if err := s.sheets.SetParent(ctx, sheetID, parentID, sh.Version); err != nil {
			return err
		}
		return s.logWriter.LogUpdate(ctx, "sheet", idString(sheetID), "parent_sheet_id",
			parentString(previous), parentString(parentID))
	})
	if err != nil {
		return err
	}
	s.logger.Info("parent changed",
		zap.Int64("sheet_id", sheetID),
		zap.Int64("old_parent_id", previous),
		zap.Int64("new_parent_id", parentID))
	return nil
}

func parentString(id int64) string {
	if id == 0 {
		return ""
	}
	return idString(id)
}

func (s *VersionServiceImpl) visible(ctx context.Context, viewerID string, id int64) (*primary.Sheet, error) {
	record, err := loadVisible(ctx, s.sheets, viewerID, id)
	if err != nil {
		return nil, err
	}
	side, err := s.sheets.GetSidecar(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToSheet(record, side), nil
}

func (s *VersionServiceImpl) fetch(ctx context.Context, id int64) (*primary.Sheet, error) {
	record, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	side, err := s.sheets.GetSidecar(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToSheet(record, side), nil
}

var _ primary.VersionService = (*VersionServiceImpl)(nil)
