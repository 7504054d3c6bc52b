// Package version contains the pure rules of the per-character version forest:
// parent assignment guards, version numbering, history ordering, and diffs.
package version

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/example/cocsheet/internal/errs"
)

// MaxNoteLength bounds version_note.
const MaxNoteLength = 1000

// Node is one sheet in a version tree. ParentID is 0 for a root.
type Node struct {
	ID       int64
	ParentID int64
	Version  int
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Field   string
	// Conflict marks failures caused by an existing row rather than bad input.
	Conflict bool
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Conflict {
		return errs.Conflict(r.Field, "%s", r.Reason)
	}
	return errs.Validation(r.Field, "%s", r.Reason)
}

// ParentContext describes a proposed parent_sheet_id assignment.
type ParentContext struct {
	SheetID  int64
	ParentID int64 // 0 clears the parent
	// ParentAncestors are the IDs from ParentID up to its root, ParentID first.
	ParentAncestors []int64
}

// CanSetParent evaluates the forest rule: a sheet can never become its own
// ancestor, so the new parent may be neither the sheet nor a descendant of it.
func CanSetParent(ctx ParentContext) GuardResult {
	if ctx.ParentID == 0 {
		return GuardResult{Allowed: true}
	}
	if ctx.ParentID == ctx.SheetID {
		return GuardResult{Field: "parent_sheet_id", Reason: fmt.Sprintf("sheet %d cannot be its own parent", ctx.SheetID)}
	}
	for _, id := range ctx.ParentAncestors {
		if id == ctx.SheetID {
			return GuardResult{
				Field:  "parent_sheet_id",
				Reason: fmt.Sprintf("sheet %d is an ancestor of sheet %d; the assignment would create a cycle", ctx.SheetID, ctx.ParentID),
			}
		}
	}
	return GuardResult{Allowed: true}
}

// SiblingContext describes a child about to be attached to a parent.
type SiblingContext struct {
	ParentID        int64
	Version         int
	SiblingVersions []int
}

// CanAttach evaluates version uniqueness among the children of one parent.
func CanAttach(ctx SiblingContext) GuardResult {
	if ctx.Version < 1 {
		return GuardResult{Field: "version", Reason: fmt.Sprintf("version must be positive (got %d)", ctx.Version)}
	}
	for _, v := range ctx.SiblingVersions {
		if v == ctx.Version {
			return GuardResult{
				Field:    "version",
				Reason:   fmt.Sprintf("parent %d already has a version %d", ctx.ParentID, ctx.Version),
				Conflict: true,
			}
		}
	}
	return GuardResult{Allowed: true}
}

// CreateContext describes a create_new_version request.
type CreateContext struct {
	VersionNote  string
	SessionCount int
}

// CanCreateVersion validates the new version's metadata.
func CanCreateVersion(ctx CreateContext) GuardResult {
	if n := utf8.RuneCountInString(ctx.VersionNote); n > MaxNoteLength {
		return GuardResult{Field: "version_note", Reason: fmt.Sprintf("version note exceeds %d characters (got %d)", MaxNoteLength, n)}
	}
	if ctx.SessionCount < 0 {
		return GuardResult{Field: "session_count", Reason: "session count cannot be negative"}
	}
	return GuardResult{Allowed: true}
}

// RootOf returns the root ID for the ancestor chain of a sheet
// (the sheet first, its root last).
func RootOf(chain []int64) int64 {
	if len(chain) == 0 {
		return 0
	}
	return chain[len(chain)-1]
}

// NextVersion returns one more than the highest version in nodes.
func NextVersion(nodes []Node) int {
	highest := 0
	for _, n := range nodes {
		if n.Version > highest {
			highest = n.Version
		}
	}
	return highest + 1
}

// Latest returns the node with the highest version; ties go to the newer ID.
func Latest(nodes []Node) (Node, bool) {
	if len(nodes) == 0 {
		return Node{}, false
	}
	best := nodes[0]
	for _, n := range nodes[1:] {
		if n.Version > best.Version || (n.Version == best.Version && n.ID > best.ID) {
			best = n
		}
	}
	return best, true
}

// History orders nodes depth-first from rootID, children by ascending version
// (then ID). Nodes unreachable from rootID are dropped.
func History(nodes []Node, rootID int64) []Node {
	children := make(map[int64][]Node, len(nodes))
	var root *Node
	for i := range nodes {
		n := nodes[i]
		if n.ID == rootID {
			root = &nodes[i]
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}
	if root == nil {
		return nil
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool {
			if kids[i].Version != kids[j].Version {
				return kids[i].Version < kids[j].Version
			}
			return kids[i].ID < kids[j].ID
		})
	}

	out := make([]Node, 0, len(nodes))
	seen := make(map[int64]bool, len(nodes))
	var walk func(n Node)
	walk = func(n Node) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		out = append(out, n)
		for _, c := range children[n.ID] {
			walk(c)
		}
	}
	walk(*root)
	return out
}

// RollbackNote is the version_note written on a rollback copy.
func RollbackNote(fromVersion, toVersion int) string {
	return fmt.Sprintf("rollback from v%d to v%d", fromVersion, toVersion)
}
