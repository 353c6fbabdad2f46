package services

import (
	"context"

	"treehouse/internal/domain/models"
)

// TreeService materializes the nested descendant tree of a workspace or
// folder from flat store records.
//
// Resolution is a sequence of independent point reads; no transaction or
// snapshot is held across the walk, so a tree resolved concurrently with
// mutations may mix before/after state (read skew). That relaxation is
// accepted. Failures are total: a store error, cycle, or cancellation
// anywhere in the walk fails the whole call with no partial tree.
type TreeService interface {
	// ResolveWorkspaceTree returns the full tree rooted at the workspace.
	// Returns domain.ErrNotFound if the workspace does not exist at the time
	// of the root fetch, before any child listing is attempted.
	ResolveWorkspaceTree(ctx context.Context, workspaceID int64) (*models.WorkspaceTree, error)

	// ResolveFolderTree returns the full tree rooted at the folder. A folder
	// revisited on its own descendant path fails the call with
	// domain.ErrCyclicHierarchy rather than recursing unboundedly.
	ResolveFolderTree(ctx context.Context, folderID int64) (*models.FolderTree, error)
}
