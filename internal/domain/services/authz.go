package services

import "context"

// OwnerGate decides whether a requester may operate on the root of a tree.
//
// Only root ownership is checked: descendant nodes reached through the walk
// are not individually re-verified as belonging to the same owner. If this is
// ever strengthened, make it a per-node filter applied during assembly, not a
// retrofit exception.
type OwnerGate interface {
	// AuthorizeWorkspace returns domain.ErrNotFound if the workspace does not
	// exist, domain.ErrForbidden if it belongs to someone else.
	AuthorizeWorkspace(ctx context.Context, userID, workspaceID int64) error

	// AuthorizeFolder applies the same check to a folder root.
	AuthorizeFolder(ctx context.Context, userID, folderID int64) error
}
