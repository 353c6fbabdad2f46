package services

import (
	"context"
	"time"

	"treehouse/internal/domain/models"
)

// CreateWorkspaceRequest represents a request to create a workspace
type CreateWorkspaceRequest struct {
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateNodeRequest represents a request to create a folder or file under an
// existing parent (workspace or folder) the caller owns.
type CreateNodeRequest struct {
	UserID     int64     `json:"-"`
	Name       string    `json:"name"`
	ParentID   int64     `json:"parent_id"`
	ParentType string    `json:"parent_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkspaceService owns the hierarchy's write path and point reads. Creation
// of a folder or file writes the child row and its matching edge row in one
// transaction; there is no other mutation point for either representation.
type WorkspaceService interface {
	// CreateWorkspace creates a workspace for the user, enforcing the
	// account tier's quota. The guarded counter increment and the workspace
	// insert run in one transaction and fail closed together.
	CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*models.Workspace, error)

	// CreateFolder creates a folder under the claimed parent. The parent
	// must exist and belong to the requesting user.
	CreateFolder(ctx context.Context, req *CreateNodeRequest) (*models.Folder, error)

	// CreateFile creates a file under the claimed parent.
	CreateFile(ctx context.Context, req *CreateNodeRequest) (*models.File, error)

	// GetFile returns a file after checking the requester owns it.
	GetFile(ctx context.Context, userID, fileID int64) (*models.File, error)

	// DeleteWorkspace removes a workspace; edge rows cascade. The user's
	// workspace counter is decremented in the same transaction.
	DeleteWorkspace(ctx context.Context, userID, workspaceID int64) error

	// DeleteFolder removes a folder; edge rows cascade.
	DeleteFolder(ctx context.Context, userID, folderID int64) error

	// DeleteFile removes a file; edge rows cascade.
	DeleteFile(ctx context.Context, userID, fileID int64) error
}
