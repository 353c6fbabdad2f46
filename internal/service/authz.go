package service

import (
	"context"
	"fmt"

	"treehouse/internal/domain"
	"treehouse/internal/domain/repositories"
	"treehouse/internal/domain/services"
)

// ownerGate implements OwnerGate with root-ownership checks.
//
// Only the root of a tree resolution is checked. Descendants reached through
// the walk inherit the decision and are not re-verified per node: every node
// is created under a parent the owner already held, so an owner mismatch
// below the root means corrupted data, not a normal request.
type ownerGate struct {
	workspaceRepo repositories.WorkspaceRepository
	folderRepo    repositories.FolderRepository
}

// NewOwnerGate creates a new ownership gate
func NewOwnerGate(
	workspaceRepo repositories.WorkspaceRepository,
	folderRepo repositories.FolderRepository,
) services.OwnerGate {
	return &ownerGate{
		workspaceRepo: workspaceRepo,
		folderRepo:    folderRepo,
	}
}

// AuthorizeWorkspace permits the caller only if the workspace exists and
// belongs to them
func (g *ownerGate) AuthorizeWorkspace(ctx context.Context, userID, workspaceID int64) error {
	workspace, err := g.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace.UserID != userID {
		return fmt.Errorf("workspace %d: %w", workspaceID, domain.ErrForbidden)
	}
	return nil
}

// AuthorizeFolder permits the caller only if the folder exists and belongs
// to them
func (g *ownerGate) AuthorizeFolder(ctx context.Context, userID, folderID int64) error {
	folder, err := g.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.UserID != userID {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrForbidden)
	}
	return nil
}
