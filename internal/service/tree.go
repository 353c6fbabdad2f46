package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"treehouse/internal/config"
	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
	"treehouse/internal/domain/repositories"
	"treehouse/internal/domain/services"
)

// treeService implements the TreeService interface.
//
// A resolution is a sequence of point reads against the hierarchy store with
// no transaction held across the walk, so concurrent mutations can produce
// read skew in the result. Sibling subtrees resolve in parallel with a
// bounded group; every node is still placed at its listing index, so the
// output keeps the store's stable ascending-ID order regardless of
// completion order.
type treeService struct {
	workspaceRepo repositories.WorkspaceRepository
	folderRepo    repositories.FolderRepository
	logger        *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	workspaceRepo repositories.WorkspaceRepository,
	folderRepo repositories.FolderRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		workspaceRepo: workspaceRepo,
		folderRepo:    folderRepo,
		logger:        logger,
	}
}

// ResolveWorkspaceTree materializes the full descendant tree of a workspace.
// The root fetch happens first: a missing workspace fails with
// domain.ErrNotFound before any child listing is attempted.
func (s *treeService) ResolveWorkspaceTree(ctx context.Context, workspaceID int64) (*models.WorkspaceTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, classify(err)
	}

	files, err := s.workspaceRepo.ListChildFiles(ctx, workspaceID)
	if err != nil {
		return nil, classify(err)
	}

	children, err := s.workspaceRepo.ListChildFolders(ctx, workspaceID)
	if err != nil {
		return nil, classify(err)
	}

	// Workspace children start with an empty ancestor path: only folder IDs
	// participate in cycle detection.
	subtrees, err := s.resolveSiblings(ctx, children, map[int64]struct{}{}, 0)
	if err != nil {
		return nil, err
	}

	tree := &models.WorkspaceTree{
		Workspace: *workspace,
		Files:     files,
		Folders:   subtrees,
	}

	s.logger.Debug("workspace tree resolved",
		"workspace_id", workspaceID,
		"direct_files", len(files),
		"direct_folders", len(subtrees),
	)

	return tree, nil
}

// ResolveFolderTree materializes the full descendant tree of a folder.
func (s *treeService) ResolveFolderTree(ctx context.Context, folderID int64) (*models.FolderTree, error) {
	return s.resolveFolder(ctx, folderID, map[int64]struct{}{}, 0)
}

// resolveFolder resolves one folder and, recursively, everything under it.
// ancestors is the set of folder IDs on the path from the root to this
// node's parent; it is never mutated, only copied when descending, so
// concurrent siblings can share it.
func (s *treeService) resolveFolder(ctx context.Context, folderID int64, ancestors map[int64]struct{}, depth int) (*models.FolderTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	// Folder edges are mutable rows, not a language-enforced tree. A folder
	// reappearing on its own path means the edge table holds a cycle; fail
	// the whole walk instead of recursing until the stack dies.
	if _, seen := ancestors[folderID]; seen {
		return nil, fmt.Errorf("folder %d is its own descendant: %w", folderID, domain.ErrCyclicHierarchy)
	}
	if depth >= config.MaxTreeDepth {
		return nil, fmt.Errorf("folder %d exceeds depth %d: %w", folderID, config.MaxTreeDepth, domain.ErrCyclicHierarchy)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, classify(err)
	}

	files, err := s.folderRepo.ListChildFiles(ctx, folderID)
	if err != nil {
		return nil, classify(err)
	}

	children, err := s.folderRepo.ListChildFolders(ctx, folderID)
	if err != nil {
		return nil, classify(err)
	}

	path := make(map[int64]struct{}, len(ancestors)+1)
	for id := range ancestors {
		path[id] = struct{}{}
	}
	path[folderID] = struct{}{}

	subtrees, err := s.resolveSiblings(ctx, children, path, depth+1)
	if err != nil {
		return nil, err
	}

	return &models.FolderTree{
		Folder:  *folder,
		Files:   files,
		Folders: subtrees,
	}, nil
}

// resolveSiblings resolves a listing of sibling folders with bounded
// parallelism. Results land at their listing index; any failure aborts the
// group and the whole resolution, so partial trees never escape.
func (s *treeService) resolveSiblings(ctx context.Context, children []models.Folder, ancestors map[int64]struct{}, depth int) ([]*models.FolderTree, error) {
	subtrees := make([]*models.FolderTree, len(children))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.TreeChildConcurrency)

	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			subtree, err := s.resolveFolder(gctx, child.ID, ancestors, depth)
			if err != nil {
				return err
			}
			subtrees[i] = subtree
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return subtrees, nil
}

// classify maps context cancellation buried in store errors to
// domain.ErrCancelled; everything else passes through unchanged.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cancelled(err)
	}
	return err
}

func cancelled(err error) error {
	return fmt.Errorf("%v: %w", err, domain.ErrCancelled)
}
