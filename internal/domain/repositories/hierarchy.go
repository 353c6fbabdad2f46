package repositories

import (
	"context"

	"treehouse/internal/domain/models"
)

// The hierarchy repositories persist workspace, folder and file rows plus the
// edge tables recording parent→child membership. Child listings read from the
// edge-table side, join to the child's own table, and return full child rows
// in ascending child-ID order; repeated calls on unchanged data yield the
// same order. A missing parent is domain.ErrNotFound from the Get methods,
// never an empty child list.

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *models.Workspace) error
	GetByID(ctx context.Context, id int64) (*models.Workspace, error)
	Delete(ctx context.Context, id int64) error

	ListChildFolders(ctx context.Context, workspaceID int64) ([]models.Folder, error)
	ListChildFiles(ctx context.Context, workspaceID int64) ([]models.File, error)

	AddFolderEdge(ctx context.Context, workspaceID, folderID int64) error
	AddFileEdge(ctx context.Context, workspaceID, fileID int64) error
}

type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id int64) (*models.Folder, error)
	Delete(ctx context.Context, id int64) error

	ListChildFolders(ctx context.Context, folderID int64) ([]models.Folder, error)
	ListChildFiles(ctx context.Context, folderID int64) ([]models.File, error)

	AddFolderEdge(ctx context.Context, parentFolderID, childFolderID int64) error
	AddFileEdge(ctx context.Context, folderID, fileID int64) error
}

type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id int64) (*models.File, error)
	Delete(ctx context.Context, id int64) error
}
