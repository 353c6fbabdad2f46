package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
	"treehouse/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_name, parent_type, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING folder_id, created_at
	`, r.tables.Folders)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.UserID,
		folder.Name,
		folder.ParentType,
		folder.ParentID,
		folder.CreatedAt,
	).Scan(&folder.ID, &folder.CreatedAt)

	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT folder_id, user_id, folder_name, parent_type, parent_id, created_at
		FROM %s
		WHERE folder_id = $1
	`, r.tables.Folders)

	var folder models.Folder
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.ParentType,
		&folder.ParentID,
		&folder.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Delete removes a folder; edge rows cascade
func (r *PostgresFolderRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = $1`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildFolders lists the folder's direct child folders, reading from the
// folder_folders edge table, in ascending child-ID order.
func (r *PostgresFolderRepository) ListChildFolders(ctx context.Context, folderID int64) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.folder_id, f.user_id, f.folder_name, f.parent_type, f.parent_id, f.created_at
		FROM %s ff
		JOIN %s f ON f.folder_id = ff.child_folder_id
		WHERE ff.parent_folder_id = $1
		ORDER BY f.folder_id ASC
	`, r.tables.FolderFolders, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder folders: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

// ListChildFiles lists the folder's direct child files in ascending file-ID
// order.
func (r *PostgresFolderRepository) ListChildFiles(ctx context.Context, folderID int64) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT fl.file_id, fl.user_id, fl.file_name, fl.parent_type, fl.parent_id, fl.created_at
		FROM %s ff
		JOIN %s fl ON fl.file_id = ff.file_id
		WHERE ff.folder_id = $1
		ORDER BY fl.file_id ASC
	`, r.tables.FolderFiles, r.tables.Files)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

// AddFolderEdge records folder→folder membership
func (r *PostgresFolderRepository) AddFolderEdge(ctx context.Context, parentFolderID, childFolderID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (parent_folder_id, child_folder_id)
		VALUES ($1, $2)
	`, r.tables.FolderFolders)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, parentFolderID, childFolderID); err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %d: %w", parentFolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("add folder folder edge: %w", err)
	}

	return nil
}

// AddFileEdge records folder→file membership
func (r *PostgresFolderRepository) AddFileEdge(ctx context.Context, folderID, fileID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, file_id)
		VALUES ($1, $2)
	`, r.tables.FolderFiles)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, fileID); err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
		}
		return fmt.Errorf("add folder file edge: %w", err)
	}

	return nil
}
