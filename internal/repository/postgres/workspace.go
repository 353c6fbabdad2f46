package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
	"treehouse/internal/domain/repositories"
)

// PostgresWorkspaceRepository implements the WorkspaceRepository interface
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(config *RepositoryConfig) repositories.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new workspace
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, workspace_name, created_at)
		VALUES ($1, $2, $3)
		RETURNING workspace_id, created_at
	`, r.tables.Workspaces)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		workspace.UserID,
		workspace.Name,
		workspace.CreatedAt,
	).Scan(&workspace.ID, &workspace.CreatedAt)

	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace by ID
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id int64) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT workspace_id, user_id, workspace_name, created_at
		FROM %s
		WHERE workspace_id = $1
	`, r.tables.Workspaces)

	var workspace models.Workspace
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&workspace.ID,
		&workspace.UserID,
		&workspace.Name,
		&workspace.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("workspace %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	return &workspace, nil
}

// Delete removes a workspace; edge rows cascade
func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Workspaces)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildFolders lists the workspace's direct child folders, reading from
// the edge-table side, in ascending folder-ID order.
func (r *PostgresWorkspaceRepository) ListChildFolders(ctx context.Context, workspaceID int64) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.folder_id, f.user_id, f.folder_name, f.parent_type, f.parent_id, f.created_at
		FROM %s wf
		JOIN %s f ON f.folder_id = wf.folder_id
		WHERE wf.workspace_id = $1
		ORDER BY f.folder_id ASC
	`, r.tables.WorkspaceFolders, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list workspace folders: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

// ListChildFiles lists the workspace's direct child files in ascending
// file-ID order.
func (r *PostgresWorkspaceRepository) ListChildFiles(ctx context.Context, workspaceID int64) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT fl.file_id, fl.user_id, fl.file_name, fl.parent_type, fl.parent_id, fl.created_at
		FROM %s wf
		JOIN %s fl ON fl.file_id = wf.file_id
		WHERE wf.workspace_id = $1
		ORDER BY fl.file_id ASC
	`, r.tables.WorkspaceFiles, r.tables.Files)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list workspace files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

// AddFolderEdge records workspace→folder membership
func (r *PostgresWorkspaceRepository) AddFolderEdge(ctx context.Context, workspaceID, folderID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, folder_id)
		VALUES ($1, $2)
	`, r.tables.WorkspaceFolders)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, workspaceID, folderID); err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("workspace %d: %w", workspaceID, domain.ErrNotFound)
		}
		return fmt.Errorf("add workspace folder edge: %w", err)
	}

	return nil
}

// AddFileEdge records workspace→file membership
func (r *PostgresWorkspaceRepository) AddFileEdge(ctx context.Context, workspaceID, fileID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, file_id)
		VALUES ($1, $2)
	`, r.tables.WorkspaceFiles)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, workspaceID, fileID); err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("workspace %d: %w", workspaceID, domain.ErrNotFound)
		}
		return fmt.Errorf("add workspace file edge: %w", err)
	}

	return nil
}

// collectFolders drains rows into folder models
func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.UserID,
			&folder.Name,
			&folder.ParentType,
			&folder.ParentID,
			&folder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// collectFiles drains rows into file models
func collectFiles(rows pgx.Rows) ([]models.File, error) {
	files := []models.File{}
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.UserID,
			&file.Name,
			&file.ParentType,
			&file.ParentID,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
