package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables this service needs if they do not exist.
// The four join tables are keyed on the composite of both foreign IDs and
// cascade on delete, so removing a node detaches its edge rows.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id BIGSERIAL PRIMARY KEY,
				username VARCHAR(255) NOT NULL UNIQUE,
				first_name VARCHAR(255) NOT NULL,
				last_name VARCHAR(255) NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL UNIQUE,
				phone VARCHAR(15) NOT NULL UNIQUE,
				account_type VARCHAR(10) NOT NULL CHECK (account_type IN ('free', 'premium')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				verification_code VARCHAR(6),
				verified BOOLEAN NOT NULL DEFAULT FALSE,
				workspace_count INTEGER NOT NULL DEFAULT 0
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				workspace_id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES %s(user_id) ON DELETE CASCADE,
				workspace_name VARCHAR(255) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, tables.Workspaces, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				folder_id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES %s(user_id) ON DELETE CASCADE,
				folder_name VARCHAR(255) NOT NULL,
				parent_type VARCHAR(10) NOT NULL CHECK (parent_type IN ('workspace', 'folder')),
				parent_id BIGINT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, tables.Folders, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				file_id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES %s(user_id) ON DELETE CASCADE,
				file_name VARCHAR(255) NOT NULL,
				parent_type VARCHAR(10) NOT NULL CHECK (parent_type IN ('workspace', 'folder')),
				parent_id BIGINT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`, tables.Files, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				workspace_id BIGINT NOT NULL REFERENCES %s(workspace_id) ON DELETE CASCADE,
				folder_id BIGINT NOT NULL REFERENCES %s(folder_id) ON DELETE CASCADE,
				PRIMARY KEY (workspace_id, folder_id)
			)`, tables.WorkspaceFolders, tables.Workspaces, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				workspace_id BIGINT NOT NULL REFERENCES %s(workspace_id) ON DELETE CASCADE,
				file_id BIGINT NOT NULL REFERENCES %s(file_id) ON DELETE CASCADE,
				PRIMARY KEY (workspace_id, file_id)
			)`, tables.WorkspaceFiles, tables.Workspaces, tables.Files),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				parent_folder_id BIGINT NOT NULL REFERENCES %s(folder_id) ON DELETE CASCADE,
				child_folder_id BIGINT NOT NULL REFERENCES %s(folder_id) ON DELETE CASCADE,
				PRIMARY KEY (parent_folder_id, child_folder_id)
			)`, tables.FolderFolders, tables.Folders, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				folder_id BIGINT NOT NULL REFERENCES %s(folder_id) ON DELETE CASCADE,
				file_id BIGINT NOT NULL REFERENCES %s(file_id) ON DELETE CASCADE,
				PRIMARY KEY (folder_id, file_id)
			)`, tables.FolderFiles, tables.Folders, tables.Files),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
