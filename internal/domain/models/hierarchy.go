package models

import "time"

// Parent types a folder or file can point at. Folders and files record their
// parent twice: on the row itself (ParentType/ParentID) and as a join-table
// edge row. Both are written by one transactional write path so they can
// never disagree.
const (
	ParentWorkspace = "workspace"
	ParentFolder    = "folder"
)

type Workspace struct {
	ID        int64     `json:"workspace_id" db:"workspace_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"workspace_name" db:"workspace_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Folder struct {
	ID         int64     `json:"folder_id" db:"folder_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Name       string    `json:"folder_name" db:"folder_name"`
	ParentType string    `json:"parent_type" db:"parent_type"`
	ParentID   int64     `json:"parent_id" db:"parent_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// File is always a leaf; it has the same parent-reference shape as Folder
// but never has children of its own.
type File struct {
	ID         int64     `json:"file_id" db:"file_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Name       string    `json:"file_name" db:"file_name"`
	ParentType string    `json:"parent_type" db:"parent_type"`
	ParentID   int64     `json:"parent_id" db:"parent_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
