package models

// WorkspaceTree is the fully materialized descendant tree rooted at a
// workspace. The workspace's own fields sit inline; Files and Folders hold
// its direct children, each FolderTree itself fully resolved.
type WorkspaceTree struct {
	Workspace
	Files   []File        `json:"workspace_files"`
	Folders []*FolderTree `json:"workspace_folders"`
}

// FolderTree is the fully materialized descendant tree rooted at a folder.
// Pointers for the nested folders so subtrees nest without copying.
type FolderTree struct {
	Folder
	Files   []File        `json:"folder_files"`
	Folders []*FolderTree `json:"folder_folders"`
}
