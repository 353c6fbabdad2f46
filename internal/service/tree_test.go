package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"treehouse/internal/config"
	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
)

// buildHierarchy seeds a workspace with this shape:
//
//	workspace
//	├── report.txt
//	├── docs/
//	│   ├── readme.md
//	│   └── drafts/
//	│       └── notes.txt
//	└── media/
func buildHierarchy(store *memStore) *models.Workspace {
	now := time.Now()
	ws := store.addWorkspace(models.Workspace{UserID: 1, Name: "workspace", CreatedAt: now})
	store.addFile(models.File{UserID: 1, Name: "report.txt", ParentType: models.ParentWorkspace, ParentID: ws.ID, CreatedAt: now})
	docs := store.addFolder(models.Folder{UserID: 1, Name: "docs", ParentType: models.ParentWorkspace, ParentID: ws.ID, CreatedAt: now})
	store.addFile(models.File{UserID: 1, Name: "readme.md", ParentType: models.ParentFolder, ParentID: docs.ID, CreatedAt: now})
	drafts := store.addFolder(models.Folder{UserID: 1, Name: "drafts", ParentType: models.ParentFolder, ParentID: docs.ID, CreatedAt: now})
	store.addFile(models.File{UserID: 1, Name: "notes.txt", ParentType: models.ParentFolder, ParentID: drafts.ID, CreatedAt: now})
	store.addFolder(models.Folder{UserID: 1, Name: "media", ParentType: models.ParentWorkspace, ParentID: ws.ID, CreatedAt: now})
	return ws
}

func countNodes(folders []*models.FolderTree) (folderCount, fileCount int) {
	for _, f := range folders {
		folderCount++
		fileCount += len(f.Files)
		childFolders, childFiles := countNodes(f.Folders)
		folderCount += childFolders
		fileCount += childFiles
	}
	return folderCount, fileCount
}

func folderIDs(folders []*models.FolderTree) []int64 {
	ids := make([]int64, 0, len(folders))
	for _, f := range folders {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestResolveWorkspaceTree(t *testing.T) {
	store := newMemStore()
	ws := buildHierarchy(store)
	svc := NewTreeService(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store}, discardLogger())

	tree, err := svc.ResolveWorkspaceTree(context.Background(), ws.ID)
	if err != nil {
		t.Fatalf("ResolveWorkspaceTree() error = %v", err)
	}

	if tree.ID != ws.ID {
		t.Errorf("root ID = %d, want %d", tree.ID, ws.ID)
	}
	if len(tree.Files) != 1 || tree.Files[0].Name != "report.txt" {
		t.Errorf("direct files = %+v, want [report.txt]", tree.Files)
	}

	folderCount, fileCount := countNodes(tree.Folders)
	if folderCount != 3 {
		t.Errorf("descendant folders = %d, want 3", folderCount)
	}
	if fileCount != 2 {
		t.Errorf("nested files = %d, want 2", fileCount)
	}

	if len(tree.Folders) != 2 || tree.Folders[0].Name != "docs" || tree.Folders[1].Name != "media" {
		t.Errorf("direct folders = %v, want [docs media]", folderIDs(tree.Folders))
	}
	docs := tree.Folders[0]
	if len(docs.Folders) != 1 || docs.Folders[0].Name != "drafts" {
		t.Fatalf("docs children = %v, want [drafts]", folderIDs(docs.Folders))
	}
	if len(docs.Folders[0].Files) != 1 || docs.Folders[0].Files[0].Name != "notes.txt" {
		t.Errorf("drafts files = %+v, want [notes.txt]", docs.Folders[0].Files)
	}
}

func TestResolveWorkspaceTreeEmpty(t *testing.T) {
	store := newMemStore()
	ws := store.addWorkspace(models.Workspace{UserID: 1, Name: "empty", CreatedAt: time.Now()})
	svc := NewTreeService(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store}, discardLogger())

	tree, err := svc.ResolveWorkspaceTree(context.Background(), ws.ID)
	if err != nil {
		t.Fatalf("ResolveWorkspaceTree() error = %v", err)
	}
	if tree.Files == nil || len(tree.Files) != 0 {
		t.Errorf("Files = %#v, want empty non-nil slice", tree.Files)
	}
	if tree.Folders == nil || len(tree.Folders) != 0 {
		t.Errorf("Folders = %#v, want empty non-nil slice", tree.Folders)
	}
}

// Repeated resolutions over unchanged data must list siblings in the same
// order even though subtrees resolve concurrently.
func TestResolveWorkspaceTreeStableOrder(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	ws := store.addWorkspace(models.Workspace{UserID: 1, Name: "w", CreatedAt: now})
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		store.addFolder(models.Folder{UserID: 1, Name: name, ParentType: models.ParentWorkspace, ParentID: ws.ID, CreatedAt: now})
	}
	svc := NewTreeService(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store}, discardLogger())

	first, err := svc.ResolveWorkspaceTree(context.Background(), ws.ID)
	if err != nil {
		t.Fatalf("ResolveWorkspaceTree() error = %v", err)
	}

	prev := folderIDs(first.Folders)
	for i := 1; i < len(prev); i++ {
		if prev[i-1] >= prev[i] {
			t.Fatalf("sibling order not ascending: %v", prev)
		}
	}

	for run := 0; run < 10; run++ {
		tree, err := svc.ResolveWorkspaceTree(context.Background(), ws.ID)
		if err != nil {
			t.Fatalf("run %d: ResolveWorkspaceTree() error = %v", run, err)
		}
		got := folderIDs(tree.Folders)
		for i := range prev {
			if got[i] != prev[i] {
				t.Fatalf("run %d: order changed from %v to %v", run, prev, got)
			}
		}
	}
}

// A missing root must fail with ErrNotFound before any child listing runs.
func TestResolveWorkspaceTreeNotFound(t *testing.T) {
	store := newMemStore()
	svc := NewTreeService(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store}, discardLogger())

	_, err := svc.ResolveWorkspaceTree(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	for _, call := range store.calls {
		if call == "Workspace.ListChildFolders" || call == "Workspace.ListChildFiles" {
			t.Errorf("child listing %s ran after missing root", call)
		}
	}
}

func TestResolveFolderTreeCycle(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		wire func(store *memStore) int64
	}{
		{
			name: "self cycle",
			wire: func(store *memStore) int64 {
				a := store.addFolder(models.Folder{UserID: 1, Name: "a", ParentType: models.ParentFolder, ParentID: 99, CreatedAt: now})
				store.folderFolders[a.ID] = append(store.folderFolders[a.ID], a.ID)
				return a.ID
			},
		},
		{
			name: "two folder cycle",
			wire: func(store *memStore) int64 {
				a := store.addFolder(models.Folder{UserID: 1, Name: "a", ParentType: models.ParentFolder, ParentID: 99, CreatedAt: now})
				b := store.addFolder(models.Folder{UserID: 1, Name: "b", ParentType: models.ParentFolder, ParentID: a.ID, CreatedAt: now})
				store.folderFolders[b.ID] = append(store.folderFolders[b.ID], a.ID)
				return a.ID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			rootID := tt.wire(store)
			svc := NewTreeService(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store}, discardLogger())

			_, err := svc.ResolveFolderTree(context.Background(), rootID)
			if !errors.Is(err, domain.ErrCyclicHierarchy) {
				t.Fatalf("error = %v, want ErrCyclicHierarchy", err)
			}
		})
	}
}

func TestResolveFolderTreeDepthGuard(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	root := store.addFolder(models.Folder{UserID: 1, Name: "f0", ParentType: models.ParentWorkspace, ParentID: 1, CreatedAt: now})
	parent := root
	for i := 1; i <= config.MaxTreeDepth; i++ {
		parent = store.addFolder(models.Folder{UserID: 1, Name: "f", ParentType: models.ParentFolder, ParentID: parent.ID, CreatedAt: now})
	}
	svc := NewTreeService(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store}, discardLogger())

	_, err := svc.ResolveFolderTree(context.Background(), root.ID)
	if !errors.Is(err, domain.ErrCyclicHierarchy) {
		t.Fatalf("error = %v, want ErrCyclicHierarchy", err)
	}
}

// Deep sibling duplication is legal: the same folder may appear under two
// different parents without being its own ancestor. Only path repetition
// is a cycle.
func TestResolveFolderTreeSharedChild(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	root := store.addFolder(models.Folder{UserID: 1, Name: "root", ParentType: models.ParentWorkspace, ParentID: 1, CreatedAt: now})
	left := store.addFolder(models.Folder{UserID: 1, Name: "left", ParentType: models.ParentFolder, ParentID: root.ID, CreatedAt: now})
	shared := store.addFolder(models.Folder{UserID: 1, Name: "shared", ParentType: models.ParentFolder, ParentID: left.ID, CreatedAt: now})
	// second edge to the same child from the root
	store.folderFolders[root.ID] = append(store.folderFolders[root.ID], shared.ID)

	svc := NewTreeService(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store}, discardLogger())

	tree, err := svc.ResolveFolderTree(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("ResolveFolderTree() error = %v", err)
	}
	folderCount, _ := countNodes(tree.Folders)
	if folderCount != 3 {
		t.Errorf("descendant folders = %d, want 3 (shared counted twice)", folderCount)
	}
}

func TestResolveWorkspaceTreeCancelled(t *testing.T) {
	t.Run("before the walk", func(t *testing.T) {
		store := newMemStore()
		ws := buildHierarchy(store)
		svc := NewTreeService(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store}, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.ResolveWorkspaceTree(ctx, ws.ID)
		if !errors.Is(err, domain.ErrCancelled) {
			t.Fatalf("error = %v, want ErrCancelled", err)
		}
	})

	t.Run("mid walk", func(t *testing.T) {
		store := newMemStore()
		ws := buildHierarchy(store)
		ctx, cancel := context.WithCancel(context.Background())
		folderRepo := &fakeFolderRepo{store: store, onGet: func(int64) { cancel() }}
		svc := NewTreeService(&fakeWorkspaceRepo{store: store}, folderRepo, discardLogger())

		_, err := svc.ResolveWorkspaceTree(ctx, ws.ID)
		if !errors.Is(err, domain.ErrCancelled) {
			t.Fatalf("error = %v, want ErrCancelled", err)
		}
	})
}
