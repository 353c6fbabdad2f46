package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
)

func TestOwnerGate(t *testing.T) {
	store := newMemStore()
	ws := store.addWorkspace(models.Workspace{UserID: 1, Name: "w", CreatedAt: time.Now()})
	folder := store.addFolder(models.Folder{UserID: 1, Name: "docs", ParentType: models.ParentWorkspace, ParentID: ws.ID, CreatedAt: time.Now()})
	gate := NewOwnerGate(&fakeWorkspaceRepo{store: store}, &fakeFolderRepo{store: store})

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{name: "workspace owner", run: func() error { return gate.AuthorizeWorkspace(context.Background(), 1, ws.ID) }},
		{name: "folder owner", run: func() error { return gate.AuthorizeFolder(context.Background(), 1, folder.ID) }},
		{
			name:    "workspace foreign user",
			run:     func() error { return gate.AuthorizeWorkspace(context.Background(), 2, ws.ID) },
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "folder foreign user",
			run:     func() error { return gate.AuthorizeFolder(context.Background(), 2, folder.ID) },
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "workspace missing",
			run:     func() error { return gate.AuthorizeWorkspace(context.Background(), 1, 404) },
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "folder missing",
			run:     func() error { return gate.AuthorizeFolder(context.Background(), 1, 404) },
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
