package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
	"treehouse/internal/domain/repositories"
)

// memStore is a shared in-memory backing store for the fake repositories.
// It mirrors the dual representation of the real schema: node rows keyed by
// ID plus edge tables keyed by parent ID. Tests can wire edges directly to
// build shapes the write path would never produce, such as cycles.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	users      map[int64]*models.User
	workspaces map[int64]*models.Workspace
	folders    map[int64]*models.Folder
	files      map[int64]*models.File

	workspaceFolders map[int64][]int64
	workspaceFiles   map[int64][]int64
	folderFolders    map[int64][]int64
	folderFiles      map[int64][]int64

	// calls records repository method names in invocation order
	calls []string
}

func newMemStore() *memStore {
	return &memStore{
		users:            map[int64]*models.User{},
		workspaces:       map[int64]*models.Workspace{},
		folders:          map[int64]*models.Folder{},
		files:            map[int64]*models.File{},
		workspaceFolders: map[int64][]int64{},
		workspaceFiles:   map[int64][]int64{},
		folderFolders:    map[int64][]int64{},
		folderFiles:      map[int64][]int64{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *memStore) addUser(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = &u
	return &u
}

func (s *memStore) addWorkspace(w models.Workspace) *models.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.id()
	}
	s.workspaces[w.ID] = &w
	return &w
}

func (s *memStore) addFolder(f models.Folder) *models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		f.ID = s.id()
	}
	s.folders[f.ID] = &f
	switch f.ParentType {
	case models.ParentWorkspace:
		s.workspaceFolders[f.ParentID] = append(s.workspaceFolders[f.ParentID], f.ID)
	case models.ParentFolder:
		s.folderFolders[f.ParentID] = append(s.folderFolders[f.ParentID], f.ID)
	}
	return &f
}

func (s *memStore) addFile(f models.File) *models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		f.ID = s.id()
	}
	s.files[f.ID] = &f
	switch f.ParentType {
	case models.ParentWorkspace:
		s.workspaceFiles[f.ParentID] = append(s.workspaceFiles[f.ParentID], f.ID)
	case models.ParentFolder:
		s.folderFiles[f.ParentID] = append(s.folderFiles[f.ParentID], f.ID)
	}
	return &f
}

func sortedCopy(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// fakeUserRepo implements repositories.UserRepository over a memStore
type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.ID = r.store.id()
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("email %s: %w", email, domain.ErrNotFound)
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("username %s: %w", username, domain.ErrNotFound)
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) SetVerificationCode(ctx context.Context, id int64, code *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	user.VerificationCode = code
	return nil
}

func (r *fakeUserRepo) MarkVerified(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	user.Verified = true
	user.VerificationCode = nil
	return nil
}

func (r *fakeUserRepo) IncrementWorkspaceCount(ctx context.Context, id int64, limit int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("IncrementWorkspaceCount")
	user, ok := r.store.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if user.WorkspaceCount >= limit {
		return fmt.Errorf("user %d has %d workspaces: %w", id, user.WorkspaceCount, domain.ErrQuotaExceeded)
	}
	user.WorkspaceCount++
	return nil
}

func (r *fakeUserRepo) DecrementWorkspaceCount(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if user.WorkspaceCount > 0 {
		user.WorkspaceCount--
	}
	return nil
}

// fakeWorkspaceRepo implements repositories.WorkspaceRepository over a
// memStore. Child listings return ascending child-ID order like the real
// queries.
type fakeWorkspaceRepo struct {
	store *memStore
}

func (r *fakeWorkspaceRepo) Create(ctx context.Context, workspace *models.Workspace) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Workspace.Create")
	workspace.ID = r.store.id()
	clone := *workspace
	r.store.workspaces[workspace.ID] = &clone
	return nil
}

func (r *fakeWorkspaceRepo) GetByID(ctx context.Context, id int64) (*models.Workspace, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Workspace.GetByID")
	workspace, ok := r.store.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("workspace %d: %w", id, domain.ErrNotFound)
	}
	clone := *workspace
	return &clone, nil
}

func (r *fakeWorkspaceRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.workspaces[id]; !ok {
		return fmt.Errorf("workspace %d: %w", id, domain.ErrNotFound)
	}
	delete(r.store.workspaces, id)
	delete(r.store.workspaceFolders, id)
	delete(r.store.workspaceFiles, id)
	return nil
}

func (r *fakeWorkspaceRepo) ListChildFolders(ctx context.Context, workspaceID int64) ([]models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Workspace.ListChildFolders")
	out := []models.Folder{}
	for _, id := range sortedCopy(r.store.workspaceFolders[workspaceID]) {
		out = append(out, *r.store.folders[id])
	}
	return out, nil
}

func (r *fakeWorkspaceRepo) ListChildFiles(ctx context.Context, workspaceID int64) ([]models.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Workspace.ListChildFiles")
	out := []models.File{}
	for _, id := range sortedCopy(r.store.workspaceFiles[workspaceID]) {
		out = append(out, *r.store.files[id])
	}
	return out, nil
}

func (r *fakeWorkspaceRepo) AddFolderEdge(ctx context.Context, workspaceID, folderID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Workspace.AddFolderEdge")
	if _, ok := r.store.workspaces[workspaceID]; !ok {
		return fmt.Errorf("workspace %d: %w", workspaceID, domain.ErrNotFound)
	}
	r.store.workspaceFolders[workspaceID] = append(r.store.workspaceFolders[workspaceID], folderID)
	return nil
}

func (r *fakeWorkspaceRepo) AddFileEdge(ctx context.Context, workspaceID, fileID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Workspace.AddFileEdge")
	if _, ok := r.store.workspaces[workspaceID]; !ok {
		return fmt.Errorf("workspace %d: %w", workspaceID, domain.ErrNotFound)
	}
	r.store.workspaceFiles[workspaceID] = append(r.store.workspaceFiles[workspaceID], fileID)
	return nil
}

// fakeFolderRepo implements repositories.FolderRepository over a memStore
type fakeFolderRepo struct {
	store *memStore

	// onGet, when set, runs before each GetByID under no lock. Tests use it
	// to cancel a context mid-walk.
	onGet func(id int64)
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Folder.Create")
	folder.ID = r.store.id()
	clone := *folder
	r.store.folders[folder.ID] = &clone
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	if r.onGet != nil {
		r.onGet(id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Folder.GetByID")
	folder, ok := r.store.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}
	clone := *folder
	return &clone, nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.folders[id]; !ok {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}
	delete(r.store.folders, id)
	delete(r.store.folderFolders, id)
	delete(r.store.folderFiles, id)
	return nil
}

func (r *fakeFolderRepo) ListChildFolders(ctx context.Context, folderID int64) ([]models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Folder.ListChildFolders")
	out := []models.Folder{}
	for _, id := range sortedCopy(r.store.folderFolders[folderID]) {
		out = append(out, *r.store.folders[id])
	}
	return out, nil
}

func (r *fakeFolderRepo) ListChildFiles(ctx context.Context, folderID int64) ([]models.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Folder.ListChildFiles")
	out := []models.File{}
	for _, id := range sortedCopy(r.store.folderFiles[folderID]) {
		out = append(out, *r.store.files[id])
	}
	return out, nil
}

func (r *fakeFolderRepo) AddFolderEdge(ctx context.Context, parentFolderID, childFolderID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Folder.AddFolderEdge")
	if _, ok := r.store.folders[parentFolderID]; !ok {
		return fmt.Errorf("folder %d: %w", parentFolderID, domain.ErrNotFound)
	}
	r.store.folderFolders[parentFolderID] = append(r.store.folderFolders[parentFolderID], childFolderID)
	return nil
}

func (r *fakeFolderRepo) AddFileEdge(ctx context.Context, folderID, fileID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("Folder.AddFileEdge")
	if _, ok := r.store.folders[folderID]; !ok {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrNotFound)
	}
	r.store.folderFiles[folderID] = append(r.store.folderFiles[folderID], fileID)
	return nil
}

// fakeFileRepo implements repositories.FileRepository over a memStore
type fakeFileRepo struct {
	store *memStore
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("File.Create")
	file.ID = r.store.id()
	clone := *file
	r.store.files[file.ID] = &clone
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id int64) (*models.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	file, ok := r.store.files[id]
	if !ok {
		return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}
	clone := *file
	return &clone, nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.files[id]; !ok {
		return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}
	delete(r.store.files, id)
	return nil
}

// fakeTxManager runs the function directly; the fakes have no transactions
// to begin
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeSender captures outbound mail
type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
