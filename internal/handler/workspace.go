package handler

import (
	"log/slog"
	"net/http"

	"treehouse/internal/domain/services"
	"treehouse/internal/httputil"
)

// WorkspaceHandler handles HTTP requests for the workspace hierarchy
type WorkspaceHandler struct {
	workspaces services.WorkspaceService
	trees      services.TreeService
	gate       services.OwnerGate
	logger     *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaces services.WorkspaceService, trees services.TreeService, gate services.OwnerGate, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaces: workspaces,
		trees:      trees,
		gate:       gate,
		logger:     logger,
	}
}

// CreateWorkspace creates a workspace owned by the authenticated user
// POST /api/workspace/create-workspace
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req services.CreateWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	workspace, err := h.workspaces.CreateWorkspace(r.Context(), &req)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, workspace)
}

// CreateFolder creates a folder under a workspace or another folder
// POST /api/workspace/create-folder
func (h *WorkspaceHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	folder, err := h.workspaces.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// CreateFile creates a file under a workspace or folder
// POST /api/workspace/create-file
func (h *WorkspaceHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req services.CreateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	file, err := h.workspaces.CreateFile(r.Context(), &req)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// WorkspaceDetails returns the full nested tree rooted at a workspace.
// Ownership is checked on the root only.
// GET /api/workspace/workspace-details?id=
func (h *WorkspaceHandler) WorkspaceDetails(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseIDParam(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.gate.AuthorizeWorkspace(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(h.logger, w, err)
		return
	}

	tree, err := h.trees.ResolveWorkspaceTree(r.Context(), id)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// FolderDetails returns the full nested tree rooted at a folder
// GET /api/workspace/folder-details?id=
func (h *WorkspaceHandler) FolderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseIDParam(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.gate.AuthorizeFolder(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(h.logger, w, err)
		return
	}

	tree, err := h.trees.ResolveFolderTree(r.Context(), id)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// FileDetails returns a single file
// GET /api/workspace/file-details?id=
func (h *WorkspaceHandler) FileDetails(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseIDParam(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := h.workspaces.GetFile(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(h.logger, w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteWorkspace removes a workspace and everything beneath it
// DELETE /api/workspace/workspace?id=
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseIDParam(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workspaces.DeleteWorkspace(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteFolder removes a folder and its subtree
// DELETE /api/workspace/folder?id=
func (h *WorkspaceHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseIDParam(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workspaces.DeleteFolder(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteFile removes a single file
// DELETE /api/workspace/file?id=
func (h *WorkspaceHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseIDParam(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workspaces.DeleteFile(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
