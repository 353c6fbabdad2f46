package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"treehouse/internal/config"
	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
	"treehouse/internal/domain/repositories"
	"treehouse/internal/domain/services"
)

// workspaceService implements the WorkspaceService interface. It owns the
// only write path into the hierarchy: a folder or file row and its matching
// edge row are always written inside one transaction, keeping the child's
// parent pointer and the parent's edge row in agreement.
type workspaceService struct {
	userRepo      repositories.UserRepository
	workspaceRepo repositories.WorkspaceRepository
	folderRepo    repositories.FolderRepository
	fileRepo      repositories.FileRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	userRepo repositories.UserRepository,
	workspaceRepo repositories.WorkspaceRepository,
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.WorkspaceService {
	return &workspaceService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
		folderRepo:    folderRepo,
		fileRepo:      fileRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// CreateWorkspace creates a workspace for the user, enforcing the account
// tier's quota. The guarded counter increment and the insert share one
// transaction: if either fails, neither sticks.
func (s *workspaceService) CreateWorkspace(ctx context.Context, req *services.CreateWorkspaceRequest) (*models.Workspace, error) {
	if err := validateCreateWorkspaceRequest(req); err != nil {
		return nil, wrapValidation(err)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	limit := config.FreeWorkspaceLimit
	if user.AccountType == models.AccountPremium {
		limit = config.PremiumWorkspaceLimit
	}

	workspace := &models.Workspace{
		UserID:    req.UserID,
		Name:      req.Name,
		CreatedAt: req.CreatedAt,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.IncrementWorkspaceCount(txCtx, req.UserID, limit); err != nil {
			return err
		}
		return s.workspaceRepo.Create(txCtx, workspace)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workspace created",
		"workspace_id", workspace.ID,
		"user_id", req.UserID,
	)

	return workspace, nil
}

// CreateFolder creates a folder under the claimed parent, writing the folder
// row and its edge row in one transaction.
func (s *workspaceService) CreateFolder(ctx context.Context, req *services.CreateNodeRequest) (*models.Folder, error) {
	if err := validateCreateNodeRequest(req); err != nil {
		return nil, wrapValidation(err)
	}

	if err := s.authorizeParent(ctx, req.UserID, req.ParentType, req.ParentID); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		UserID:     req.UserID,
		Name:       req.Name,
		ParentType: req.ParentType,
		ParentID:   req.ParentID,
		CreatedAt:  req.CreatedAt,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.Create(txCtx, folder); err != nil {
			return err
		}
		if req.ParentType == models.ParentWorkspace {
			return s.workspaceRepo.AddFolderEdge(txCtx, req.ParentID, folder.ID)
		}
		return s.folderRepo.AddFolderEdge(txCtx, req.ParentID, folder.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"parent_type", req.ParentType,
		"parent_id", req.ParentID,
		"user_id", req.UserID,
	)

	return folder, nil
}

// CreateFile creates a file under the claimed parent, writing the file row
// and its edge row in one transaction.
func (s *workspaceService) CreateFile(ctx context.Context, req *services.CreateNodeRequest) (*models.File, error) {
	if err := validateCreateNodeRequest(req); err != nil {
		return nil, wrapValidation(err)
	}

	if err := s.authorizeParent(ctx, req.UserID, req.ParentType, req.ParentID); err != nil {
		return nil, err
	}

	file := &models.File{
		UserID:     req.UserID,
		Name:       req.Name,
		ParentType: req.ParentType,
		ParentID:   req.ParentID,
		CreatedAt:  req.CreatedAt,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.fileRepo.Create(txCtx, file); err != nil {
			return err
		}
		if req.ParentType == models.ParentWorkspace {
			return s.workspaceRepo.AddFileEdge(txCtx, req.ParentID, file.ID)
		}
		return s.folderRepo.AddFileEdge(txCtx, req.ParentID, file.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file created",
		"file_id", file.ID,
		"parent_type", req.ParentType,
		"parent_id", req.ParentID,
		"user_id", req.UserID,
	)

	return file, nil
}

// GetFile returns a file after checking the requester owns it
func (s *workspaceService) GetFile(ctx context.Context, userID, fileID int64) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.UserID != userID {
		return nil, fmt.Errorf("file %d: %w", fileID, domain.ErrForbidden)
	}
	return file, nil
}

// DeleteWorkspace removes a workspace and gives the quota slot back in the
// same transaction
func (s *workspaceService) DeleteWorkspace(ctx context.Context, userID, workspaceID int64) error {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace.UserID != userID {
		return fmt.Errorf("workspace %d: %w", workspaceID, domain.ErrForbidden)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.workspaceRepo.Delete(txCtx, workspaceID); err != nil {
			return err
		}
		return s.userRepo.DecrementWorkspaceCount(txCtx, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("workspace deleted", "workspace_id", workspaceID, "user_id", userID)
	return nil
}

// DeleteFolder removes a folder; edge rows cascade
func (s *workspaceService) DeleteFolder(ctx context.Context, userID, folderID int64) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.UserID != userID {
		return fmt.Errorf("folder %d: %w", folderID, domain.ErrForbidden)
	}

	if err := s.folderRepo.Delete(ctx, folderID); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "folder_id", folderID, "user_id", userID)
	return nil
}

// DeleteFile removes a file; edge rows cascade
func (s *workspaceService) DeleteFile(ctx context.Context, userID, fileID int64) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.UserID != userID {
		return fmt.Errorf("file %d: %w", fileID, domain.ErrForbidden)
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}

	s.logger.Info("file deleted", "file_id", fileID, "user_id", userID)
	return nil
}

// authorizeParent verifies the claimed parent exists and belongs to the
// requester. Only this direct parent is checked; ancestors above it are not
// re-verified.
func (s *workspaceService) authorizeParent(ctx context.Context, userID int64, parentType string, parentID int64) error {
	switch parentType {
	case models.ParentWorkspace:
		parent, err := s.workspaceRepo.GetByID(ctx, parentID)
		if err != nil {
			return err
		}
		if parent.UserID != userID {
			return fmt.Errorf("workspace %d: %w", parentID, domain.ErrForbidden)
		}
	case models.ParentFolder:
		parent, err := s.folderRepo.GetByID(ctx, parentID)
		if err != nil {
			return err
		}
		if parent.UserID != userID {
			return fmt.Errorf("folder %d: %w", parentID, domain.ErrForbidden)
		}
	default:
		return fmt.Errorf("invalid parent type %q: %w", parentType, domain.ErrValidation)
	}
	return nil
}

// Validation methods

func validateCreateWorkspaceRequest(req *services.CreateWorkspaceRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxWorkspaceNameLength),
		),
		validation.Field(&req.CreatedAt, validation.Required),
	)
}

func validateCreateNodeRequest(req *services.CreateNodeRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxNodeNameLength),
		),
		validation.Field(&req.ParentID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.ParentType,
			validation.Required,
			validation.In(models.ParentWorkspace, models.ParentFolder),
		),
		validation.Field(&req.CreatedAt, validation.Required),
	)
}

// wrapValidation tags a validator failure with the domain sentinel so the
// handler layer can map it to a 400.
func wrapValidation(err error) error {
	return fmt.Errorf("%v: %w", err, domain.ErrValidation)
}
