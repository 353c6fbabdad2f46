package repositories

import (
	"context"

	"treehouse/internal/domain/models"
)

// UserRepository persists user records and their credential/verification
// fields.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetVerificationCode(ctx context.Context, id int64, code *string) error
	MarkVerified(ctx context.Context, id int64) error

	// IncrementWorkspaceCount bumps the user's workspace counter only while
	// it stays below limit. Returns domain.ErrQuotaExceeded when the guard
	// rejects the increment, so callers fail closed before creating a
	// workspace. Participates in a context-carried transaction when present.
	IncrementWorkspaceCount(ctx context.Context, id int64, limit int) error
	DecrementWorkspaceCount(ctx context.Context, id int64) error
}
