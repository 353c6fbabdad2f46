package services

import (
	"context"
	"time"

	"treehouse/internal/domain/models"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Password    string    `json:"password"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	AccountType string    `json:"account_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest carries the code mailed to the user at registration
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"verification_code"`
}

// ResetForgottenPasswordRequest completes the forgotten-password flow
type ResetForgottenPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"verification_code"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest changes the password of an authenticated user
type ChangePasswordRequest struct {
	UserID      int64  `json:"-"`
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

// UserService defines registration, authentication and credential flows.
type UserService interface {
	// Register validates input, creates the user with a fresh verification
	// code, and mails the code. Returns the created user.
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)

	// Login checks credentials and returns the user on success.
	Login(ctx context.Context, req *LoginRequest) (*models.User, error)

	// VerifyEmail matches the submitted code and marks the user verified.
	VerifyEmail(ctx context.Context, req *VerifyEmailRequest) error

	// ForgetPassword stores a fresh reset code and mails it. Succeeds
	// silently for unknown emails so the endpoint doesn't leak account
	// existence.
	ForgetPassword(ctx context.Context, email string) error

	// ResetForgottenPassword checks the mailed code and replaces the
	// password.
	ResetForgottenPassword(ctx context.Context, req *ResetForgottenPasswordRequest) error

	// ChangePassword verifies the current password and replaces it.
	ChangePassword(ctx context.Context, req *ChangePasswordRequest) error

	// GetDetails returns the user record for an authenticated session.
	GetDetails(ctx context.Context, userID int64) (*models.User, error)
}
