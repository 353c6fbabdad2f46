package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"

	"treehouse/internal/config"
	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
	"treehouse/internal/domain/repositories"
	"treehouse/internal/domain/services"
	"treehouse/internal/email"
)

// Input shapes carried over from the original service: alphanumeric
// usernames, +CC then ten digits for phones, letters-and-digits passwords of
// at least eight characters.
var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{5,255}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex    = regexp.MustCompile(`^\+\d{2}\d{10}$`)
	passwordRegex = regexp.MustCompile(`^[A-Za-z\d]{8,255}$`)

	errWeakPassword = errors.New("must be 8-255 letters and digits with at least one of each")
)

// validPassword enforces the original composition rule: letters and digits
// only, at least one of each. RE2 has no lookaheads, so the two containment
// checks are explicit.
func validPassword(password string) bool {
	if !passwordRegex.MatchString(password) {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasLetter = true
		}
	}
	return hasLetter && hasDigit
}

// passwordRule adapts validPassword for ozzo struct validation
var passwordRule = validation.By(func(value interface{}) error {
	password, _ := value.(string)
	if !validPassword(password) {
		return errWeakPassword
	}
	return nil
})

// userService implements the UserService interface
type userService struct {
	userRepo repositories.UserRepository
	sender   email.Sender
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	sender email.Sender,
	logger *slog.Logger,
) services.UserService {
	return &userService{
		userRepo: userRepo,
		sender:   sender,
		logger:   logger,
	}
}

// Register validates input, creates the user with a fresh verification code,
// and mails the code. Email delivery is best-effort: a failed send is logged
// and the user can request a new code later.
func (s *userService) Register(ctx context.Context, req *services.RegisterRequest) (*models.User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, wrapValidation(err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email %s: %w", req.Email, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username %s: %w", req.Username, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	user := &models.User{
		Username:         req.Username,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		PasswordHash:     string(hash),
		Email:            req.Email,
		Phone:            req.Phone,
		AccountType:      req.AccountType,
		CreatedAt:        req.CreatedAt,
		VerificationCode: &code,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	subject, body := email.VerificationEmail(code)
	if err := s.sender.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Warn("verification email failed",
			"user_id", user.ID,
			"error", err,
		)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks credentials; wrong email and wrong password report the same
// unauthorized error.
func (s *userService) Login(ctx context.Context, req *services.LoginRequest) (*models.User, error) {
	if err := validateLoginRequest(req); err != nil {
		return nil, wrapValidation(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	return user, nil
}

// VerifyEmail matches the submitted code and marks the user verified
func (s *userService) VerifyEmail(ctx context.Context, req *services.VerifyEmailRequest) error {
	if req.Email == "" || req.Code == "" {
		return fmt.Errorf("email and verification code are required: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.VerificationCode == nil || *user.VerificationCode != req.Code {
		return fmt.Errorf("verification code mismatch: %w", domain.ErrValidation)
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info("user verified", "user_id", user.ID)
	return nil
}

// ForgetPassword stores a fresh reset code and mails it. Unknown emails
// succeed silently so the endpoint doesn't reveal which addresses have
// accounts.
func (s *userService) ForgetPassword(ctx context.Context, emailAddr string) error {
	if emailAddr == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	if err := s.userRepo.SetVerificationCode(ctx, user.ID, &code); err != nil {
		return err
	}

	subject, body := email.PasswordResetEmail(code)
	if err := s.sender.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Warn("reset email failed", "user_id", user.ID, "error", err)
	}

	return nil
}

// ResetForgottenPassword checks the mailed code and replaces the password
func (s *userService) ResetForgottenPassword(ctx context.Context, req *services.ResetForgottenPasswordRequest) error {
	if req.Email == "" || req.Code == "" {
		return fmt.Errorf("email and verification code are required: %w", domain.ErrValidation)
	}
	if !validPassword(req.NewPassword) {
		return fmt.Errorf("invalid new password: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.VerificationCode == nil || *user.VerificationCode != req.Code {
		return fmt.Errorf("reset code mismatch: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.userRepo.SetVerificationCode(ctx, user.ID, nil); err != nil {
		return err
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

// ChangePassword verifies the current password and replaces it
func (s *userService) ChangePassword(ctx context.Context, req *services.ChangePasswordRequest) error {
	if !validPassword(req.NewPassword) {
		return fmt.Errorf("invalid new password: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}

// GetDetails returns the user record for an authenticated session
func (s *userService) GetDetails(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// generateCode produces a random zero-padded numeric code
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < config.VerificationCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", config.VerificationCodeLength, n), nil
}

// Validation methods

func validateRegisterRequest(req *services.RegisterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required, validation.Match(usernameRegex)),
		validation.Field(&req.FirstName, validation.Required),
		validation.Field(&req.LastName, validation.Required),
		validation.Field(&req.Password, validation.Required, passwordRule),
		validation.Field(&req.Email, validation.Required, validation.Match(emailRegex)),
		validation.Field(&req.Phone, validation.Required, validation.Match(phoneRegex)),
		validation.Field(&req.AccountType,
			validation.Required,
			validation.In(models.AccountFree, models.AccountPremium),
		),
		validation.Field(&req.CreatedAt, validation.Required),
	)
}

func validateLoginRequest(req *services.LoginRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, validation.Match(emailRegex)),
		validation.Field(&req.Password, validation.Required),
	)
}
