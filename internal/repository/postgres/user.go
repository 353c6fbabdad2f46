package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"treehouse/internal/domain"
	"treehouse/internal/domain/models"
	"treehouse/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const userColumns = `user_id, username, first_name, last_name, password_hash, email, phone, account_type, created_at, verification_code, verified, workspace_count`

func scanUser(row interface{ Scan(...interface{}) error }, user *models.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Email,
		&user.Phone,
		&user.AccountType,
		&user.CreatedAt,
		&user.VerificationCode,
		&user.Verified,
		&user.WorkspaceCount,
	)
}

// Create inserts a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, first_name, last_name, password_hash, email, phone, account_type, created_at, verification_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING user_id, created_at
	`, r.tables.Users)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Email,
		user.Phone,
		user.AccountType,
		user.CreatedAt,
		user.VerificationCode,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("user '%s': %w", user.Username, domain.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1`, userColumns, r.tables.Users)

	var user models.User
	err := scanUser(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &user)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1`, userColumns, r.tables.Users)

	var user models.User
	err := scanUser(GetExecutor(ctx, r.pool).QueryRow(ctx, query, email), &user)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE username = $1`, userColumns, r.tables.Users)

	var user models.User
	err := scanUser(GetExecutor(ctx, r.pool).QueryRow(ctx, query, username), &user)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &user, nil
}

// UpdatePassword replaces the user's password hash
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET password_hash = $1 WHERE user_id = $2`, r.tables.Users)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetVerificationCode stores (or clears, with nil) the user's code
func (r *PostgresUserRepository) SetVerificationCode(ctx context.Context, id int64, code *string) error {
	query := fmt.Sprintf(`UPDATE %s SET verification_code = $1 WHERE user_id = $2`, r.tables.Users)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, code, id)
	if err != nil {
		return fmt.Errorf("set verification code: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// MarkVerified flags the user as verified and clears the pending code
func (r *PostgresUserRepository) MarkVerified(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET verified = TRUE, verification_code = NULL WHERE user_id = $1`, r.tables.Users)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// IncrementWorkspaceCount bumps the counter only while it stays below limit.
// The WHERE guard makes the increment fail closed: zero rows affected means
// the tier limit would be exceeded and nothing was changed.
func (r *PostgresUserRepository) IncrementWorkspaceCount(ctx context.Context, id int64, limit int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET workspace_count = workspace_count + 1
		WHERE user_id = $1 AND workspace_count < $2
	`, r.tables.Users)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, limit)
	if err != nil {
		return fmt.Errorf("increment workspace count: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d at limit %d: %w", id, limit, domain.ErrQuotaExceeded)
	}

	return nil
}

// DecrementWorkspaceCount lowers the counter, never below zero
func (r *PostgresUserRepository) DecrementWorkspaceCount(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET workspace_count = workspace_count - 1
		WHERE user_id = $1 AND workspace_count > 0
	`, r.tables.Users)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("decrement workspace count: %w", err)
	}

	return nil
}
