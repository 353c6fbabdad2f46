package models

import "time"

// Account tiers. The tier bounds how many workspaces a user may own.
const (
	AccountFree    = "free"
	AccountPremium = "premium"
)

type User struct {
	ID               int64     `json:"user_id" db:"user_id"`
	Username         string    `json:"username" db:"username"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	AccountType      string    `json:"account_type" db:"account_type"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	VerificationCode *string   `json:"-" db:"verification_code"`
	Verified         bool      `json:"verified" db:"verified"`
	WorkspaceCount   int       `json:"workspace_count" db:"workspace_count"`
}
