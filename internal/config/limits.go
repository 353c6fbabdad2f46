package config

import "time"

const (
	// FreeWorkspaceLimit is the maximum number of workspaces a free-tier
	// account may own.
	FreeWorkspaceLimit = 1

	// PremiumWorkspaceLimit is the maximum number of workspaces a
	// premium-tier account may own.
	PremiumWorkspaceLimit = 3

	// MaxTreeDepth bounds folder-tree recursion. Folder edges are mutable
	// rows, not a language-enforced tree, so depth is capped to turn a bad
	// edge table into a clean error instead of resource exhaustion. Also the
	// sizing bound for the ancestor set carried down each path.
	MaxTreeDepth = 64

	// TreeChildConcurrency caps how many sibling folder subtrees resolve in
	// parallel during a tree walk.
	TreeChildConcurrency = 4

	// MaxWorkspaceNameLength is the maximum length for workspace names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxWorkspaceNameLength = 255

	// MaxNodeNameLength is the maximum length for folder and file names.
	MaxNodeNameLength = 255

	// SessionTokenTTL is how long an issued session token stays valid.
	// Matches the 15-day cookie lifetime of the original service.
	SessionTokenTTL = 15 * 24 * time.Hour

	// VerificationCodeLength is the number of digits in email verification
	// and password-reset codes.
	VerificationCodeLength = 6
)
