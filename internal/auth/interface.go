package auth

// TokenManager issues and verifies the opaque session tokens carried in the
// session cookie. Handlers only ever see the resolved user ID, never the raw
// token contents.
type TokenManager interface {
	// IssueToken returns a signed session token for the user.
	IssueToken(userID int64) (string, error)

	// VerifyToken validates a session token and returns the user ID it was
	// issued for. Returns domain.ErrUnauthorized for anything invalid or
	// expired.
	VerifyToken(token string) (int64, error)
}
