package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"treehouse/internal/config"
	"treehouse/internal/domain"
)

// HMACTokenManager implements TokenManager with HMAC-SHA256 signed JWTs.
// Tokens are first-party: this service both issues and verifies them with
// the same shared secret.
type HMACTokenManager struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewTokenManager creates a token manager signing with the given secret.
func NewTokenManager(secret string, logger *slog.Logger) (*HMACTokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}

	return &HMACTokenManager{
		secret: []byte(secret),
		ttl:    config.SessionTokenTTL,
		logger: logger,
	}, nil
}

// IssueToken returns a signed session token for the user
func (m *HMACTokenManager) IssueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates a session token and extracts the user ID.
func (m *HMACTokenManager) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks - only HS256 is ever issued
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		m.logger.Debug("token parse failed", "error", err)
		return 0, domain.ErrUnauthorized
	}

	if !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		m.logger.Debug("token subject is not a user id", "subject", claims.Subject)
		return 0, domain.ErrUnauthorized
	}

	return userID, nil
}
