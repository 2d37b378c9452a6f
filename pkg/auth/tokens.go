package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenGenerator abstracts session token creation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}

// ResetTokenStore holds one-time password reset tokens with a TTL.
type ResetTokenStore interface {
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	// Consume returns the user the token was minted for and invalidates it.
	// An unknown or expired token yields ErrInvalidResetToken.
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}
