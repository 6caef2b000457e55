package ports

import "context"

// TokenStore defines the interface for durable session token persistence.
// The token is the only durable piece of client state; absence means
// logged out.
type TokenStore interface {
	// Load returns the persisted token, or "" when none is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
