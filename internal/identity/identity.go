// Package identity resolves access tokens to users through the external identity provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-counselor/internal/config"
)

// ErrUnauthenticated means the caller has no valid session. It is terminal.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrNotConfigured means no identity provider settings are present.
var ErrNotConfigured = errors.New("identity provider not configured")

// User is an authenticated caller.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Provider resolves an access token to the user it was issued for.
type Provider interface {
	CurrentUser(ctx context.Context, token string) (*User, error)
}

// ForConfig returns the provider selected by cfg: local JWT verification when
// a secret is present, otherwise the provider's user endpoint.
func ForConfig(cfg config.Identity, client *http.Client) (Provider, error) {
	switch {
	case cfg.UsesLocalJWT():
		return NewJWTVerifier(cfg.JWTSecret), nil
	case cfg.URL != "":
		return NewSupabaseProvider(cfg.URL, cfg.AnonKey, client), nil
	default:
		return nil, ErrNotConfigured
	}
}

// Dynamic picks a provider from configuration read on every call.
type Dynamic struct {
	Source config.Source
	Client *http.Client
}

// CurrentUser implements Provider.
func (d Dynamic) CurrentUser(ctx context.Context, token string) (*User, error) {
	cfg, err := d.Source()
	if err != nil {
		return nil, fmt.Errorf("failed to load identity configuration: %w", err)
	}
	p, err := ForConfig(cfg.Identity, d.Client)
	if err != nil {
		return nil, err
	}
	return p.CurrentUser(ctx, token)
}

func unauthenticated(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, reason)
}
