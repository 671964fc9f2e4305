package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *SupabaseProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabaseProvider(srv.URL+"/", "anon-key", srv.Client())
}

func TestSupabaseProvider_CurrentUser(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"u@example.com","role":"authenticated"}`))
	})

	user, err := p.CurrentUser(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "user-1", Email: "u@example.com"}, user)

	_, err = p.CurrentUser(context.Background(), "bad")
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	_, err = p.CurrentUser(context.Background(), "")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestSupabaseProvider_UpstreamFailureIsNotUnauthenticated(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	_, err := p.CurrentUser(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthenticated))
	assert.Contains(t, err.Error(), "502")
}

func TestSupabaseProvider_EmptyUser(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := p.CurrentUser(context.Background(), "token")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestForConfig(t *testing.T) {
	p, err := ForConfig(config.Identity{JWTSecret: "s", URL: "https://x.supabase.co"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &JWTVerifier{}, p)

	p, err = ForConfig(config.Identity{URL: "https://x.supabase.co"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SupabaseProvider{}, p)

	_, err = ForConfig(config.Identity{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDynamic(t *testing.T) {
	token, err := NewJWTVerifier(testSecret).IssueToken(User{ID: "u-9"}, time.Hour)
	require.NoError(t, err)

	d := Dynamic{Source: config.Static(&config.Config{Identity: config.Identity{JWTSecret: testSecret}})}
	user, err := d.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.ID)

	d = Dynamic{Source: config.Static(&config.Config{})}
	_, err = d.CurrentUser(context.Background(), token)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
