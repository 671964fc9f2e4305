package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userPath = "/auth/v1/user"

// SupabaseProvider asks the provider's user endpoint who a token belongs to.
type SupabaseProvider struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewSupabaseProvider creates a provider for the project at baseURL.
func NewSupabaseProvider(baseURL, anonKey string, client *http.Client) *SupabaseProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SupabaseProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  client,
	}
}

// CurrentUser implements Provider.
func (p *SupabaseProvider) CurrentUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, unauthenticated("missing token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+userPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if p.anonKey != "" {
		req.Header.Set("apikey", p.anonKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, unauthenticated(fmt.Sprintf("provider returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if user.ID == "" {
		return nil, unauthenticated("no user for token")
	}
	return &user, nil
}
