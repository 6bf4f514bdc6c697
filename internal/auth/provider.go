package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/spec-kit/agency-admin/internal/rbac"
)

// ProviderVerifier validates a credential against the hosted identity
// provider's user-info endpoint. Any transport, status, or decode failure
// yields a nil identity so the caller falls through to the next strategy.
type ProviderVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewProviderVerifier builds the delegated verifier. An empty baseURL
// disables the strategy entirely.
func NewProviderVerifier(baseURL, apiKey string, timeout time.Duration) *ProviderVerifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ProviderVerifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type providerUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Role string `json:"role"`
	} `json:"user_metadata"`
	AppMetadata struct {
		Role     string `json:"role"`
		AgencyID string `json:"agency_id"`
	} `json:"app_metadata"`
}

// Verify implements Verifier via the provider session lookup.
func (p *ProviderVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	if p.baseURL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, nil
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, nil
	}
	if user.ID == "" {
		return nil, nil
	}

	roleClaim := user.UserMetadata.Role
	if roleClaim == "" {
		roleClaim = user.AppMetadata.Role
	}
	role := rbac.Normalize(roleClaim)
	if role == "" {
		role = rbac.DefaultRole
	}

	return &Identity{
		ID:       user.ID,
		Email:    user.Email,
		Role:     role,
		AgencyID: user.AppMetadata.AgencyID,
	}, nil
}

var _ Verifier = (*ProviderVerifier)(nil)
