package auth

import (
	"context"

	"github.com/spec-kit/agency-admin/internal/rbac"
)

// Identity is the uniform principal shape produced by every verification
// strategy. Callers never learn which strategy succeeded.
type Identity struct {
	ID       string
	Email    string
	Role     rbac.Role
	AgencyID string
}

// Verifier validates a bearer credential. A nil Identity with a nil error
// means the credential did not verify; a non-nil error is reserved for
// unexpected transport failures, which callers must also treat as
// unauthenticated.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// ChainVerifier tries each strategy in order and returns the first
// confirmed identity. Strategies run sequentially: the fallback must not
// race ahead of a successful primary verification.
type ChainVerifier struct {
	strategies []Verifier
}

// NewChainVerifier builds the ordered verifier.
func NewChainVerifier(strategies ...Verifier) *ChainVerifier {
	return &ChainVerifier{strategies: strategies}
}

// Verify runs the strategies in order, failing closed.
func (c *ChainVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	if credential == "" {
		return nil, nil
	}
	for _, strategy := range c.strategies {
		identity, err := strategy.Verify(ctx, credential)
		if err != nil {
			continue
		}
		if identity != nil {
			return identity, nil
		}
	}
	return nil, nil
}
