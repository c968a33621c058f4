package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCProvider verifies ID tokens from an external issuer and uses the
// subject claim as the owner id.
type OIDCProvider struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCProvider(ctx context.Context, issuer, clientID string) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider %s: %w", issuer, err)
	}
	return &OIDCProvider{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func NewOIDCProviderWithVerifier(verifier *oidc.IDTokenVerifier) *OIDCProvider {
	return &OIDCProvider{verifier: verifier}
}

func (p *OIDCProvider) Identify(ctx context.Context, token string) (string, error) {
	idToken, err := p.verifier.Verify(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if idToken.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return idToken.Subject, nil
}
