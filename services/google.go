package services

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"taskmanager/model"
)

const googleIssuer = "https://accounts.google.com"

// ExternalIdentity is what a verified sign-in provider vouches for.
type ExternalIdentity struct {
	Email   string
	Name    string
	Picture string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*ExternalIdentity, error)
}

type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier fetches Google's discovery document once; keys are
// refreshed by the verifier as needed.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover google provider: %w", err)
	}
	return &GoogleVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func (g *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*ExternalIdentity, error) {
	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, model.Unauthorized("Invalid Google ID token")
	}
	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode google claims: %w", err)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, model.Unauthorized("Google account email is not verified")
	}
	return &ExternalIdentity{Email: claims.Email, Name: claims.Name, Picture: claims.Picture}, nil
}
