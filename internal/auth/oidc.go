package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"job-finder/internal/domain"
)

// IdentityProvider is the external login collaborator.
type IdentityProvider interface {
	// AuthCodeURL is where the browser is sent to log in. nonce is echoed
	// back inside the ID token.
	AuthCodeURL(state, nonce string) string
	// Exchange trades an authorization code for the verified identity and
	// rejects ID tokens not bound to nonce.
	Exchange(ctx context.Context, code, nonce string) (domain.Identity, error)
	// LogoutURL ends the provider session and returns to returnTo.
	LogoutURL(returnTo string) string
}

// OIDCConfig describes the relying party registration.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	// BaseURL is the public URL of this service; the callback is BaseURL/callback.
	BaseURL string
}

type OIDCProvider struct {
	oauth      oauth2.Config
	verifier   *oidc.IDTokenVerifier
	endSession string
}

type idTokenClaims struct {
	Subject    string `json:"sub"`
	Name       string `json:"name"`
	Nickname   string `json:"nickname"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
	Profession string `json:"profession"`
}

// NewOIDCProvider discovers the issuer configuration.
func NewOIDCProvider(ctx context.Context, cfg OIDCConfig) (*OIDCProvider, error) {
	if cfg.Issuer == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("oidc issuer and client id are required")
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc issuer: %w", err)
	}

	var meta struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("read provider metadata: %w", err)
	}

	return &OIDCProvider{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  strings.TrimSuffix(cfg.BaseURL, "/") + "/callback",
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier:   provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		endSession: meta.EndSessionEndpoint,
	}, nil
}

// ErrNonceMismatch means the ID token was not issued for this login attempt.
var ErrNonceMismatch = errors.New("id token nonce mismatch")

func (p *OIDCProvider) AuthCodeURL(state, nonce string) string {
	return p.oauth.AuthCodeURL(state, oidc.Nonce(nonce))
}

func (p *OIDCProvider) Exchange(ctx context.Context, code, nonce string) (domain.Identity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("exchange code: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return domain.Identity{}, errors.New("token response carries no id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("verify id token: %w", err)
	}
	if err := checkNonce(idToken.Nonce, nonce); err != nil {
		return domain.Identity{}, err
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return domain.Identity{}, fmt.Errorf("decode id token claims: %w", err)
	}
	name := claims.Name
	if name == "" {
		name = claims.Nickname
	}
	return domain.Identity{
		Subject:    idToken.Subject,
		Name:       name,
		Email:      claims.Email,
		Picture:    claims.Picture,
		Profession: claims.Profession,
	}, nil
}

func checkNonce(got, want string) error {
	if want == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return ErrNonceMismatch
	}
	return nil
}

func (p *OIDCProvider) LogoutURL(returnTo string) string {
	if p.endSession == "" {
		return returnTo
	}
	u, err := url.Parse(p.endSession)
	if err != nil {
		return returnTo
	}
	q := u.Query()
	q.Set("client_id", p.oauth.ClientID)
	if returnTo != "" {
		q.Set("post_logout_redirect_uri", returnTo)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

var _ IdentityProvider = (*OIDCProvider)(nil)
