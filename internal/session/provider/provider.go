// Package provider abstracts the interchangeable authentication providers
// behind one capability: given provider-specific credentials, obtain a
// normalized profile or fail. The session manager is the only caller; nothing
// outside it may depend on which provider produced an identity.
package provider

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Provider

import (
	"context"

	"github.com/rafaeld3v/gofinances/internal/session/models"
)

// Known provider keys.
const (
	KeyGoogle   = "google"
	KeyApple    = "apple"
	KeyPassword = "password"
)

// Credentials carries the provider-specific sign-in input. Exactly the
// fields the chosen provider needs are set; the rest stay empty.
type Credentials struct {
	// AccessToken is the token returned by an OAuth redirect callback.
	AccessToken string
	// Email and Password feed the password provider.
	Email    string
	Password string
}

// Provider converts credentials into a normalized identity. Implementations
// must return a coded error (CodeProviderFailure or CodeProviderCancelled)
// for every failure mode, including a provider call that "succeeds" but
// yields no usable credential.
type Provider interface {
	// Key names the provider in records, tokens and audit events.
	Key() string

	// Authenticate resolves credentials into an identity with a non-empty ID.
	Authenticate(ctx context.Context, creds Credentials) (models.Identity, error)
}

// SessionRevoker is implemented by providers with provider-side sign-out.
// Revocation failures are logged by the caller, never surfaced: local
// sign-out must stay self-consistent even when the remote state is not.
type SessionRevoker interface {
	RevokeSession(ctx context.Context) error
}

// Registry resolves provider keys to configured providers.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	byKey := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byKey[p.Key()] = p
	}
	return &Registry{providers: byKey}
}

// Get returns the provider registered under key.
func (r *Registry) Get(key string) (Provider, bool) {
	p, ok := r.providers[key]
	return p, ok
}
