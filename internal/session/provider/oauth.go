package provider

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/rafaeld3v/gofinances/internal/session/models"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
)

// ErrFlowCancelled is what the redirect layer reports when the user abandons
// the consent screen. Mapped to CodeProviderCancelled, never to a successful
// absent identity.
var ErrFlowCancelled = errors.New("oauth flow cancelled by user")

// UserinfoFetcher exchanges a redirect-callback access token for the
// provider's profile fields. The production implementation calls the Google
// userinfo endpoint; tests substitute a local one.
type UserinfoFetcher interface {
	Fetch(ctx context.Context, accessToken string) (*googleoauth.Userinfo, error)
}

// googleUserinfoFetcher hits the real userinfo endpoint with a static token
// source built from the callback token.
type googleUserinfoFetcher struct{}

func (googleUserinfoFetcher) Fetch(ctx context.Context, accessToken string) (*googleoauth.Userinfo, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, err
	}
	return svc.Userinfo.Get().Context(ctx).Do()
}

// OAuthProvider implements the redirect flow: the caller completes the
// browser dance and hands over the callback access token; the provider
// exchanges it for identity fields.
type OAuthProvider struct {
	fetcher  UserinfoFetcher
	clientID string
}

func NewOAuthProvider(clientID string) *OAuthProvider {
	return &OAuthProvider{fetcher: googleUserinfoFetcher{}, clientID: clientID}
}

// NewOAuthProviderWithFetcher injects a fetcher; used by tests.
func NewOAuthProviderWithFetcher(fetcher UserinfoFetcher) *OAuthProvider {
	return &OAuthProvider{fetcher: fetcher}
}

func (p *OAuthProvider) Key() string { return KeyGoogle }

// ConsentURL builds the browser URL that starts the redirect flow. The
// token comes back on the redirect fragment (implicit flow), which is what
// Authenticate then exchanges for profile fields.
func (p *OAuthProvider) ConsentURL(redirectURI, state string) string {
	cfg := oauth2.Config{
		ClientID:    p.clientID,
		Endpoint:    google.Endpoint,
		RedirectURL: redirectURI,
		Scopes:      []string{"profile", "email"},
	}
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "token"))
}

func (p *OAuthProvider) Authenticate(ctx context.Context, creds Credentials) (models.Identity, error) {
	if creds.AccessToken == "" {
		return models.Absent, dErrors.New(dErrors.CodeProviderFailure, "oauth callback returned no access token")
	}

	info, err := p.fetcher.Fetch(ctx, creds.AccessToken)
	if err != nil {
		if errors.Is(err, ErrFlowCancelled) {
			return models.Absent, dErrors.Wrap(err, dErrors.CodeProviderCancelled, "sign-in cancelled")
		}
		return models.Absent, dErrors.Wrap(err, dErrors.CodeProviderFailure, "exchange access token for profile")
	}
	if info == nil || info.Id == "" {
		return models.Absent, dErrors.New(dErrors.CodeProviderFailure, "provider returned no usable credential")
	}

	return models.Identity{
		ID:    info.Id,
		Name:  info.Name,
		Email: info.Email,
		Photo: info.Picture,
	}, nil
}
