package provider

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"
	googleoauth "google.golang.org/api/oauth2/v2"

	"github.com/rafaeld3v/gofinances/internal/session/models"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
)

type fakeFetcher struct {
	info *googleoauth.Userinfo
	err  error
}

func (f fakeFetcher) Fetch(context.Context, string) (*googleoauth.Userinfo, error) {
	return f.info, f.err
}

type fakeBroker struct {
	cred BrokerCredential
	err  error
}

func (f fakeBroker) RequestCredential(context.Context) (BrokerCredential, error) {
	return f.cred, f.err
}

type ProviderSuite struct {
	suite.Suite
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) TestOAuthProvider() {
	ctx := context.Background()

	s.Run("normalizes userinfo into an identity", func() {
		p := NewOAuthProviderWithFetcher(fakeFetcher{info: &googleoauth.Userinfo{
			Id:      "g-123",
			Name:    "Rafael",
			Email:   "rafael@example.com",
			Picture: "https://lh3.example.com/photo",
		}})

		identity, err := p.Authenticate(ctx, Credentials{AccessToken: "tok"})
		s.Require().NoError(err)
		s.Equal(models.Identity{
			ID:    "g-123",
			Name:  "Rafael",
			Email: "rafael@example.com",
			Photo: "https://lh3.example.com/photo",
		}, identity)
	})

	s.Run("missing access token is a provider failure", func() {
		p := NewOAuthProviderWithFetcher(fakeFetcher{})
		_, err := p.Authenticate(ctx, Credentials{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProviderFailure))
	})

	s.Run("cancelled flow maps to the cancelled code, not an absent identity", func() {
		p := NewOAuthProviderWithFetcher(fakeFetcher{err: ErrFlowCancelled})
		_, err := p.Authenticate(ctx, Credentials{AccessToken: "tok"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProviderCancelled))
	})

	s.Run("successful call without a subject is unusable", func() {
		p := NewOAuthProviderWithFetcher(fakeFetcher{info: &googleoauth.Userinfo{Email: "x@example.com"}})
		_, err := p.Authenticate(ctx, Credentials{AccessToken: "tok"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProviderFailure))
	})

	s.Run("exchange failure is a provider failure", func() {
		p := NewOAuthProviderWithFetcher(fakeFetcher{err: errors.New("network down")})
		_, err := p.Authenticate(ctx, Credentials{AccessToken: "tok"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProviderFailure))
	})
}

func (s *ProviderSuite) TestNativeProvider() {
	ctx := context.Background()

	s.Run("returns broker fields directly", func() {
		p := NewNativeProvider(fakeBroker{cred: BrokerCredential{
			UserID:    "a-456",
			Email:     "ana@example.com",
			GivenName: "Ana",
			Photo:     "https://photos.example.com/ana",
		}})

		identity, err := p.Authenticate(ctx, Credentials{})
		s.Require().NoError(err)
		s.Equal("a-456", identity.ID)
		s.Equal("https://photos.example.com/ana", identity.Photo)
	})

	s.Run("synthesizes an avatar when the broker has no photo", func() {
		p := NewNativeProvider(fakeBroker{cred: BrokerCredential{
			UserID:    "a-456",
			GivenName: "Ana",
		}})

		identity, err := p.Authenticate(ctx, Credentials{})
		s.Require().NoError(err)
		s.Equal("https://ui-avatars.com/api/?length=1&name=Ana", identity.Photo)
	})

	s.Run("dismissed picker maps to cancelled", func() {
		p := NewNativeProvider(fakeBroker{err: ErrBrokerCancelled})
		_, err := p.Authenticate(ctx, Credentials{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProviderCancelled))
	})

	s.Run("credential without a user id is unusable", func() {
		p := NewNativeProvider(fakeBroker{cred: BrokerCredential{Email: "x@example.com"}})
		_, err := p.Authenticate(ctx, Credentials{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProviderFailure))
	})
}

func (s *ProviderSuite) TestPasswordProvider() {
	ctx := context.Background()

	directory := NewInMemoryDirectory()
	s.Require().NoError(directory.Add("p-789", "joao@example.com", "João", "s3cret"))
	s.Require().NoError(directory.Add("p-790", "nameless@example.com", "", "s3cret"))
	p := NewPasswordProvider(directory)

	s.Run("valid credentials produce an identity", func() {
		identity, err := p.Authenticate(ctx, Credentials{Email: "joao@example.com", Password: "s3cret"})
		s.Require().NoError(err)
		s.Equal("p-789", identity.ID)
		s.Equal("João", identity.Name)
	})

	s.Run("fallback display name when the directory has none", func() {
		identity, err := p.Authenticate(ctx, Credentials{Email: "nameless@example.com", Password: "s3cret"})
		s.Require().NoError(err)
		s.Equal(FallbackDisplayName, identity.Name)
	})

	s.Run("wrong password fails without revealing which part is wrong", func() {
		_, err := p.Authenticate(ctx, Credentials{Email: "joao@example.com", Password: "wrong"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProviderFailure))
		s.Contains(err.Error(), "invalid email or password")
	})

	s.Run("unknown email fails with the same message", func() {
		_, err := p.Authenticate(ctx, Credentials{Email: "ghost@example.com", Password: "s3cret"})
		s.Require().Error(err)
		s.Contains(err.Error(), "invalid email or password")
	})

	s.Run("malformed email is rejected before the directory is consulted", func() {
		_, err := p.Authenticate(ctx, Credentials{Email: "not-an-email", Password: "s3cret"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeProviderFailure))
	})
}

// All variants must converge on the same identity shape; nothing downstream
// may tell them apart.
func (s *ProviderSuite) TestNormalizationEquivalence() {
	ctx := context.Background()

	oauth := NewOAuthProviderWithFetcher(fakeFetcher{info: &googleoauth.Userinfo{
		Id: "same-id", Name: "Same Person", Email: "same@example.com", Picture: "https://p.example.com/1",
	}})
	native := NewNativeProvider(fakeBroker{cred: BrokerCredential{
		UserID: "same-id", GivenName: "Same Person", Email: "same@example.com", Photo: "https://p.example.com/1",
	}})
	directory := NewInMemoryDirectory()
	s.Require().NoError(directory.Add("same-id", "same@example.com", "Same Person", "pw"))
	password := NewPasswordProvider(directory)

	fromOAuth, err := oauth.Authenticate(ctx, Credentials{AccessToken: "tok"})
	s.Require().NoError(err)
	fromNative, err := native.Authenticate(ctx, Credentials{})
	s.Require().NoError(err)
	fromPassword, err := password.Authenticate(ctx, Credentials{Email: "same@example.com", Password: "pw"})
	s.Require().NoError(err)

	s.Equal(fromOAuth, fromNative)
	s.Equal(fromOAuth.ID, fromPassword.ID)
	s.Equal(fromOAuth.Email, fromPassword.Email)
	s.Equal(fromOAuth.Name, fromPassword.Name)
}

func (s *ProviderSuite) TestConsentURL() {
	p := NewOAuthProvider("client-123")

	raw := p.ConsentURL("https://app.example.com/callback", "xyzzy")
	parsed, err := url.Parse(raw)
	s.Require().NoError(err)

	query := parsed.Query()
	s.Equal("client-123", query.Get("client_id"))
	s.Equal("https://app.example.com/callback", query.Get("redirect_uri"))
	s.Equal("xyzzy", query.Get("state"))
	s.Equal("token", query.Get("response_type"))
	s.Contains(query.Get("scope"), "email")
}

func (s *ProviderSuite) TestRegistry() {
	oauth := NewOAuthProviderWithFetcher(fakeFetcher{})
	registry := NewRegistry(oauth)

	got, ok := registry.Get(KeyGoogle)
	s.True(ok)
	s.Same(oauth, got)

	_, ok = registry.Get("unknown")
	s.False(ok)
}
