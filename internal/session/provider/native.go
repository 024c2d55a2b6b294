package provider

import (
	"context"
	"errors"
	"net/url"

	"github.com/rafaeld3v/gofinances/internal/session/models"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
)

// ErrBrokerCancelled is what an account broker reports when the user
// dismisses the device account picker.
var ErrBrokerCancelled = errors.New("account picker dismissed")

// BrokerCredential is the structured result of a device-level sign-in.
// Unlike the OAuth flow there is no token-exchange round trip; the broker
// hands identity fields over directly.
type BrokerCredential struct {
	UserID    string
	Email     string
	GivenName string
	Photo     string
}

// AccountBroker is the port for device/SDK-brokered sign-in (Apple-style
// account picker).
type AccountBroker interface {
	RequestCredential(ctx context.Context) (BrokerCredential, error)
}

// NativeProvider adapts an AccountBroker to the provider capability.
type NativeProvider struct {
	broker AccountBroker
}

func NewNativeProvider(broker AccountBroker) *NativeProvider {
	return &NativeProvider{broker: broker}
}

func (p *NativeProvider) Key() string { return KeyApple }

func (p *NativeProvider) Authenticate(ctx context.Context, _ Credentials) (models.Identity, error) {
	cred, err := p.broker.RequestCredential(ctx)
	if err != nil {
		if errors.Is(err, ErrBrokerCancelled) {
			return models.Absent, dErrors.Wrap(err, dErrors.CodeProviderCancelled, "sign-in cancelled")
		}
		return models.Absent, dErrors.Wrap(err, dErrors.CodeProviderFailure, "request credential from account broker")
	}
	if cred.UserID == "" {
		return models.Absent, dErrors.New(dErrors.CodeProviderFailure, "provider returned no usable credential")
	}

	photo := cred.Photo
	if photo == "" && cred.GivenName != "" {
		photo = avatarFor(cred.GivenName)
	}

	return models.Identity{
		ID:    cred.UserID,
		Name:  cred.GivenName,
		Email: cred.Email,
		Photo: photo,
	}, nil
}

// avatarFor synthesizes an initial-letter avatar URL when the broker
// supplies no photo.
func avatarFor(name string) string {
	return "https://ui-avatars.com/api/?length=1&name=" + url.QueryEscape(name)
}
