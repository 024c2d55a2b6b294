package provider

import (
	"context"
	"errors"

	"github.com/asaskevich/govalidator"
	"golang.org/x/crypto/bcrypt"

	"github.com/rafaeld3v/gofinances/internal/session/models"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
	"github.com/rafaeld3v/gofinances/pkg/sentinel"
)

// FallbackDisplayName is used when the directory record carries no name.
const FallbackDisplayName = "Usuário"

// DirectoryUser is a password-directory record. PasswordHash is a bcrypt
// hash; plaintext passwords never reach storage.
type DirectoryUser struct {
	ID           string
	Email        string
	Name         string
	Photo        string
	PasswordHash []byte
}

// UserDirectory is the port the password provider authenticates against.
// Lookup returns sentinel.ErrNotFound for an unknown email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (DirectoryUser, error)
}

// PasswordProvider authenticates email/password credentials against a user
// directory.
type PasswordProvider struct {
	directory UserDirectory
}

func NewPasswordProvider(directory UserDirectory) *PasswordProvider {
	return &PasswordProvider{directory: directory}
}

func (p *PasswordProvider) Key() string { return KeyPassword }

func (p *PasswordProvider) Authenticate(ctx context.Context, creds Credentials) (models.Identity, error) {
	if !govalidator.IsEmail(creds.Email) {
		return models.Absent, dErrors.New(dErrors.CodeProviderFailure, "invalid email")
	}
	if creds.Password == "" {
		return models.Absent, dErrors.New(dErrors.CodeProviderFailure, "password is required")
	}

	user, err := p.directory.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Same message as a bad password; login errors must not reveal
			// which emails exist.
			return models.Absent, dErrors.New(dErrors.CodeProviderFailure, "invalid email or password")
		}
		return models.Absent, dErrors.Wrap(err, dErrors.CodeProviderFailure, "look up user")
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return models.Absent, dErrors.New(dErrors.CodeProviderFailure, "invalid email or password")
	}

	name := user.Name
	if name == "" {
		name = FallbackDisplayName
	}

	return models.Identity{
		ID:    user.ID,
		Name:  name,
		Email: user.Email,
		Photo: user.Photo,
	}, nil
}

// InMemoryDirectory is a map-backed UserDirectory for development and tests.
type InMemoryDirectory struct {
	users map[string]DirectoryUser
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{users: make(map[string]DirectoryUser)}
}

// Add registers a user, hashing the plaintext password.
func (d *InMemoryDirectory) Add(id, email, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.users[email] = DirectoryUser{ID: id, Email: email, Name: name, PasswordHash: hash}
	return nil
}

func (d *InMemoryDirectory) FindByEmail(_ context.Context, email string) (DirectoryUser, error) {
	user, ok := d.users[email]
	if !ok {
		return DirectoryUser{}, sentinel.ErrNotFound
	}
	return user, nil
}
