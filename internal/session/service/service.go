// Package service owns the session lifecycle: restore at startup, sign-in
// through one of the configured providers, sign-out. It is the only writer
// of the in-memory identity and of the durable identity record.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rafaeld3v/gofinances/internal/platform/metrics"
	"github.com/rafaeld3v/gofinances/internal/platform/middleware"
	"github.com/rafaeld3v/gofinances/internal/session/models"
	"github.com/rafaeld3v/gofinances/internal/session/provider"
	"github.com/rafaeld3v/gofinances/internal/session/store"
	"github.com/rafaeld3v/gofinances/pkg/audit"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
	"github.com/rafaeld3v/gofinances/pkg/sentinel"
)

var tracer = otel.Tracer("gofinances/session")

// TokenIssuer mints the bearer token returned at sign-in.
type TokenIssuer interface {
	GenerateAccessToken(userID, provider string, expiresIn time.Duration) (string, error)
}

// SignInResult is what a successful sign-in hands back to the caller.
type SignInResult struct {
	Identity    models.Identity
	AccessToken string
}

// Manager mediates between the configured providers and the durable
// identity record. All methods are safe for concurrent use; Restore must
// still be awaited before anything else runs (startup barrier).
type Manager struct {
	providers *provider.Registry
	store     *store.IdentityStore
	tokens    TokenIssuer
	tokenTTL  time.Duration
	auditor   audit.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger

	mu          sync.Mutex
	identity    models.Identity
	providerKey string
	restored    bool
}

func New(
	providers *provider.Registry,
	identityStore *store.IdentityStore,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	auditor audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		providers: providers,
		store:     identityStore,
		tokens:    tokens,
		tokenTTL:  tokenTTL,
		auditor:   auditor,
		metrics:   m,
		logger:    logger,
	}
}

// Loading reports whether the startup restore has not completed yet. The
// caller must not serve authenticated or unauthenticated responses while
// this is true.
func (s *Manager) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.restored
}

// Restore loads any persisted identity. Missing, unreadable and malformed
// records all leave the identity absent; Restore never fails. Calling it
// again without an intervening sign-in/out returns the same identity.
func (s *Manager) Restore(ctx context.Context) models.Identity {
	ctx, span := tracer.Start(ctx, "session.restore")
	defer span.End()

	s.mu.Lock()
	if s.restored {
		identity := s.identity
		s.mu.Unlock()
		return identity
	}
	s.mu.Unlock()

	record, err := s.store.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		// Lost the race against a concurrent Restore; keep its outcome.
		return s.identity
	}
	s.restored = true

	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "unexpected restore error, treating as absent", "error", err.Error())
		}
		s.identity = models.Absent
		s.providerKey = ""
		s.metrics.SessionRestores.WithLabelValues("absent").Inc()
		s.logger.InfoContext(ctx, "no persisted session to restore")
		return models.Absent
	}

	s.identity = record.Identity
	s.providerKey = record.Provider
	s.metrics.SessionRestores.WithLabelValues("restored").Inc()
	span.SetAttributes(attribute.String("session.provider", record.Provider))
	s.logger.InfoContext(ctx, "session restored",
		"user_id", record.Identity.ID,
		"provider", record.Provider,
	)
	_ = s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionSessionRestored,
		UserID:    record.Identity.ID,
		Provider:  record.Provider,
		RequestID: middleware.GetRequestID(ctx),
	})
	return record.Identity
}

// SignIn authenticates against the named provider and persists the
// resulting identity. The durable write happens before the in-memory
// identity changes: either both are updated or neither is.
func (s *Manager) SignIn(ctx context.Context, providerKey, device string, creds provider.Credentials) (SignInResult, error) {
	ctx, span := tracer.Start(ctx, "session.sign_in")
	defer span.End()
	span.SetAttributes(attribute.String("session.provider", providerKey))

	p, ok := s.providers.Get(providerKey)
	if !ok {
		s.metrics.SignIns.WithLabelValues(providerKey, "failure").Inc()
		return SignInResult{}, dErrors.Newf(dErrors.CodeBadRequest, "unknown provider %q", providerKey)
	}

	identity, err := p.Authenticate(ctx, creds)
	if err != nil {
		s.metrics.SignIns.WithLabelValues(providerKey, "failure").Inc()
		s.logger.WarnContext(ctx, "sign-in failed",
			"provider", providerKey,
			"error", err.Error(),
		)
		_ = s.auditor.Emit(ctx, audit.Event{
			Category:  audit.CategorySecurity,
			Timestamp: time.Now().UTC(),
			Action:    audit.ActionAuthFailed,
			Provider:  providerKey,
			Device:    device,
			RequestID: middleware.GetRequestID(ctx),
			Reason:    err.Error(),
		})
		return SignInResult{}, err
	}

	if err := s.store.Save(ctx, identity, providerKey); err != nil {
		s.metrics.SignIns.WithLabelValues(providerKey, "failure").Inc()
		s.logger.ErrorContext(ctx, "failed to persist identity",
			"provider", providerKey,
			"error", err.Error(),
		)
		return SignInResult{}, err
	}

	s.mu.Lock()
	s.identity = identity
	s.providerKey = providerKey
	s.mu.Unlock()

	token, err := s.tokens.GenerateAccessToken(identity.ID, providerKey, s.tokenTTL)
	if err != nil {
		return SignInResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "mint access token")
	}

	s.metrics.SignIns.WithLabelValues(providerKey, "success").Inc()
	s.logger.InfoContext(ctx, "sign-in succeeded",
		"user_id", identity.ID,
		"provider", providerKey,
	)
	_ = s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionSessionCreated,
		UserID:    identity.ID,
		Provider:  providerKey,
		Device:    device,
		RequestID: middleware.GetRequestID(ctx),
	})

	return SignInResult{Identity: identity, AccessToken: token}, nil
}

// SignOut clears the in-memory identity and deletes the durable record.
// Provider-side revocation failures are logged, never surfaced: the local
// signed-out state must stay self-consistent even when the remote SDK state
// is not.
func (s *Manager) SignOut(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session.sign_out")
	defer span.End()

	s.mu.Lock()
	identity := s.identity
	providerKey := s.providerKey
	s.mu.Unlock()

	// Durable record first: if the delete fails, memory stays signed in too,
	// so a restart cannot resurrect a session the user believes is gone.
	if err := s.store.Delete(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.identity = models.Absent
	s.providerKey = ""
	s.mu.Unlock()

	if p, ok := s.providers.Get(providerKey); ok {
		if revoker, ok := p.(provider.SessionRevoker); ok {
			if err := revoker.RevokeSession(ctx); err != nil {
				s.logger.WarnContext(ctx, "provider sign-out failed, local state cleared anyway",
					"provider", providerKey,
					"error", err.Error(),
				)
			}
		}
	}

	s.metrics.SignOuts.Inc()
	if identity.Present() {
		s.logger.InfoContext(ctx, "signed out", "user_id", identity.ID)
		_ = s.auditor.Emit(ctx, audit.Event{
			Category:  audit.CategorySecurity,
			Timestamp: time.Now().UTC(),
			Action:    audit.ActionSessionRevoked,
			UserID:    identity.ID,
			Provider:  providerKey,
			RequestID: middleware.GetRequestID(ctx),
		})
	}
	return nil
}

// Current returns the in-memory identity. The boolean mirrors
// Identity.Present for call sites that want the two-value form.
func (s *Manager) Current() (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.identity.Present()
}

// used in tests to simulate a process restart without rebuilding deps.
func (s *Manager) resetForRestart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = models.Absent
	s.providerKey = ""
	s.restored = false
}
