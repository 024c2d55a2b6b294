// Package handler exposes the session lifecycle over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafaeld3v/gofinances/internal/platform/middleware"
	"github.com/rafaeld3v/gofinances/internal/platform/respond"
	"github.com/rafaeld3v/gofinances/internal/session/models"
	"github.com/rafaeld3v/gofinances/internal/session/provider"
	"github.com/rafaeld3v/gofinances/internal/session/service"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
)

type Handler struct {
	sessions *service.Manager
	oauth    *provider.OAuthProvider
	logger   *slog.Logger
}

func New(sessions *service.Manager, oauth *provider.OAuthProvider, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, oauth: oauth, logger: logger}
}

// Register mounts the public sign-in routes and the authenticated session
// routes. The auth middleware guards everything but sign-in itself.
func (h *Handler) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Post("/auth/signin", h.signIn)
	if h.oauth != nil {
		r.Get("/auth/signin/google/url", h.consentURL)
	}
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/auth/signout", h.signOut)
		r.Get("/auth/session", h.currentSession)
	})
}

// consentURL hands the client the browser URL that starts the redirect
// flow. The access token comes back on the redirect and is then posted to
// the sign-in route.
func (h *Handler) consentURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	redirectURI := r.URL.Query().Get("redirect_uri")
	if redirectURI == "" {
		respond.Error(ctx, w, h.logger, dErrors.New(dErrors.CodeValidation, "redirect_uri is required"))
		return
	}
	state := r.URL.Query().Get("state")

	respond.JSON(w, http.StatusOK, map[string]string{
		"url": h.oauth.ConsentURL(redirectURI, state),
	})
}

type signInRequest struct {
	Provider    string `json:"provider"`
	AccessToken string `json:"access_token,omitempty"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
}

type signInResponse struct {
	Identity    models.Identity `json:"identity"`
	AccessToken string          `json:"access_token"`
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(ctx, w, h.logger, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Provider == "" {
		respond.Error(ctx, w, h.logger, dErrors.New(dErrors.CodeValidation, "provider is required"))
		return
	}

	result, err := h.sessions.SignIn(ctx, req.Provider, middleware.DeviceFromRequest(r), provider.Credentials{
		AccessToken: req.AccessToken,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		respond.Error(ctx, w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, signInResponse{
		Identity:    result.Identity,
		AccessToken: result.AccessToken,
	})
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.sessions.SignOut(ctx); err != nil {
		respond.Error(ctx, w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := h.sessions.Current()
	if !ok {
		respond.Error(ctx, w, h.logger, dErrors.New(dErrors.CodeNotFound, "no active session"))
		return
	}
	respond.JSON(w, http.StatusOK, identity)
}
