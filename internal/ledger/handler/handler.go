// Package handler exposes the ledger over HTTP. Every route requires a
// bearer token; the identity comes from the token claims, never from the
// request body.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rafaeld3v/gofinances/internal/ledger/models"
	"github.com/rafaeld3v/gofinances/internal/ledger/service"
	"github.com/rafaeld3v/gofinances/internal/platform/middleware"
	"github.com/rafaeld3v/gofinances/internal/platform/respond"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
)

type Handler struct {
	ledger *service.Ledger
	logger *slog.Logger
	now    func() time.Time
}

func New(ledger *service.Ledger, logger *slog.Logger) *Handler {
	return &Handler{
		ledger: ledger,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/ledger/transactions", h.recordTransaction)
		r.Get("/ledger/transactions", h.listTransactions)
		r.Get("/ledger/summary/categories", h.categorySummary)
		r.Get("/ledger/summary/month", h.monthSummary)
	})
}

func (h *Handler) recordTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(ctx, w, h.logger, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	tx, err := h.ledger.Record(ctx, middleware.GetUserID(ctx), input)
	if err != nil {
		respond.Error(ctx, w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, tx)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txs, err := h.ledger.List(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respond.Error(ctx, w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, txs)
}

// categorySummary aggregates outgoing spend per category. month and year
// query parameters default to the current month.
func (h *Handler) categorySummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := h.now()
	month, year := now.Month(), now.Year()
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			respond.Error(ctx, w, h.logger, dErrors.New(dErrors.CodeValidation, "month must be between 1 and 12"))
			return
		}
		month = time.Month(m)
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			respond.Error(ctx, w, h.logger, dErrors.New(dErrors.CodeValidation, "year must be a positive number"))
			return
		}
		year = y
	}

	aggregates, err := h.ledger.AggregateByCategory(ctx, middleware.GetUserID(ctx), month, year)
	if err != nil {
		respond.Error(ctx, w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, aggregates)
}

func (h *Handler) monthSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.ledger.MonthSummary(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respond.Error(ctx, w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}
