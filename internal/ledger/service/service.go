// Package service implements recording and summarizing of ledger entries.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rafaeld3v/gofinances/internal/category"
	"github.com/rafaeld3v/gofinances/internal/ledger/models"
	"github.com/rafaeld3v/gofinances/internal/ledger/store"
	"github.com/rafaeld3v/gofinances/internal/platform/metrics"
	"github.com/rafaeld3v/gofinances/internal/platform/middleware"
	"github.com/rafaeld3v/gofinances/pkg/audit"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
)

var tracer = otel.Tracer("gofinances/ledger")

var oneHundred = decimal.NewFromInt(100)

// Ledger records and summarizes transactions. Writes to the same identity
// are serialized through a per-identity lock so the read-modify-write in
// the store never loses an entry.
type Ledger struct {
	store   *store.LedgerStore
	auditor audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(ledgerStore *store.LedgerStore, auditor audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:   ledgerStore,
		auditor: auditor,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *Ledger) lockFor(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func validate(input models.TransactionInput) error {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !input.Amount.IsPositive() {
		problems = append(problems, "amount must be positive")
	}
	if !input.Direction.IsValid() {
		problems = append(problems, "direction must be incoming or outgoing")
	}
	if !category.IsChosen(input.Category) {
		problems = append(problems, "category must be chosen")
	} else if _, ok := category.Lookup(input.Category); !ok {
		problems = append(problems, "unknown category "+input.Category)
	}
	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
	}
	return nil
}

// Record validates input and prepends the resulting transaction to the
// identity's ledger. Nothing is written when validation fails.
func (s *Ledger) Record(ctx context.Context, userID string, input models.TransactionInput) (models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "ledger.record")
	defer span.End()
	span.SetAttributes(attribute.String("ledger.direction", string(input.Direction)))

	if userID == "" {
		return models.Transaction{}, dErrors.New(dErrors.CodeUnauthorized, "missing identity")
	}
	if err := validate(input); err != nil {
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		ID:        s.newID(),
		Name:      strings.TrimSpace(input.Name),
		Amount:    input.Amount,
		Direction: input.Direction,
		Category:  input.Category,
		Date:      s.now(),
	}

	lock := s.lockFor(userID)
	lock.Lock()
	err := s.store.Prepend(ctx, userID, tx)
	lock.Unlock()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record transaction",
			"user_id", userID,
			"error", err.Error(),
		)
		return models.Transaction{}, err
	}

	s.metrics.TransactionsRecorded.Inc()
	s.logger.InfoContext(ctx, "transaction recorded",
		"user_id", userID,
		"transaction_id", tx.ID,
		"direction", tx.Direction,
	)
	_ = s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: s.now(),
		Action:    audit.ActionTransactionRecorded,
		UserID:    userID,
		RequestID: middleware.GetRequestID(ctx),
	})
	return tx, nil
}

// List returns the identity's transactions, newest first.
func (s *Ledger) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "ledger.list")
	defer span.End()

	if userID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing identity")
	}
	return s.store.List(ctx, userID)
}

// AggregateByCategory sums outgoing transactions of the given month by
// category, in the fixed category order. Categories with no spending are
// omitted. Percentages are of the month's outgoing total, rounded to the
// nearest integer; when the month total is zero every percentage is zero.
func (s *Ledger) AggregateByCategory(ctx context.Context, userID string, month time.Month, year int) ([]models.CategoryAggregate, error) {
	ctx, span := tracer.Start(ctx, "ledger.aggregate_by_category")
	defer span.End()

	if userID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing identity")
	}

	transactions, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	monthTotal := decimal.Zero
	for _, tx := range transactions {
		if tx.Direction != models.DirectionOutgoing {
			continue
		}
		if tx.Date.Month() != month || tx.Date.Year() != year {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		monthTotal = monthTotal.Add(tx.Amount)
	}

	aggregates := make([]models.CategoryAggregate, 0, len(totals))
	for _, c := range category.All() {
		total, ok := totals[c.Key]
		if !ok || total.IsZero() {
			continue
		}
		percent := 0
		if monthTotal.IsPositive() {
			percent = int(total.Div(monthTotal).Mul(oneHundred).Round(0).IntPart())
		}
		aggregates = append(aggregates, models.CategoryAggregate{
			Key:     c.Key,
			Name:    c.Name,
			Color:   c.Color,
			Total:   total,
			Percent: percent,
		})
	}
	return aggregates, nil
}

// MonthSummary totals the whole ledger by direction. The list is newest
// first, so the first entry seen per direction carries its latest date.
func (s *Ledger) MonthSummary(ctx context.Context, userID string) (models.MonthSummary, error) {
	ctx, span := tracer.Start(ctx, "ledger.month_summary")
	defer span.End()

	if userID == "" {
		return models.MonthSummary{}, dErrors.New(dErrors.CodeUnauthorized, "missing identity")
	}

	transactions, err := s.store.List(ctx, userID)
	if err != nil {
		return models.MonthSummary{}, err
	}

	summary := models.MonthSummary{
		Income:   decimal.Zero,
		Outgoing: decimal.Zero,
	}
	for _, tx := range transactions {
		switch tx.Direction {
		case models.DirectionIncoming:
			summary.Income = summary.Income.Add(tx.Amount)
			if summary.LastIncomeAt.IsZero() {
				summary.LastIncomeAt = tx.Date
			}
		case models.DirectionOutgoing:
			summary.Outgoing = summary.Outgoing.Add(tx.Amount)
			if summary.LastOutgoingAt.IsZero() {
				summary.LastOutgoingAt = tx.Date
			}
		}
	}
	summary.Balance = summary.Income.Sub(summary.Outgoing)
	return summary, nil
}
