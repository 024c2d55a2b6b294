// Package store persists one ledger per identity in the key-value store.
package store

import (
	"context"
	"encoding/json"

	"github.com/rafaeld3v/gofinances/internal/ledger/models"
	"github.com/rafaeld3v/gofinances/internal/platform/kv"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
)

// LedgerStore reads and writes the per-identity transaction list. Callers
// serialize writes per identity; the store itself does not lock.
type LedgerStore struct {
	kv kv.Store
}

func New(kvStore kv.Store) *LedgerStore {
	return &LedgerStore{kv: kvStore}
}

// List returns the persisted transactions for userID, newest first. A
// missing ledger is an empty one, not an error.
func (s *LedgerStore) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	value, found, err := s.kv.Get(ctx, kv.LedgerKey(userID))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "read ledger")
	}
	if !found {
		return []models.Transaction{}, nil
	}

	var record models.Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "decode ledger record")
	}
	if record.SchemaVersion != models.RecordVersion {
		return nil, dErrors.Newf(dErrors.CodeStorage, "unsupported ledger record version %d", record.SchemaVersion)
	}
	if record.Transactions == nil {
		return []models.Transaction{}, nil
	}
	return record.Transactions, nil
}

// Prepend writes tx at the head of userID's ledger via read-modify-write.
func (s *LedgerStore) Prepend(ctx context.Context, userID string, tx models.Transaction) error {
	existing, err := s.List(ctx, userID)
	if err != nil {
		return err
	}

	record := models.Record{
		SchemaVersion: models.RecordVersion,
		Transactions:  append([]models.Transaction{tx}, existing...),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "encode ledger record")
	}
	if err := s.kv.Set(ctx, kv.LedgerKey(userID), string(payload)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "write ledger")
	}
	return nil
}
