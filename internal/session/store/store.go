// Package store persists the identity record in durable key-value storage
// under the fixed session key.
package store

import (
	"context"
	"encoding/json"

	"github.com/rafaeld3v/gofinances/internal/platform/kv"
	"github.com/rafaeld3v/gofinances/internal/session/models"
	dErrors "github.com/rafaeld3v/gofinances/pkg/domainerrors"
	"github.com/rafaeld3v/gofinances/pkg/sentinel"
)

// IdentityStore reads and writes the serialized identity record.
type IdentityStore struct {
	kv kv.Store
}

func New(kvStore kv.Store) *IdentityStore {
	return &IdentityStore{kv: kvStore}
}

// Save writes the identity record. The record is versioned so a future
// schema change cannot be mistaken for a valid current record.
func (s *IdentityStore) Save(ctx context.Context, identity models.Identity, providerKey string) error {
	record := models.IdentityRecord{
		SchemaVersion: models.IdentityRecordVersion,
		Provider:      providerKey,
		Identity:      identity,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "serialize identity record")
	}
	if err := s.kv.Set(ctx, kv.SessionKey, string(payload)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "write identity record")
	}
	return nil
}

// Load reads the identity record. A missing key, an unreadable store, a
// payload that does not parse, an unknown schema version and a record with
// an empty id all return sentinel.ErrNotFound: a corrupt local record must
// never block startup.
func (s *IdentityStore) Load(ctx context.Context) (models.IdentityRecord, error) {
	payload, found, err := s.kv.Get(ctx, kv.SessionKey)
	if err != nil || !found {
		return models.IdentityRecord{}, sentinel.ErrNotFound
	}

	var record models.IdentityRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return models.IdentityRecord{}, sentinel.ErrNotFound
	}
	if record.SchemaVersion != models.IdentityRecordVersion || !record.Identity.Present() {
		return models.IdentityRecord{}, sentinel.ErrNotFound
	}
	return record, nil
}

// Delete removes the identity record.
func (s *IdentityStore) Delete(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.SessionKey); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "delete identity record")
	}
	return nil
}
