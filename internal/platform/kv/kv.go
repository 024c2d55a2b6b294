// Package kv is the durable key-value storage the session and ledger records
// live in. The contract mirrors the device-local storage the data originally
// lived in: opaque string values, atomic per key, no cross-key transactions.
//
// Keys in use: "session-identity" for the identity record, "ledger:<user id>"
// for each user's transaction list. Identity ids namespace ledgers, so ids
// must stay unique and stable across sign-ins.
package kv

import "context"

// Store is the durable key-value contract. Get reports found=false for a
// missing key; a missing key is a fact, not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SessionKey is the fixed key the identity record persists under.
const SessionKey = "session-identity"

// LedgerKey returns the per-user key the transaction list persists under.
func LedgerKey(userID string) string {
	return "ledger:" + userID
}
