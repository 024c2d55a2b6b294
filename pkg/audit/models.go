// Package audit defines the audit event model and the worker that drains
// events to a publisher. Events are emitted from domain logic; keep them
// transport-agnostic so publishers can fan out.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies and routing per category.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring.
	// Examples: sign-in failures, session revocation.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. Examples: session creation, transaction recording.
	CategoryOperations EventCategory = "operations"
)

// Action names an auditable operation.
type Action string

const (
	ActionSessionCreated      Action = "session_created"
	ActionSessionRestored     Action = "session_restored"
	ActionSessionRevoked      Action = "session_revoked"
	ActionAuthFailed          Action = "auth_failed"
	ActionTransactionRecorded Action = "transaction_recorded"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    Action        `json:"action"`
	UserID    string        `json:"user_id,omitempty"`
	Provider  string        `json:"provider,omitempty"`
	Device    string        `json:"device,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}

// Publisher delivers audit events to a sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
