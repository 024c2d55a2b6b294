package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events chan Event
}

func (p *capturePublisher) Emit(_ context.Context, event Event) error {
	p.events <- event
	return nil
}

func TestWorkerDrainsInboxToPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	capture := &capturePublisher{events: make(chan Event, 1)}
	worker := NewWorker(capture, 8, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	event := Event{
		Category:  CategorySecurity,
		Timestamp: time.Now(),
		Action:    ActionAuthFailed,
		UserID:    "user-1",
		Reason:    "provider returned no credential",
	}
	require.NoError(t, worker.Emit(ctx, event))

	select {
	case got := <-capture.events:
		assert.Equal(t, ActionAuthFailed, got.Action)
		assert.Equal(t, "user-1", got.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the publisher")
	}
}

func TestWorkerEmitNeverBlocksWhenFull(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	// No Run loop: the inbox fills and further emits must drop, not block.
	worker := NewWorker(&capturePublisher{events: make(chan Event)}, 1, logger)

	ctx := context.Background()
	require.NoError(t, worker.Emit(ctx, Event{Action: ActionSessionCreated}))

	done := make(chan struct{})
	go func() {
		_ = worker.Emit(ctx, Event{Action: ActionSessionRevoked})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full inbox")
	}
}
