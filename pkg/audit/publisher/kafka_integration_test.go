//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/rafaeld3v/gofinances/pkg/audit"
	"github.com/rafaeld3v/gofinances/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	redpanda := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	const topic = "gofinances.audit.test"
	pub, err := NewKafkaPublisher(ctx, []string{redpanda.Broker}, topic)
	require.NoError(t, err)
	defer pub.Close()

	event := audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: time.Now().UTC(),
		Action:    audit.ActionSessionCreated,
		UserID:    "uid-kafka",
		Provider:  "google",
	}
	require.NoError(t, pub.Emit(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "uid-kafka", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, audit.ActionSessionCreated, got.Action)
	assert.Equal(t, "google", got.Provider)
}

func TestKafkaPublisherTopicCreationIsIdempotent(t *testing.T) {
	redpanda := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	const topic = "gofinances.audit.idempotent"
	first, err := NewKafkaPublisher(ctx, []string{redpanda.Broker}, topic)
	require.NoError(t, err)
	first.Close()

	second, err := NewKafkaPublisher(ctx, []string{redpanda.Broker}, topic)
	require.NoError(t, err)
	second.Close()
}
