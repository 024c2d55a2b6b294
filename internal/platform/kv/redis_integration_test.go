//go:build integration

package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rafaeld3v/gofinances/pkg/testutil/containers"
)

// RedisStoreSuite runs the store contract against a real redis instance.
type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestGetMissingKey() {
	_, found, err := s.store.Get(context.Background(), SessionKey)
	s.Require().NoError(err)
	s.False(found)
}

func (s *RedisStoreSuite) TestSetGetDeleteRoundTrip() {
	ctx := context.Background()
	key := LedgerKey("uid-redis")

	s.Require().NoError(s.store.Set(ctx, key, `[{"id":"t1"}]`))

	value, found, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.True(found)
	s.Equal(`[{"id":"t1"}]`, value)

	s.Require().NoError(s.store.Delete(ctx, key))
	_, found, err = s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.False(found)
}

func (s *RedisStoreSuite) TestOverwriteKeepsLatestValue() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, SessionKey, "first"))
	s.Require().NoError(s.store.Set(ctx, SessionKey, "second"))

	value, _, err := s.store.Get(ctx, SessionKey)
	s.Require().NoError(err)
	s.Equal("second", value)
}
