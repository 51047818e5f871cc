package state

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	errx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/errx"
	logx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger"
)

// RedisStore keeps each thread as a list of JSON turns plus a metadata
// hash. Every operation runs in a MULTI/EXEC transaction.
type RedisStore struct {
	rdb       redis.Cmdable
	keyPrefix string
	ttl       time.Duration
	now       func() time.Time
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb redis.Cmdable, opts ...StoreOption) *RedisStore {
	o := applyOptions(opts)
	return &RedisStore{
		rdb:       rdb,
		keyPrefix: o.keyPrefix,
		ttl:       o.ttl,
		now:       o.now,
	}
}

func (s *RedisStore) Resolve(ctx context.Context, threadID string) (*ThreadState, error) {
	turnsKey, metaKey, err := threadKeys(s.keyPrefix, threadID)
	if err != nil {
		return nil, err
	}
	now := formatTime(s.now())

	var (
		metaCmd  *redis.MapStringStringCmd
		turnsCmd *redis.StringSliceCmd
	)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, metaKey, fieldCreatedAt, now)
		pipe.HSetNX(ctx, metaKey, fieldUpdatedAt, now)
		pipe.HSetNX(ctx, metaKey, fieldVersion, 0)
		s.expire(ctx, pipe, turnsKey, metaKey)
		metaCmd = pipe.HGetAll(ctx, metaKey)
		turnsCmd = pipe.LRange(ctx, turnsKey, 0, -1)
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", metaKey).Msg("failed to resolve thread from redis")
		return nil, errx.WrapRedis(err)
	}

	return decodeThread(threadID, metaCmd.Val(), turnsCmd.Val())
}

func (s *RedisStore) Append(ctx context.Context, threadID string, turns ...contractx.Turn) (*ThreadState, error) {
	if len(turns) == 0 {
		return nil, ErrNoTurns
	}
	turnsKey, metaKey, err := threadKeys(s.keyPrefix, threadID)
	if err != nil {
		return nil, err
	}
	payloads, err := encodeTurns(turns)
	if err != nil {
		return nil, err
	}
	now := formatTime(s.now())

	var (
		metaCmd  *redis.MapStringStringCmd
		turnsCmd *redis.StringSliceCmd
	)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, metaKey, fieldCreatedAt, now)
		pipe.RPush(ctx, turnsKey, payloads...)
		pipe.HIncrBy(ctx, metaKey, fieldVersion, 1)
		pipe.HSet(ctx, metaKey, fieldUpdatedAt, now)
		s.expire(ctx, pipe, turnsKey, metaKey)
		metaCmd = pipe.HGetAll(ctx, metaKey)
		turnsCmd = pipe.LRange(ctx, turnsKey, 0, -1)
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", turnsKey).Int("turns", len(turns)).Msg("failed to append turns to redis")
		return nil, errx.WrapRedis(err)
	}

	return decodeThread(threadID, metaCmd.Val(), turnsCmd.Val())
}

// expire extends the TTL on every touch.
func (s *RedisStore) expire(ctx context.Context, pipe redis.Pipeliner, keys ...string) {
	if s.ttl <= 0 {
		return
	}
	for _, key := range keys {
		pipe.Expire(ctx, key, s.ttl)
	}
}
