package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps records as JSON strings under prefix+id with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

var _ ResultStore = &RedisStore{}

// NewRedisStore wraps client. A zero ttl keeps records forever.
func NewRedisStore(client *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (rs *RedisStore) key(id uuid.UUID) string {
	return rs.prefix + id.String()
}

func (rs *RedisStore) Save(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("server: encode record %s: %w", rec.ID, err)
	}
	return rs.client.Set(ctx, rs.key(rec.ID), data, rs.ttl).Err()
}

func (rs *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	data, err := rs.client.Get(ctx, rs.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("server: decode record %s: %w", id, err)
	}
	return &rec, nil
}

func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
