package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// RedisStore keeps each document in a hash under prefix+key. A zero TTL
// means documents never expire.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, key string) (Document, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+key).Result()
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	payload, ok := fields["payload"]
	if !ok {
		return Document{}, ErrNotFound
	}
	ms, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return Document{}, fmt.Errorf("document %s: bad updated_at: %w", key, err)
	}
	return Document{Key: key, Payload: []byte(payload), UpdatedAt: fromMillis(ms)}, nil
}

func (r *RedisStore) Put(ctx context.Context, doc Document) error {
	doc, err := prepare(doc)
	if err != nil {
		return err
	}
	k := r.prefix + doc.Key
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k, "payload", doc.Payload, "updated_at", toMillis(doc.UpdatedAt))
		if r.ttl > 0 {
			p.Expire(ctx, k, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
