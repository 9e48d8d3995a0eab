// Package redisstore keeps the encoded study program as one JSON string under
// a single Redis key.
package redisstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/ports"
)

const defaultKey = "studytrack:program"

// Commander is the subset of *redis.Client the store uses.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Close() error
}

type Store struct {
	client Commander
	key    string
}

var _ ports.StoreCloser = (*Store)(nil)

// Open builds a client from config and pings it.
func Open(ctx context.Context, cfg domain.RedisConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, &domain.OpError{
			Op:   "redisstore.open",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("storage.redis.addr is empty: %w", domain.ErrInvalidConfig),
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, storageErr("redisstore.ping", cfg.Addr, err)
	}
	return New(client, cfg.Key), nil
}

// New wraps an existing client.
func New(client Commander, key string) *Store {
	if strings.TrimSpace(key) == "" {
		key = defaultKey
	}
	return &Store{client: client, key: key}
}

func (s *Store) Load(ctx context.Context) (map[string]any, bool, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr("redisstore.get", s.key, err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, false, malformed(s.key, err)
	}
	if doc == nil {
		return nil, false, malformed(s.key, errors.New("document is null"))
	}
	return doc, true, nil
}

func (s *Store) Save(ctx context.Context, doc map[string]any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return storageErr("redisstore.marshal", s.key, err)
	}
	if err := s.client.Set(ctx, s.key, b, 0).Err(); err != nil {
		return storageErr("redisstore.set", s.key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func malformed(key string, err error) error {
	return &domain.OpError{
		Op:   "redisstore.parse",
		Kind: domain.KindMalformed,
		Path: key,
		Err:  fmt.Errorf("%w: %w", domain.ErrMalformedData, err),
	}
}

func storageErr(op, key string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindStorage,
		Path: key,
		Err:  fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err),
	}
}
