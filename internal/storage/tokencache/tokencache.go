// Package tokencache stores connector access tokens between flow calls.
package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/redis/go-redis/v9"
)

// storedToken keeps the raw token; domain.AccessToken masks it when marshalled.
type storedToken struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Connect parses the URL and pings once before returning the client.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("redis ready", "addr", opts.Addr)
	return client, nil
}

type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(k domain.AccessTokenKey) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, k.MerchantID, k.Connector)
}

// Get returns nil, nil on a miss.
func (s *RedisStore) Get(ctx context.Context, k domain.AccessTokenKey) (*domain.AccessToken, error) {
	raw, err := s.rdb.Get(ctx, s.key(k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get access token: %w", err)
	}
	var t storedToken
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}
	return &domain.AccessToken{Token: domain.Secret(t.Token), ExpiresIn: t.ExpiresIn}, nil
}

func (s *RedisStore) Set(ctx context.Context, k domain.AccessTokenKey, token domain.AccessToken, ttl time.Duration) error {
	raw, err := json.Marshal(storedToken{Token: token.Token.Expose(), ExpiresIn: token.ExpiresIn})
	if err != nil {
		return fmt.Errorf("encode access token: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(k), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set access token: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, k domain.AccessTokenKey) error {
	if err := s.rdb.Del(ctx, s.key(k)).Err(); err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}
	return nil
}

// MemoryStore is the single-process fallback used when no redis URL is configured.
type MemoryStore struct {
	mu     sync.Mutex
	now    func() time.Time
	tokens map[domain.AccessTokenKey]memoryEntry
}

type memoryEntry struct {
	token     domain.AccessToken
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, tokens: make(map[domain.AccessTokenKey]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, k domain.AccessTokenKey) (*domain.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tokens[k]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.tokens, k)
		return nil, nil
	}
	t := e.token
	return &t, nil
}

func (s *MemoryStore) Set(_ context.Context, k domain.AccessTokenKey, token domain.AccessToken, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[k] = memoryEntry{token: token, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, k domain.AccessTokenKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, k)
	return nil
}
