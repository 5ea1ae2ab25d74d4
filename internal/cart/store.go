package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store loads and saves one cart per session identity.
type Store interface {
	Load(ctx context.Context, owner string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, owner string) error
}

type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]Line
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Line)}
}

func (s *MemoryStore) Load(_ context.Context, owner string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := New(owner)
	c.Lines = append(c.Lines, s.carts[owner]...)
	return c, nil
}

func (s *MemoryStore) Save(_ context.Context, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Empty() {
		delete(s.carts, c.Owner)
		return nil
	}
	s.carts[c.Owner] = append([]Line(nil), c.Lines...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, owner)
	return nil
}

// RedisStore keeps each cart as a JSON blob under cart:<owner> with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(owner string) string {
	return "cart:" + owner
}

func (s *RedisStore) Load(ctx context.Context, owner string) (*Cart, error) {
	data, err := s.client.Get(ctx, key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	c := New(owner)
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	c.Owner = owner
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *Cart) error {
	if c.Empty() {
		return s.Delete(ctx, c.Owner)
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, key(c.Owner), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, key(owner)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
