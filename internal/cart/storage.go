package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryStorage keeps carts in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: map[string][]byte{}}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]Line, error) {
	s.mu.Lock()
	payload, ok := s.carts[key]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.carts[key] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.carts, key)
	s.mu.Unlock()
	return nil
}

// RedisStorage stores each cart as a JSON string whose TTL is refreshed on
// every read and write, so abandoned carts expire on their own.
type RedisStorage struct {
	Client redis.Cmdable
	TTL    time.Duration
}

func NewRedisStorage(client redis.Cmdable, ttl time.Duration) *RedisStorage {
	return &RedisStorage{Client: client, TTL: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]Line, error) {
	payload, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		// A corrupt payload is treated as an empty cart and dropped.
		_ = s.Client.Del(ctx, key).Err()
		return nil, nil
	}
	if s.TTL > 0 {
		_ = s.Client.Expire(ctx, key, s.TTL).Err()
	}
	return lines, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key, payload, s.TTL).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}
