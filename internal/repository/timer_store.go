package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/study-tracker-api/internal/models"
)

// RedisTimerStore keeps the active timer as JSON under a single key so it
// survives restarts and is shared by every API replica.
type RedisTimerStore struct {
	client *redis.Client
	key    string
}

// NewRedisTimerStore constructs a Redis-backed timer store.
func NewRedisTimerStore(client *redis.Client, key string) *RedisTimerStore {
	return &RedisTimerStore{client: client, key: key}
}

// Load returns the stored timer, or nil when none is active.
func (s *RedisTimerStore) Load(ctx context.Context) (*models.TimerState, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	var state models.TimerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal timer state: %w", err)
	}
	return &state, nil
}

// Save overwrites the timer without expiry.
func (s *RedisTimerStore) Save(ctx context.Context, state models.TimerState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Clear removes the timer.
func (s *RedisTimerStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", s.key, err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (s *RedisTimerStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// MemoryTimerStore keeps the active timer in process memory.
type MemoryTimerStore struct {
	mu    sync.Mutex
	state *models.TimerState
}

// NewMemoryTimerStore returns an empty in-process timer store.
func NewMemoryTimerStore() *MemoryTimerStore {
	return &MemoryTimerStore{}
}

// Load returns a copy of the timer, or nil when none is active.
func (s *MemoryTimerStore) Load(context.Context) (*models.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, nil
	}
	state := *s.state
	return &state, nil
}

// Save overwrites the timer.
func (s *MemoryTimerStore) Save(_ context.Context, state models.TimerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &state
	return nil
}

// Clear removes the timer.
func (s *MemoryTimerStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}
