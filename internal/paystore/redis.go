package paystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cafeteria:payment_intent:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Save(ctx context.Context, in *Intent, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal intent: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+in.Token, data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Intent, error) {
	data, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	return decode(data, err)
}

func (s *RedisStore) Take(ctx context.Context, token string) (*Intent, error) {
	data, err := s.client.GetDel(ctx, keyPrefix+token).Bytes()
	return decode(data, err)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decode(data []byte, err error) (*Intent, error) {
	if errors.Is(err, redis.Nil) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read intent: %w", err)
	}
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intent: %w", err)
	}
	return &in, nil
}
