package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisShadowStore keeps the reputation shadow in Redis so seeder and
// simulator processes (or repeated runs) observe the same copy.
type RedisShadowStore struct {
	client *redis.Client
}

func NewRedisShadowStore(cfg *config.Config) (*RedisShadowStore, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisShadowStore{client: rdb}, nil
}

func shadowKey(id string) string {
	return "reputation:" + id
}

func (s *RedisShadowStore) Get(ctx context.Context, id string) (int, bool, error) {
	val, err := s.client.Get(ctx, shadowKey(id)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (s *RedisShadowStore) Set(ctx context.Context, id string, reputation int) error {
	return s.client.Set(ctx, shadowKey(id), reputation, 0).Err()
}

func (s *RedisShadowStore) Reward(ctx context.Context, id string, delta, max int) error {
	rep, err := s.client.IncrBy(ctx, shadowKey(id), int64(delta)).Result()
	if err != nil {
		return err
	}
	if rep > int64(max) {
		return s.client.Set(ctx, shadowKey(id), max, 0).Err()
	}
	return nil
}

func (s *RedisShadowStore) Penalize(ctx context.Context, id string, penalty int) error {
	rep, err := s.client.DecrBy(ctx, shadowKey(id), int64(penalty)).Result()
	if err != nil {
		return err
	}
	if rep < 0 {
		return s.client.Set(ctx, shadowKey(id), 0, 0).Err()
	}
	return nil
}

func (s *RedisShadowStore) Snapshot(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int)
	iter := s.client.Scan(ctx, 0, shadowKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := s.client.Get(ctx, key).Int()
		if err != nil {
			continue
		}
		out[key[len("reputation:"):]] = val
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
