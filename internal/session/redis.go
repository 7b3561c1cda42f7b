package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salonops/repeat-insight/internal/analytics"
	"github.com/salonops/repeat-insight/internal/normalize"
)

// RedisStore shares session state across server processes. Datasets and
// results are stored as JSON under per-session keys with the session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func datasetKey(id string) string { return "repeat-insight:session:" + id + ":dataset" }
func resultKey(id string) string  { return "repeat-insight:session:" + id + ":result" }

func (s *RedisStore) SaveDataset(ctx context.Context, id string, ds *normalize.Dataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	return s.client.Set(ctx, datasetKey(id), data, s.ttl).Err()
}

func (s *RedisStore) GetDataset(ctx context.Context, id string) (*normalize.Dataset, error) {
	data, err := s.client.Get(ctx, datasetKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var ds normalize.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("unmarshal dataset: %w", err)
	}
	return &ds, nil
}

func (s *RedisStore) SaveResult(ctx context.Context, id string, result *analytics.AnalysisResult) error {
	// A result without its dataset is an orphan; require the session to exist.
	exists, err := s.client.Exists(ctx, datasetKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return s.client.Set(ctx, resultKey(id), data, s.ttl).Err()
}

func (s *RedisStore) GetResult(ctx context.Context, id string) (*analytics.AnalysisResult, error) {
	data, err := s.client.Get(ctx, resultKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var result analytics.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}
