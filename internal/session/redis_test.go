package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t, time.Hour)
	id := NewID()

	if err := s.SaveDataset(ctx, id, sampleDataset()); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}
	ds, err := s.GetDataset(ctx, id)
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if len(ds.Records) != 1 || ds.Records[0].CustomerID != "PHONE_09011112222" {
		t.Errorf("dataset mangled through json: %+v", ds)
	}
	if !ds.Columns["visit_date"] {
		t.Errorf("columns lost through json: %v", ds.Columns)
	}

	if err := s.SaveResult(ctx, id, sampleResult()); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	result, err := s.GetResult(ctx, id)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if result.BasicStats.TotalNewCustomers != 3 {
		t.Errorf("result mangled through json: %+v", result)
	}
}

func TestRedisStoreUnknownSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t, time.Hour)

	if _, err := s.GetDataset(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDataset err = %v, want ErrNotFound", err)
	}
	if err := s.SaveResult(ctx, "nope", sampleResult()); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveResult without dataset err = %v, want ErrNotFound", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t, time.Minute)
	id := NewID()

	if err := s.SaveDataset(ctx, id, sampleDataset()); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := s.GetDataset(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session err = %v, want ErrNotFound", err)
	}
}
