package cache

import (
	"context"
	"road-status-service/internal/domain"
	"road-status-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisSessionCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisSessionCache(client, time.Minute)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "rw-1"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := domain.Coordinates{Lat: -22.5597, Lon: 17.0832}
	if err := c.Put(ctx, "rw-1", ports.SessionEntry{Coordinates: want}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Put(ctx, "rw-2", ports.SessionEntry{Unresolved: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, "rw-1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Coordinates != want || got.Unresolved {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	neg, ok, err := c.Get(ctx, "rw-2")
	if err != nil || !ok || !neg.Unresolved {
		t.Fatalf("expected cached unresolved marker, got %+v ok=%v err=%v", neg, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "rw-1"); ok {
		t.Fatalf("expected entry to expire after ttl")
	}
}

func TestMemorySessionCache(t *testing.T) {
	c := NewMemorySessionCache()
	ctx := context.Background()

	_ = c.Put(ctx, "k", ports.SessionEntry{Unresolved: true})
	e, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || !e.Unresolved {
		t.Fatalf("expected unresolved entry, got %+v ok=%v err=%v", e, ok, err)
	}
}
