package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "3.5", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	val, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok || val != "3.5" {
		t.Fatalf("expected hit with 3.5, got ok=%v val=%q", ok, val)
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore(0)

	_, ok, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	_, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("expected expired entry to read as a miss")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected deleted key to read as a miss")
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "absent"); err != nil {
		t.Fatalf("deleting an absent key returned error: %v", err)
	}
}

func TestMemoryStoreEvictsOldestWhenFull(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, k, "v", time.Minute); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
	}

	if _, ok, _ := store.Get(ctx, "a"); ok {
		t.Fatal("expected oldest entry to be evicted")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok, _ := store.Get(ctx, k); !ok {
			t.Fatalf("expected %q to survive eviction", k)
		}
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreSetGet(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "7.25", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	val, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok || val != "7.25" {
		t.Fatalf("expected hit with 7.25, got ok=%v val=%q", ok, val)
	}
}

func TestRedisStoreMissIsNotAnError(t *testing.T) {
	store, _ := newRedisStore(t)

	_, ok, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("a miss must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to read as a miss")
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected deleted key to read as a miss")
	}
}
