package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: got %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "user", `{"email":"a@b.c","role":"user"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, err := store.Get(ctx, "user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != `{"email":"a@b.c","role":"user"}` {
		t.Errorf("Get returned %q", value)
	}

	if err := store.Set(ctx, "user", "second"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if value, _ := store.Get(ctx, "user"); value != "second" {
		t.Errorf("overwrite not applied, got %q", value)
	}

	if err := store.Delete(ctx, "user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "user"); err != nil {
		t.Fatalf("Delete of absent key: %v", err)
	}
	if _, err := store.Get(ctx, "user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, NewRedisStore(client))
}

func TestRedisStoreKeyLayout(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewPrefixed(NewRedisStore(client), DevicePrefix("abc"))
	if err := store.Set(context.Background(), "user", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := server.Get("device:abc:user")
	if err != nil {
		t.Fatalf("miniredis Get: %v", err)
	}
	if got != "value" {
		t.Errorf("got %q, want value", got)
	}
	if ttl := server.TTL("device:abc:user"); ttl != 0 {
		t.Errorf("slot should not expire, ttl %v", ttl)
	}
}

func TestPrefixedIsolation(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryStore()

	first := NewPrefixed(memory, DevicePrefix("one"))
	second := NewPrefixed(memory, DevicePrefix("two"))

	exerciseStore(t, first)

	if err := first.Set(ctx, "user", "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := second.Get(ctx, "user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second device saw first device slot: %v", err)
	}
	if value, _ := memory.Get(ctx, "device:one:user"); value != "first" {
		t.Errorf("unexpected raw value %q", value)
	}
	if memory.Len() != 1 {
		t.Errorf("Len = %d, want 1", memory.Len())
	}
}

func TestOpen(t *testing.T) {
	store, err := Open("")
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("got %T, want *MemoryStore", store)
	}

	if _, err := Open("etcd"); err == nil {
		t.Error("expected error for unknown backend")
	}
}
