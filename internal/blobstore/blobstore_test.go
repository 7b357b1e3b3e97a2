package blobstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Backend{
		"memory": NewMemory(),
		"redis":  NewRedis(client),
	}
}

func TestBackendRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := b.Get(ctx, "users.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := b.Put(ctx, "users.json", []byte(`[{"id":"u1"}]`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			data, err := b.Get(ctx, "users.json")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(data) != `[{"id":"u1"}]` {
				t.Fatalf("unexpected payload %q", data)
			}

			if err := b.Delete(ctx, "users.json"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := b.Get(ctx, "users.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestBackendList(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, key := range []string{"users.json", "ideas.json", "archive/old.json"} {
				if err := b.Put(ctx, key, []byte("[]")); err != nil {
					t.Fatalf("put %s: %v", key, err)
				}
			}

			keys, err := b.List(ctx, "")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(keys) != 3 {
				t.Fatalf("expected 3 keys, got %v", keys)
			}

			keys, err = b.List(ctx, "archive/")
			if err != nil {
				t.Fatalf("list prefix: %v", err)
			}
			if len(keys) != 1 || keys[0] != "archive/old.json" {
				t.Fatalf("unexpected prefixed keys %v", keys)
			}
		})
	}
}
