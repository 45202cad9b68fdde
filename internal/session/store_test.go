package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestStores(t *testing.T) {
	mr := miniredis.RunT(t)
	redisStore, err := NewRedisStore("redis://"+mr.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { redisStore.Close() })

	stores := []struct {
		name  string
		store Store
	}{
		{"memory", NewMemoryStore()},
		{"redis", redisStore},
	}

	for _, tt := range stores {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := tt.store.Get(ctx, "cart:4")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if ok {
				t.Error("Get() on missing key should report absent")
			}

			if err := tt.store.Set(ctx, "cart:4", []byte(`{"items":[]}`)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			value, ok, err := tt.store.Get(ctx, "cart:4")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !ok {
				t.Fatal("Get() should find the stored key")
			}
			if string(value) != `{"items":[]}` {
				t.Errorf("Get() = %q, want %q", value, `{"items":[]}`)
			}

			// Keys are independent.
			_, ok, err = tt.store.Get(ctx, "cart:5")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if ok {
				t.Error("Get() for another key should report absent")
			}

			if err := tt.store.Delete(ctx, "cart:4"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			_, ok, _ = tt.store.Get(ctx, "cart:4")
			if ok {
				t.Error("Get() after Delete() should report absent")
			}
		})
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+mr.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.Set(ctx, "cart:4", []byte("x")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "cart:4")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() should report absent after TTL elapsed")
	}
}

func TestNewRedisStoreInvalidURL(t *testing.T) {
	if _, err := NewRedisStore("not-a-url", 0); err == nil {
		t.Error("NewRedisStore() should reject an invalid URL")
	}
}
