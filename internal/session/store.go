// Package session provides small key-value stores for per-visit state,
// namespaced by caller-chosen keys. Carts live here so a guest reloading
// the menu page gets their table's cart back, while other tables stay
// isolated.
package session

import "context"

// Store is a byte-oriented session store. Get reports whether the key
// was present so callers can tell "no session" from an empty value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
