// Package storage is the client's durable key-value store, the equivalent of
// the browser's localStorage. It keeps only a handful of well-known keys and
// supports clearing them all in one stroke on logout.
package storage

import "context"

// Canonical storage keys. External contract — do not rename.
const (
	KeyToken = "token"   // raw bearer token string
	KeyUser  = "user"    // serialized identity object
	KeyShop  = "shop_id" // optional merchant shop context
)

// Store is a small durable key-value surface. Get returns the empty string
// (not an error) for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key held by this application, including keys
	// unrelated to the session such as the shop context.
	Clear(ctx context.Context) error
}

// ShopContext reads the currently-selected merchant shop from a Store. It is
// the value the HTTP layer attaches as a scoping header on every request.
type ShopContext struct {
	st Store
}

// NewShopContext wraps st.
func NewShopContext(st Store) *ShopContext {
	return &ShopContext{st: st}
}

// ShopID returns the selected shop identifier, or "" when none is set or the
// store is unreadable. A missing shop context is never an error.
func (s *ShopContext) ShopID(ctx context.Context) string {
	v, err := s.st.Get(ctx, KeyShop)
	if err != nil {
		return ""
	}
	return v
}
