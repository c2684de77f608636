package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStore opens a fresh in-memory database. The store pins a single
// connection, so the memory database survives for the store's lifetime.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCustomer(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	customer, err := s.CreateCustomer(context.Background(), map[string]any{"name": name})
	require.NoError(t, err)
	return customer.ID
}

func seedProduct(t *testing.T, s *Store, sku string, priceCents int64) int64 {
	t.Helper()
	product, err := s.CreateProduct(context.Background(), map[string]any{
		"sku":         sku,
		"name":        "Product " + sku,
		"price_cents": priceCents,
	})
	require.NoError(t, err)
	return product.ID
}

func TestOpenMigratesSchema(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"customers", "addresses", "contacts", "products", "orders", "order_items", "cases", "activities"} {
		var n int64
		err := s.db.Get(&n, "SELECT COUNT(*) FROM "+table)
		require.NoError(t, err, "table %s should exist", table)
		require.Zero(t, n)
	}
}

func TestOpenIsRerunnable(t *testing.T) {
	// CREATE TABLE IF NOT EXISTS must tolerate an already-migrated file.
	s := newTestStore(t)
	require.NoError(t, migrate(s.db))
}
