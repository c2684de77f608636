package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	product, err := s.CreateProduct(ctx, map[string]any{
		"sku":         "PLAN-5G-BASIC",
		"name":        "5G Basic Plan",
		"price_cents": 3000,
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", product.Currency)
	assert.True(t, product.IsActive)
	assert.EqualValues(t, 3000, product.PriceCents)
	assert.Nil(t, product.Description)
	assert.Regexp(t, isoStamp, product.CreatedAt)
}

func TestCreateProductDuplicateSKUFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedProduct(t, s, "SKU-DUP", 100)
	_, err := s.CreateProduct(ctx, map[string]any{
		"sku":         "SKU-DUP",
		"name":        "Another",
		"price_cents": 200,
	})
	// unique constraint propagates as a plain write error
	assert.Error(t, err)
}

func TestGetProductBySKU(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := seedProduct(t, s, "ROUTER-ACME-1000", 12999)
	product, err := s.GetProductBySKU(ctx, "ROUTER-ACME-1000")
	require.NoError(t, err)
	assert.Equal(t, id, product.ID)

	_, err = s.GetProductBySKU(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductPriceOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedProduct(t, s, "SKU-1", 3000)

	before, err := s.GetProduct(ctx, id)
	require.NoError(t, err)

	updated, err := s.UpdateProduct(ctx, id, map[string]any{"price_cents": float64(9999)})
	require.NoError(t, err)

	assert.EqualValues(t, 9999, updated.PriceCents)
	assert.Equal(t, before.SKU, updated.SKU)
	assert.Equal(t, before.Name, updated.Name)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
}

func TestUpdateProductIgnoresUnknownFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedProduct(t, s, "SKU-1", 3000)

	// Nothing from the allow-list: products have no updated_at, so the
	// whole update is a no-op rather than an error.
	updated, err := s.UpdateProduct(ctx, id, map[string]any{"stock": 7})
	require.NoError(t, err)
	assert.EqualValues(t, 3000, updated.PriceCents)
}

func TestUpdateProductIsActiveCoercion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedProduct(t, s, "SKU-1", 3000)

	updated, err := s.UpdateProduct(ctx, id, map[string]any{"is_active": false})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestCreateProductNullCurrencyUsesDefault(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	product, err := s.CreateProduct(ctx, map[string]any{
		"sku":         "SKU-1",
		"name":        "Plan",
		"price_cents": 100,
		"currency":    nil,
		"is_active":   nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", product.Currency)
	assert.True(t, product.IsActive)
}

func TestUpdateProductNullIsActiveIgnored(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedProduct(t, s, "SKU-1", 3000)

	updated, err := s.UpdateProduct(ctx, id, map[string]any{"is_active": nil})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestDeleteProductIdempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.DeleteProduct(context.Background(), 404))
}
