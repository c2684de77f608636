package store

import (
	"context"
	"regexp"
	"testing"

	"crm-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var isoStamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

func TestCreateCustomerDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer, err := s.CreateCustomer(ctx, map[string]any{"name": "Acme Telecom"})
	require.NoError(t, err)

	assert.NotZero(t, customer.ID)
	assert.Equal(t, "Acme Telecom", customer.Name)
	assert.Equal(t, models.CustomerTypeIndividual, customer.Type)
	assert.Equal(t, models.CustomerStatusActive, customer.Status)
	assert.Nil(t, customer.Email)
	assert.Regexp(t, isoStamp, customer.CreatedAt)
	assert.Regexp(t, isoStamp, customer.UpdatedAt)
}

func TestCreateCustomerExplicitNullsUseDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// An explicit null for a defaulted column coerces to the default;
	// storing NULL would leave a row the typed read-back cannot scan.
	customer, err := s.CreateCustomer(ctx, map[string]any{
		"name":   "Acme Telecom",
		"type":   nil,
		"status": nil,
		"email":  nil,
	})
	require.NoError(t, err)

	assert.Equal(t, models.CustomerTypeIndividual, customer.Type)
	assert.Equal(t, models.CustomerStatusActive, customer.Status)
	assert.Nil(t, customer.Email)
}

func TestUpdateCustomerNullStatusIgnoredNullEmailClears(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer, err := s.CreateCustomer(ctx, map[string]any{
		"name":  "Acme",
		"email": "ops@acme.example",
	})
	require.NoError(t, err)

	updated, err := s.UpdateCustomer(ctx, customer.ID, map[string]any{
		"status": nil,
		"email":  nil,
	})
	require.NoError(t, err)

	// defaulted column keeps its value; nullable column is cleared
	assert.Equal(t, models.CustomerStatusActive, updated.Status)
	assert.Nil(t, updated.Email)
}

func TestCreateCustomerMissingNameFails(t *testing.T) {
	s := newTestStore(t)

	// No synthesized defaults for NOT NULL columns: the constraint
	// failure propagates as the write error.
	_, err := s.CreateCustomer(context.Background(), map[string]any{"email": "a@b.c"})
	assert.Error(t, err)
}

func TestGetCustomerNestedListsPresentWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedCustomer(t, s, "Jane Doe")

	detail, err := s.GetCustomer(ctx, id)
	require.NoError(t, err)

	assert.NotNil(t, detail.Addresses)
	assert.NotNil(t, detail.Contacts)
	assert.Empty(t, detail.Addresses)
	assert.Empty(t, detail.Contacts)
}

func TestGetCustomerIncludesAddressesAndContacts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedCustomer(t, s, "Jane Doe")

	require.NoError(t, s.AddAddress(ctx, &models.Address{
		CustomerID: id, Line1: "55 Pine Ave", Country: "US", IsPrimary: true,
	}))
	require.NoError(t, s.AddContact(ctx, &models.Contact{
		CustomerID: id, Name: "Sam Ops",
	}))

	detail, err := s.GetCustomer(ctx, id)
	require.NoError(t, err)
	require.Len(t, detail.Addresses, 1)
	require.Len(t, detail.Contacts, 1)
	assert.Equal(t, "55 Pine Ave", detail.Addresses[0].Line1)
	assert.True(t, detail.Addresses[0].IsPrimary)
	assert.Equal(t, "Sam Ops", detail.Contacts[0].Name)
}

func TestGetCustomerMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCustomer(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCustomerHonorsAllowList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedCustomer(t, s, "Acme")

	before, err := s.GetCustomer(ctx, id)
	require.NoError(t, err)

	updated, err := s.UpdateCustomer(ctx, id, map[string]any{
		"email":      "ops@acme.example",
		"id":         int64(12345),
		"created_at": "1999-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Email)
	assert.Equal(t, "ops@acme.example", *updated.Email)
	// fields outside the allow-list are silently ignored
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
}

func TestUpdateCustomerEmptyInputStillSucceeds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedCustomer(t, s, "Acme")

	// Empty intersection with the allow-list: only updated_at changes.
	updated, err := s.UpdateCustomer(ctx, id, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Regexp(t, isoStamp, updated.UpdatedAt)
}

func TestUpdateCustomerMissingID(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateCustomer(context.Background(), 999, map[string]any{"name": "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCustomerCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customerID := seedCustomer(t, s, "Acme")
	require.NoError(t, s.AddAddress(ctx, &models.Address{CustomerID: customerID, Line1: "100 Main St", Country: "US"}))

	productID := seedProduct(t, s, "SKU-1", 3000)
	order, err := s.CreateOrder(ctx, map[string]any{
		"customer_id": customerID,
		"items":       []any{map[string]any{"product_id": productID, "quantity": int64(1)}},
	})
	require.NoError(t, err)

	kase, err := s.CreateCase(ctx, map[string]any{
		"customer_id": customerID,
		"title":       "Broken SIM",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCustomer(ctx, customerID))

	_, err = s.GetCustomer(ctx, customerID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetCase(ctx, kase.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var addresses, items int64
	require.NoError(t, s.db.Get(&addresses, "SELECT COUNT(*) FROM addresses"))
	require.NoError(t, s.db.Get(&items, "SELECT COUNT(*) FROM order_items"))
	assert.Zero(t, addresses)
	assert.Zero(t, items)
}

func TestDeleteCustomerIdempotent(t *testing.T) {
	s := newTestStore(t)

	// Deleting an id that never existed succeeds; that observed
	// behavior is a contract, not something to fix.
	assert.NoError(t, s.DeleteCustomer(context.Background(), 12345))
}

func TestListCustomersFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCustomer(ctx, map[string]any{"name": "Acme Telecom", "email": "ops@acme.example"})
	require.NoError(t, err)
	_, err = s.CreateCustomer(ctx, map[string]any{"name": "Jane Doe", "email": "jane@example.com"})
	require.NoError(t, err)

	all, err := s.ListCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	acme, err := s.ListCustomers(ctx, "Acme")
	require.NoError(t, err)
	require.Len(t, acme, 1)
	assert.Equal(t, "Acme Telecom", acme[0].Name)

	// email column matches too
	byEmail, err := s.ListCustomers(ctx, "jane@")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Jane Doe", byEmail[0].Name)

	none, err := s.ListCustomers(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}
