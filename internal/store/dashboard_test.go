package store

import (
	"context"
	"testing"

	"crm-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardEmptyStore(t *testing.T) {
	s := newTestStore(t)

	m, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DashboardMetrics{}, *m)
}

func TestDashboardCountsAreFresh(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customerID := seedCustomer(t, s, "Acme")
	productID := seedProduct(t, s, "SKU-1", 100)

	order, err := s.CreateOrder(ctx, map[string]any{
		"customer_id": customerID,
		"items":       []any{map[string]any{"product_id": productID, "quantity": int64(1)}},
	})
	require.NoError(t, err)

	kase, err := s.CreateCase(ctx, map[string]any{
		"customer_id": customerID,
		"title":       "Open case",
	})
	require.NoError(t, err)

	m, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, m.Customers)
	assert.EqualValues(t, 1, m.Products)
	assert.EqualValues(t, 1, m.Orders)
	assert.EqualValues(t, 1, m.Cases)
	assert.EqualValues(t, 1, m.OpenCases)
	assert.EqualValues(t, 1, m.PendingOrders)

	// the counters track status filters immediately, nothing is cached
	_, err = s.UpdateCase(ctx, kase.ID, map[string]any{"status": models.CaseStatusClosed})
	require.NoError(t, err)
	_, err = s.UpdateOrder(ctx, order.ID, map[string]any{"status": models.OrderStatusShipped})
	require.NoError(t, err)

	m, err = s.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, m.OpenCases)
	assert.EqualValues(t, 0, m.PendingOrders)
	assert.EqualValues(t, 1, m.Cases)
	assert.EqualValues(t, 1, m.Orders)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	m, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, m.Customers)
	assert.EqualValues(t, 4, m.Products)
	assert.EqualValues(t, 1, m.Orders)
	assert.EqualValues(t, 1, m.Cases)

	// the seeded order totals the unlimited plan plus a SIM
	detail, err := s.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 7500, detail.TotalCents)
	assert.Len(t, detail.Items, 2)
}

func TestActivitiesRecordedOnMutations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := seedCustomer(t, s, "Acme")
	_, err := s.UpdateCustomer(ctx, id, map[string]any{"status": models.CustomerStatusInactive})
	require.NoError(t, err)
	require.NoError(t, s.DeleteCustomer(ctx, id))

	activities, err := s.ListActivities(ctx, 10)
	require.NoError(t, err)
	require.Len(t, activities, 3)

	// newest first
	assert.Equal(t, "deleted", activities[0].Activity)
	assert.Equal(t, "updated", activities[1].Activity)
	assert.Equal(t, "created", activities[2].Activity)
	assert.Equal(t, "customer", activities[0].EntityType)
	assert.Equal(t, id, activities[0].EntityID)
}
