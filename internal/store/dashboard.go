package store

import (
	"context"

	"crm-service/internal/models"
)

// Dashboard returns the six aggregate counters, recomputed from the
// tables on every call. It never fails on an empty store; all counters
// are simply zero.
func (s *Store) Dashboard(ctx context.Context) (*models.DashboardMetrics, error) {
	var m models.DashboardMetrics
	counts := []struct {
		dst   *int64
		query string
	}{
		{&m.Customers, "SELECT COUNT(*) FROM customers"},
		{&m.Products, "SELECT COUNT(*) FROM products"},
		{&m.Orders, "SELECT COUNT(*) FROM orders"},
		{&m.Cases, "SELECT COUNT(*) FROM cases"},
		{&m.OpenCases, "SELECT COUNT(*) FROM cases WHERE status IN ('Open','In Progress')"},
		{&m.PendingOrders, "SELECT COUNT(*) FROM orders WHERE status IN ('Pending','Confirmed')"},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, c.query); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// ListActivities returns the most recent audit-trail entries, newest
// first, capped at limit.
func (s *Store) ListActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	activities := []models.Activity{}
	err := s.db.SelectContext(ctx, &activities,
		"SELECT * FROM activities ORDER BY id DESC LIMIT ?", limit)
	return activities, err
}
