package store

import (
	"context"

	"crm-service/internal/models"
)

// searchLimit bounds each per-entity result list of a cross-entity
// search.
const searchLimit = 10

// Search runs independent bounded substring lookups against customers
// (name/email), products (name/sku), orders (id as text) and cases
// (title). All four lists come back together regardless of matches.
//
// An empty query returns four empty lists, not all rows. That is the
// opposite of the per-entity list operations, and both policies are
// kept as-is.
func (s *Store) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	results := &models.SearchResults{
		Customers: []models.Customer{},
		Products:  []models.Product{},
		Orders:    []models.Order{},
		Cases:     []models.Case{},
	}
	if query == "" {
		return results, nil
	}

	like := "%" + query + "%"
	if err := s.db.SelectContext(ctx, &results.Customers,
		"SELECT * FROM customers WHERE name LIKE ? OR email LIKE ? LIMIT ?", like, like, searchLimit); err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &results.Products,
		"SELECT * FROM products WHERE name LIKE ? OR sku LIKE ? LIMIT ?", like, like, searchLimit); err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &results.Orders,
		"SELECT * FROM orders WHERE CAST(id AS TEXT) LIKE ? LIMIT ?", like, searchLimit); err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &results.Cases,
		"SELECT * FROM cases WHERE title LIKE ? LIMIT ?", like, searchLimit); err != nil {
		return nil, err
	}
	return results, nil
}
