package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"crm-service/internal/models"
)

// productUpdatable is the allow-list of mutable product columns. There
// is no updated_at column on products.
var productUpdatable = []string{"sku", "name", "description", "category", "price_cents", "currency", "is_active"}

// ListProducts returns all products newest first, optionally filtered by
// a name/sku substring.
func (s *Store) ListProducts(ctx context.Context, filter string) ([]models.Product, error) {
	products := []models.Product{}
	if filter != "" {
		like := "%" + filter + "%"
		err := s.db.SelectContext(ctx, &products,
			"SELECT * FROM products WHERE name LIKE ? OR sku LIKE ? ORDER BY created_at DESC",
			like, like)
		return products, err
	}
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products ORDER BY created_at DESC")
	return products, err
}

// GetProduct retrieves a product by id
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU retrieves a product by its unique SKU
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE sku = ?", sku)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a product from a decoded request body and
// returns the created row. A duplicate SKU surfaces as the datastore's
// unique-constraint error.
func (s *Store) CreateProduct(ctx context.Context, fields map[string]any) (*models.Product, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO products(sku, name, description, category, price_cents, currency, is_active, created_at) VALUES (?,?,?,?,?,?,?,?)",
		fields["sku"],
		fields["name"],
		fields["description"],
		fields["category"],
		intOrDefault(fields, "price_cents", 0),
		valueOr(fields, "currency", "USD"),
		boolAsInt(fields, "is_active", true),
		nowISO())
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	recordActivity(ctx, s.db, "product", id, "created")
	return s.GetProduct(ctx, id)
}

// UpdateProduct applies the allow-listed subset of fields and returns
// the post-update row. With no allow-listed field in the input the
// update is skipped entirely: products carry no updated_at to refresh.
func (s *Store) UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*models.Product, error) {
	sets := make([]string, 0, len(productUpdatable))
	args := make([]any, 0, len(productUpdatable)+1)
	for _, col := range productUpdatable {
		v, ok := fields[col]
		if !ok || (v == nil && defaultedCols[col]) {
			continue
		}
		switch col {
		case "price_cents":
			if v != nil {
				if i, ok := toInt64(v); ok {
					v = i
				}
			}
		case "is_active":
			v = boolAsInt(fields, "is_active", false)
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if len(sets) > 0 {
		args = append(args, id)
		if _, err := s.db.ExecContext(ctx,
			"UPDATE products SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		recordActivity(ctx, s.db, "product", id, "updated")
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product. Deleting an absent id is a successful
// no-op.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	recordActivity(ctx, s.db, "product", id, "deleted")
	return nil
}
