package store

import (
	"context"
	"fmt"

	"crm-service/internal/models"
)

// Seed populates empty tables with the demo dataset: two customers with
// addresses and a contact, four telecom products, one pending order with
// items and a recomputed total, and one open case. Tables that already
// hold rows are left untouched, so Seed is safe to run on every start.
func (s *Store) Seed(ctx context.Context) error {
	var n int64

	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM customers"); err != nil {
		return err
	}
	if n == 0 {
		now := nowISO()
		customers := []struct {
			name, typ, email, phone, status string
		}{
			{"Acme Telecom", "Business", "ops@acme.example", "+1-202-555-0147", "Active"},
			{"Jane Doe", "Individual", "jane@example.com", "+1-202-555-0183", "Active"},
		}
		for _, c := range customers {
			if _, err := s.db.ExecContext(ctx,
				"INSERT INTO customers(name, type, email, phone, status, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
				c.name, c.typ, c.email, c.phone, c.status, now, now); err != nil {
				return fmt.Errorf("seed customers: %w", err)
			}
		}

		addresses := []models.Address{
			{CustomerID: 1, Line1: "100 Main St", City: strPtr("Metropolis"), State: strPtr("NY"), PostalCode: strPtr("10001"), Country: "US", IsPrimary: true},
			{CustomerID: 2, Line1: "55 Pine Ave", City: strPtr("Springfield"), State: strPtr("IL"), PostalCode: strPtr("62701"), Country: "US", IsPrimary: true},
		}
		for i := range addresses {
			if err := s.AddAddress(ctx, &addresses[i]); err != nil {
				return fmt.Errorf("seed addresses: %w", err)
			}
		}

		contact := models.Contact{
			CustomerID: 1,
			Name:       "Sam Ops",
			Email:      strPtr("sam.ops@acme.example"),
			Phone:      strPtr("+1-202-555-0123"),
			Role:       strPtr("Operations"),
		}
		if err := s.AddContact(ctx, &contact); err != nil {
			return fmt.Errorf("seed contacts: %w", err)
		}
	}

	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM products"); err != nil {
		return err
	}
	if n == 0 {
		now := nowISO()
		products := []struct {
			sku, name, desc, cat string
			priceCents           int64
		}{
			{"PLAN-5G-BASIC", "5G Basic Plan", "10GB data, unlimited talk/text", "Plan", 3000},
			{"PLAN-5G-UNL", "5G Unlimited Plan", "Unlimited data, talk, text", "Plan", 7000},
			{"ROUTER-ACME-1000", "Acme Home Router 1000", "WiFi 6 home router", "Device", 12999},
			{"SIM-TRI-CUT", "Tri-cut SIM", "Multi-size SIM card", "Accessory", 500},
		}
		for _, p := range products {
			if _, err := s.db.ExecContext(ctx,
				"INSERT INTO products(sku, name, description, category, price_cents, created_at) VALUES (?,?,?,?,?,?)",
				p.sku, p.name, p.desc, p.cat, p.priceCents, now); err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}
	}

	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM orders"); err != nil {
		return err
	}
	if n == 0 {
		items := []any{}
		for _, sku := range []string{"PLAN-5G-UNL", "SIM-TRI-CUT"} {
			product, err := s.GetProductBySKU(ctx, sku)
			if err != nil {
				return fmt.Errorf("seed order: %w", err)
			}
			items = append(items, map[string]any{
				"product_id": product.ID,
				"quantity":   int64(1),
			})
		}
		if _, err := s.CreateOrder(ctx, map[string]any{
			"customer_id": int64(1),
			"notes":       "Initial demo order",
			"items":       items,
		}); err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
	}

	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM cases"); err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.CreateCase(ctx, map[string]any{
			"customer_id": int64(1),
			"order_id":    int64(1),
			"title":       "SIM not activating",
			"description": "Customer reports SIM activation failure.",
			"status":      models.CaseStatusOpen,
			"priority":    models.CasePriorityHigh,
			"assignee":    "agent.alex",
		}); err != nil {
			return fmt.Errorf("seed case: %w", err)
		}
	}

	return nil
}

func strPtr(s string) *string {
	return &s
}
