package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"crm-service/internal/models"
)

// customerUpdatable is the allow-list of mutable customer columns.
// Update statements are built from this list only, never from client
// supplied keys.
var customerUpdatable = []string{"name", "type", "email", "phone", "status"}

// ListCustomers returns all customers newest first. A non-empty filter
// narrows the result to rows whose name or email contains it, using the
// store's LIKE semantics.
func (s *Store) ListCustomers(ctx context.Context, filter string) ([]models.Customer, error) {
	customers := []models.Customer{}
	if filter != "" {
		like := "%" + filter + "%"
		err := s.db.SelectContext(ctx, &customers,
			"SELECT * FROM customers WHERE name LIKE ? OR email LIKE ? ORDER BY created_at DESC",
			like, like)
		return customers, err
	}
	err := s.db.SelectContext(ctx, &customers,
		"SELECT * FROM customers ORDER BY created_at DESC")
	return customers, err
}

// GetCustomer returns a customer enriched with its addresses and
// contacts. Both nested lists are present (and empty) even when the
// customer owns none.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.CustomerDetail, error) {
	customer, err := s.customerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.CustomerDetail{
		Customer:  *customer,
		Addresses: []models.Address{},
		Contacts:  []models.Contact{},
	}

	if err := s.db.SelectContext(ctx, &detail.Addresses,
		"SELECT * FROM addresses WHERE customer_id = ?", id); err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &detail.Contacts,
		"SELECT * FROM contacts WHERE customer_id = ?", id); err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateCustomer inserts a customer from a decoded request body and
// returns the created row. A missing required field inserts NULL and
// surfaces as the datastore's constraint error.
func (s *Store) CreateCustomer(ctx context.Context, fields map[string]any) (*models.Customer, error) {
	now := nowISO()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO customers(name, type, email, phone, status, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		fields["name"],
		valueOr(fields, "type", models.CustomerTypeIndividual),
		fields["email"],
		fields["phone"],
		valueOr(fields, "status", models.CustomerStatusActive),
		now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	recordActivity(ctx, s.db, "customer", id, "created")
	return s.customerByID(ctx, id)
}

// UpdateCustomer applies the allow-listed subset of fields and refreshes
// updated_at unconditionally, then returns the post-update row.
func (s *Store) UpdateCustomer(ctx context.Context, id int64, fields map[string]any) (*models.Customer, error) {
	sets := make([]string, 0, len(customerUpdatable)+1)
	args := make([]any, 0, len(customerUpdatable)+2)
	for _, col := range customerUpdatable {
		v, ok := fields[col]
		if !ok || (v == nil && defaultedCols[col]) {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, nowISO(), id)

	if _, err := s.db.ExecContext(ctx,
		"UPDATE customers SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	recordActivity(ctx, s.db, "customer", id, "updated")
	return s.customerByID(ctx, id)
}

// DeleteCustomer removes a customer; addresses, contacts, orders (with
// their items) and cases cascade away with it. Deleting an absent id is
// a successful no-op.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	recordActivity(ctx, s.db, "customer", id, "deleted")
	return nil
}

// AddAddress inserts an address for a customer and fills in its id.
func (s *Store) AddAddress(ctx context.Context, a *models.Address) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO addresses(customer_id, line1, line2, city, state, postal_code, country, is_primary) VALUES (?,?,?,?,?,?,?,?)",
		a.CustomerID, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.IsPrimary)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	a.ID, err = res.LastInsertId()
	return err
}

// AddContact inserts a contact for a customer and fills in its id.
func (s *Store) AddContact(ctx context.Context, c *models.Contact) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contacts(customer_id, name, email, phone, role) VALUES (?,?,?,?,?)",
		c.CustomerID, c.Name, c.Email, c.Phone, c.Role)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (s *Store) customerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
