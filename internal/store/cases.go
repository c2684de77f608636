package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"crm-service/internal/models"
)

// caseUpdatable is the allow-list of mutable case columns. customer_id
// and order_id are fixed at creation.
var caseUpdatable = []string{"title", "description", "status", "priority", "assignee"}

// ListCases returns all cases newest first, each joined with its
// customer's name.
func (s *Store) ListCases(ctx context.Context) ([]models.CaseSummary, error) {
	cases := []models.CaseSummary{}
	err := s.db.SelectContext(ctx, &cases,
		"SELECT cs.*, cu.name AS customer_name FROM cases cs JOIN customers cu ON cu.id = cs.customer_id ORDER BY cs.created_at DESC")
	return cases, err
}

// GetCase retrieves a case by id as a flat record
func (s *Store) GetCase(ctx context.Context, id int64) (*models.Case, error) {
	var kase models.Case
	err := s.db.GetContext(ctx, &kase, "SELECT * FROM cases WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &kase, nil
}

// CreateCase inserts a case from a decoded request body and returns the
// created row. order_id is optional; a zero or absent value stores NULL.
func (s *Store) CreateCase(ctx context.Context, fields map[string]any) (*models.Case, error) {
	customerID, err := requireInt(fields, "customer_id")
	if err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	var orderID any
	if v, ok := toInt64(fields["order_id"]); ok && v != 0 {
		orderID = v
	}

	now := nowISO()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO cases(customer_id, order_id, title, description, status, priority, assignee, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?,?)",
		customerID,
		orderID,
		fields["title"],
		fields["description"],
		valueOr(fields, "status", models.CaseStatusOpen),
		valueOr(fields, "priority", models.CasePriorityMedium),
		fields["assignee"],
		now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	recordActivity(ctx, s.db, "case", id, "created")
	return s.GetCase(ctx, id)
}

// UpdateCase applies the allow-listed subset of fields and refreshes
// updated_at unconditionally, then returns the post-update row.
func (s *Store) UpdateCase(ctx context.Context, id int64, fields map[string]any) (*models.Case, error) {
	sets := make([]string, 0, len(caseUpdatable)+1)
	args := make([]any, 0, len(caseUpdatable)+2)
	for _, col := range caseUpdatable {
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
		"UPDATE cases SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	recordActivity(ctx, s.db, "case", id, "updated")
	return s.GetCase(ctx, id)
}

// DeleteCase removes a case. Deleting an absent id is a successful no-op.
func (s *Store) DeleteCase(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cases WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}
	recordActivity(ctx, s.db, "case", id, "deleted")
	return nil
}
