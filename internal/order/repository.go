package order

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles order data persistence. Settlement treats orders as
// read-only except for the completion transition, which happens inside the
// settlement transaction.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new order repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves an order by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `
		SELECT id, client_id, freelancer_id, title, work_type, pages, slides,
		       pricing_model, client_amount, submitted, status, created_at
		FROM orders
		WHERE id = $1
	`

	o := &Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.ClientID,
		&o.FreelancerID,
		&o.Title,
		&o.WorkType,
		&o.Pages,
		&o.Slides,
		&o.PricingModel,
		&o.ClientAmount,
		&o.Submitted,
		&o.Status,
		&o.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

// ListByClientID retrieves a client's orders with pagination
func (r *Repository) ListByClientID(ctx context.Context, clientID int64, limit, offset int) ([]*Order, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM orders WHERE client_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, clientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `
		SELECT id, client_id, freelancer_id, title, work_type, pages, slides,
		       pricing_model, client_amount, submitted, status, created_at
		FROM orders
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o := &Order{}
		if err := rows.Scan(
			&o.ID,
			&o.ClientID,
			&o.FreelancerID,
			&o.Title,
			&o.WorkType,
			&o.Pages,
			&o.Slides,
			&o.PricingModel,
			&o.ClientAmount,
			&o.Submitted,
			&o.Status,
			&o.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, total, nil
}
