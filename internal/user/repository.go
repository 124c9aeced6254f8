package user

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles account data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves an account by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, email, role, balance, lifetime_earned, completed_orders, manager_id, created_at
		FROM users
		WHERE id = $1
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.Balance,
		&user.LifetimeEarned,
		&user.CompletedOrders,
		&user.ManagerID,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ResolveSettlementManager returns the manager to credit for an order: the
// freelancer's manager when one exists, otherwise the client's manager.
// Returns nil when neither account has a manager.
func (r *Repository) ResolveSettlementManager(ctx context.Context, freelancerID *int64, clientID int64) (*int64, error) {
	if freelancerID != nil {
		managerID, err := r.managerOf(ctx, *freelancerID)
		if err != nil {
			return nil, err
		}
		if managerID != nil {
			return managerID, nil
		}
	}
	return r.managerOf(ctx, clientID)
}

func (r *Repository) managerOf(ctx context.Context, userID int64) (*int64, error) {
	var managerID *int64
	err := r.db.QueryRowContext(ctx,
		`SELECT manager_id FROM users WHERE id = $1`,
		userID,
	).Scan(&managerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve manager: %w", err)
	}
	return managerID, nil
}

// List retrieves accounts with pagination, optionally filtered by role
func (r *Repository) List(ctx context.Context, role *Role, limit, offset int) ([]*User, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM users WHERE ($1::text IS NULL OR role = $1)`
	var roleArg *string
	if role != nil {
		s := string(*role)
		roleArg = &s
	}
	if err := r.db.QueryRowContext(ctx, countQuery, roleArg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `
		SELECT id, username, email, role, balance, lifetime_earned, completed_orders, manager_id, created_at
		FROM users
		WHERE ($1::text IS NULL OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, roleArg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Role,
			&user.Balance,
			&user.LifetimeEarned,
			&user.CompletedOrders,
			&user.ManagerID,
			&user.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}
