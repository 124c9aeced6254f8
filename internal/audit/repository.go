package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles audit-log persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new audit repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create appends an audit entry
func (r *Repository) Create(ctx context.Context, actorID int64, action, entityType, entityID, detail string) (*Entry, error) {
	query := `
		INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, actor_id, action, entity_type, entity_id, detail, created_at
	`

	entry := &Entry{}
	err := r.db.QueryRowContext(ctx, query, uuid.New(), actorID, action, entityType, entityID, detail).Scan(
		&entry.ID,
		&entry.ActorID,
		&entry.Action,
		&entry.EntityType,
		&entry.EntityID,
		&entry.Detail,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit entry: %w", err)
	}

	return entry, nil
}

// List retrieves audit entries with pagination, newest first
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `
		SELECT id, actor_id, action, entity_type, entity_id, detail, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, total, nil
}
