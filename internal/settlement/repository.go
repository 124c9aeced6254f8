package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/anasalharbi/penmarket/internal/pricing"
)

// pqUniqueViolation is the Postgres error code for unique constraint breaches.
const pqUniqueViolation = "23505"

// invoiceLedgerConstraint is the (order, client, amount) idempotency key on
// invoices. Only a breach of this constraint means the payment was already
// settled; a collision on any other unique index is a plain insert failure.
const invoiceLedgerConstraint = "uq_invoices_order_client_amount"

// isDuplicateInvoice reports whether err is a breach of the invoice ledger
// key specifically.
func isDuplicateInvoice(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		string(pqErr.Code) == pqUniqueViolation &&
		pqErr.Constraint == invoiceLedgerConstraint
}

// Repository sentinel errors surfaced to the service layer.
var (
	// ErrNotPending means the conditional status update matched no row: some
	// other request moved the payment out of PENDING first.
	ErrNotPending = errors.New("payment is not pending")
	// ErrDuplicateInvoice means the (order, client, amount) ledger key already
	// exists. Secondary idempotency net beside the conditional update.
	ErrDuplicateInvoice = errors.New("invoice already exists for this payment")
)

// PostgresRepository handles payment and invoice persistence
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetPayment retrieves a payment by its ID
func (r *PostgresRepository) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	query := `
		SELECT id, order_id, client_id, amount, method, status, created_at, confirmed_at
		FROM payments
		WHERE id = $1
	`

	p := &Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.OrderID,
		&p.ClientID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.CreatedAt,
		&p.ConfirmedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return p, nil
}

// MarkFailed conditionally moves a pending payment to FAILED. Returns whether
// a row was transitioned; re-failing an already failed payment is a no-op.
func (r *PostgresRepository) MarkFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = $2 WHERE id = $1 AND status = $3`,
		id, PaymentStatusFailed, PaymentStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

// SettleParams carries everything Settle applies in one transaction.
type SettleParams struct {
	Payment      *Payment
	FreelancerID *int64
	ManagerID    *int64
	Split        pricing.Split
	Now          time.Time
}

// Settle applies a computed split atomically: the conditional PENDING→
// CONFIRMED transition, order completion, balance credits and the invoice
// insert all commit or roll back together. The conditional update is the
// primary idempotency guard; the invoice's (order, client, amount) unique key
// is the secondary one.
func (r *PostgresRepository) Settle(ctx context.Context, params SettleParams) (*Invoice, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement tx: %w", err)
	}
	defer tx.Rollback()

	p := params.Payment
	now := params.Now.UTC()

	res, err := tx.ExecContext(ctx,
		`UPDATE payments SET status = $2, confirmed_at = $3 WHERE id = $1 AND status = $4`,
		p.ID, PaymentStatusConfirmed, now, PaymentStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotPending
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`,
		p.OrderID, "COMPLETED",
	); err != nil {
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}

	// The completion counter advances for any assigned freelancer, even when
	// the order priced to zero; only the monetary credit depends on the amount.
	if params.FreelancerID != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users
			 SET balance = balance + $2,
			     lifetime_earned = lifetime_earned + $2,
			     completed_orders = completed_orders + 1
			 WHERE id = $1`,
			*params.FreelancerID, params.Split.FreelancerAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to credit freelancer: %w", err)
		}
	}

	if params.ManagerID != nil && params.Split.ManagerAmount > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET balance = balance + $2 WHERE id = $1`,
			*params.ManagerID, params.Split.ManagerAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to credit manager: %w", err)
		}
	}

	invoice, err := r.insertInvoice(ctx, tx, p, params.Split, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement tx: %w", err)
	}

	return invoice, nil
}

func (r *PostgresRepository) insertInvoice(ctx context.Context, tx *sql.Tx, p *Payment, split pricing.Split, now time.Time) (*Invoice, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Serialize sequence allocation per calendar day: without this, two
	// settlements of different orders can read the same count and collide on
	// the number unique index. The lock is released at commit/rollback.
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock($1)`, invoiceDayLockKey(dayStart),
	); err != nil {
		return nil, fmt.Errorf("failed to lock invoice sequence: %w", err)
	}

	var daySequence int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) + 1 FROM invoices WHERE created_at >= $1 AND created_at < $2`,
		dayStart, dayEnd,
	).Scan(&daySequence)
	if err != nil {
		return nil, fmt.Errorf("failed to compute invoice sequence: %w", err)
	}

	invoice := &Invoice{
		ID:               uuid.New(),
		Number:           invoiceNumber(now, daySequence),
		OrderID:          p.OrderID,
		ClientID:         p.ClientID,
		ClientAmount:     split.ClientAmount,
		FreelancerAmount: split.FreelancerAmount,
		ManagerAmount:    split.ManagerAmount,
		PlatformMargin:   split.PlatformMargin,
		Paid:             false,
		CreatedAt:        now,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices
		 (id, number, order_id, client_id, client_amount, freelancer_amount, manager_amount, platform_margin, paid, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		invoice.ID, invoice.Number, invoice.OrderID, invoice.ClientID,
		invoice.ClientAmount, invoice.FreelancerAmount, invoice.ManagerAmount,
		invoice.PlatformMargin, invoice.Paid, invoice.CreatedAt,
	)
	if err != nil {
		if isDuplicateInvoice(err) {
			return nil, ErrDuplicateInvoice
		}
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	return invoice, nil
}

// invoiceDayLockKey derives the advisory lock key for a day's invoice
// sequence from its date.
func invoiceDayLockKey(dayStart time.Time) int64 {
	return invoiceLockNamespace + int64(dayStart.Year())*10000 +
		int64(dayStart.Month())*100 + int64(dayStart.Day())
}

// invoiceLockNamespace keeps the day keys clear of other advisory lock users.
const invoiceLockNamespace = int64(7_600_000_000)

// GetInvoiceByOrder retrieves the invoice created for an order, if any
func (r *PostgresRepository) GetInvoiceByOrder(ctx context.Context, orderID int64) (*Invoice, error) {
	return r.getInvoice(ctx, `WHERE order_id = $1`, orderID)
}

// GetInvoiceByID retrieves an invoice by its ID
func (r *PostgresRepository) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return r.getInvoice(ctx, `WHERE id = $1`, id)
}

func (r *PostgresRepository) getInvoice(ctx context.Context, where string, arg interface{}) (*Invoice, error) {
	query := `
		SELECT id, number, order_id, client_id, client_amount, freelancer_amount,
		       manager_amount, platform_margin, paid, created_at
		FROM invoices ` + where

	i := &Invoice{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&i.ID,
		&i.Number,
		&i.OrderID,
		&i.ClientID,
		&i.ClientAmount,
		&i.FreelancerAmount,
		&i.ManagerAmount,
		&i.PlatformMargin,
		&i.Paid,
		&i.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return i, nil
}

// ListInvoices retrieves invoices with pagination, newest first
func (r *PostgresRepository) ListInvoices(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := `
		SELECT id, number, order_id, client_id, client_amount, freelancer_amount,
		       manager_amount, platform_margin, paid, created_at
		FROM invoices
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		i := &Invoice{}
		if err := rows.Scan(
			&i.ID,
			&i.Number,
			&i.OrderID,
			&i.ClientID,
			&i.ClientAmount,
			&i.FreelancerAmount,
			&i.ManagerAmount,
			&i.PlatformMargin,
			&i.Paid,
			&i.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, total, nil
}
