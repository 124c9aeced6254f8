// Package settlement implements the payment confirmation workflow: the one
// place a confirmed client payment becomes freelancer/manager balance credits,
// an invoice row and an audit entry, applied exactly once per payment.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anasalharbi/penmarket/internal/order"
	"github.com/anasalharbi/penmarket/internal/pricing"
	"github.com/anasalharbi/penmarket/internal/user"
)

// Common errors
var (
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStateTransition = errors.New("invalid payment state transition")
)

// Repository describes payment/invoice persistence as used by the service.
type Repository interface {
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
	MarkFailed(ctx context.Context, id uuid.UUID) (bool, error)
	Settle(ctx context.Context, params SettleParams) (*Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID int64) (*Invoice, error)
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
}

// OrderReader describes the order lookup the workflow needs.
type OrderReader interface {
	GetByID(ctx context.Context, id int64) (*order.Order, error)
}

// UserDirectory describes the account lookups the workflow needs.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	ResolveSettlementManager(ctx context.Context, freelancerID *int64, clientID int64) (*int64, error)
}

// Auditor appends to the audit trail. Best-effort: settlement never fails on
// an audit error.
type Auditor interface {
	Record(ctx context.Context, actorID int64, action, entityType, entityID, detail string) error
}

// Notifier delivers user-facing notices. Fire-and-forget.
type Notifier interface {
	NotifyPaymentFailed(ctx context.Context, clientID, orderID int64) error
	NotifyPaymentConfirmed(ctx context.Context, clientID, orderID int64, invoiceNumber string) error
	NotifyLevelUp(ctx context.Context, freelancerID int64, levelName string) error
}

// Service orchestrates payment confirmation and settlement application
type Service struct {
	repo     Repository
	orders   OrderReader
	users    UserDirectory
	factory  *pricing.Factory
	auditor  Auditor
	notifier Notifier
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewService creates a new settlement service with dependencies injected
func NewService(repo Repository, orders OrderReader, users UserDirectory, factory *pricing.Factory, auditor Auditor, notifier Notifier, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:     repo,
		orders:   orders,
		users:    users,
		factory:  factory,
		auditor:  auditor,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// GetPayment retrieves a payment by its ID
func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// GetInvoice retrieves an invoice by its ID
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	i, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrPaymentNotFound
	}
	return i, nil
}

// ListInvoices retrieves invoices with pagination
func (s *Service) ListInvoices(ctx context.Context, page, perPage int) ([]*Invoice, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListInvoices(ctx, perPage, offset)
}

// ConfirmPayment processes a confirm/fail command for a payment. Confirming
// an already-confirmed payment returns the stored result without touching any
// balance; any other transition out of a terminal status is rejected.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID uuid.UUID, confirmed bool, actorID int64) (*Result, error) {
	p, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}

	switch p.Status {
	case PaymentStatusConfirmed:
		if !confirmed {
			return nil, ErrInvalidStateTransition
		}
		return s.alreadyConfirmed(ctx, p)
	case PaymentStatusFailed:
		if confirmed {
			return nil, ErrInvalidStateTransition
		}
		// Re-failing a failed payment is a no-op.
		return &Result{Status: OutcomeFailed}, nil
	}

	if !confirmed {
		return s.failPayment(ctx, p, actorID)
	}

	return s.settle(ctx, p, actorID)
}

// alreadyConfirmed returns the previously computed settlement result.
func (s *Service) alreadyConfirmed(ctx context.Context, p *Payment) (*Result, error) {
	invoice, err := s.repo.GetInvoiceByOrder(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}

	result := &Result{Status: OutcomeAlreadyConfirmed}
	if invoice != nil {
		split := invoice.Split()
		result.Split = &split
		result.Invoice = invoice
	}
	return result, nil
}

func (s *Service) failPayment(ctx context.Context, p *Payment, actorID int64) (*Result, error) {
	transitioned, err := s.repo.MarkFailed(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if transitioned {
		s.recordAudit(ctx, actorID, "payment.failed", p, nil)
		if err := s.notifier.NotifyPaymentFailed(ctx, p.ClientID, p.OrderID); err != nil {
			s.logger.Warnw("payment-failed notification not delivered",
				"payment_id", p.ID, "error", err)
		}
	}

	return &Result{Status: OutcomeFailed}, nil
}

func (s *Service) settle(ctx context.Context, p *Payment, actorID int64) (*Result, error) {
	o, err := s.orders.GetByID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	strategy, err := s.factory.CreateFromString(o.PricingModel)
	if err != nil {
		return nil, err
	}

	var freelancer *user.User
	completed := 0
	if o.FreelancerID != nil {
		freelancer, err = s.users.GetByID(ctx, *o.FreelancerID)
		if err != nil {
			return nil, err
		}
		if freelancer != nil {
			completed = freelancer.CompletedOrders
		}
	}

	quote := strategy.Quote(pricing.QuoteInput{
		Pages:           o.Pages,
		Slides:          o.Slides,
		WorkType:        o.WorkType,
		CompletedOrders: completed,
	})

	freelancerAmount := 0.0
	if o.FreelancerID != nil {
		freelancerAmount = quote.FreelancerAmount
	}
	managerAmount := pricing.ManagerAmount(o.Pages, o.Assigned(), o.Submitted)
	split := pricing.NewSplit(p.Amount, freelancerAmount, managerAmount)

	if shortfall := split.Shortfall(); shortfall > 0 {
		s.logger.Warnw("pricing anomaly: payouts exceed client payment, margin floored",
			"payment_id", p.ID, "order_id", o.ID, "shortfall", shortfall)
	}

	managerID, err := s.users.ResolveSettlementManager(ctx, o.FreelancerID, o.ClientID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.Settle(ctx, SettleParams{
		Payment:      p,
		FreelancerID: o.FreelancerID,
		ManagerID:    managerID,
		Split:        split,
		Now:          s.now(),
	})
	if err != nil {
		// Either idempotency layer tripping means another request settled the
		// payment; hand back its result instead of an error.
		if errors.Is(err, ErrNotPending) || errors.Is(err, ErrDuplicateInvoice) {
			return s.resolveRace(ctx, p)
		}
		return nil, err
	}

	s.recordAudit(ctx, actorID, "payment.confirmed", p, &split)
	s.notifySettled(ctx, p, o, invoice, freelancer)

	return &Result{Status: OutcomeConfirmed, Split: &split, Invoice: invoice}, nil
}

// resolveRace re-reads a payment after losing the settlement race and maps
// the terminal status to the idempotent or invalid-transition outcome.
func (s *Service) resolveRace(ctx context.Context, p *Payment) (*Result, error) {
	current, err := s.repo.GetPayment(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrPaymentNotFound
	}
	if current.Status == PaymentStatusConfirmed {
		return s.alreadyConfirmed(ctx, current)
	}
	return nil, ErrInvalidStateTransition
}

// recordAudit appends to the audit trail. Financial state is the source of
// truth; a failed audit write is logged, never propagated.
func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, p *Payment, split *pricing.Split) {
	detail := fmt.Sprintf("order=%d client=%d amount=%.2f method=%s", p.OrderID, p.ClientID, p.Amount, p.Method)
	if split != nil {
		detail += fmt.Sprintf(" freelancer=%.2f manager=%.2f margin=%.2f",
			split.FreelancerAmount, split.ManagerAmount, split.PlatformMargin)
	}

	if err := s.auditor.Record(ctx, actorID, action, "payment", p.ID.String(), detail); err != nil {
		s.logger.Errorw("audit entry not recorded", "payment_id", p.ID, "action", action, "error", err)
	}
}

func (s *Service) notifySettled(ctx context.Context, p *Payment, o *order.Order, invoice *Invoice, freelancer *user.User) {
	if err := s.notifier.NotifyPaymentConfirmed(ctx, p.ClientID, o.ID, invoice.Number); err != nil {
		s.logger.Warnw("payment-confirmed notification not delivered",
			"payment_id", p.ID, "error", err)
	}

	if freelancer == nil {
		return
	}

	before := pricing.TierFor(freelancer.CompletedOrders)
	after := pricing.TierFor(freelancer.CompletedOrders + 1)
	if after.Level > before.Level {
		if err := s.notifier.NotifyLevelUp(ctx, freelancer.ID, after.Name); err != nil {
			s.logger.Warnw("level-up notification not delivered",
				"freelancer_id", freelancer.ID, "error", err)
		}
	}
}
