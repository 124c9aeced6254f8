package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anasalharbi/penmarket/internal/order"
	"github.com/anasalharbi/penmarket/internal/pricing"
	"github.com/anasalharbi/penmarket/internal/user"
)

// stubRepo implements Repository in memory. Settle mimics the database's
// conditional update: it only succeeds while the payment is PENDING and
// flips it to CONFIRMED.
type stubRepo struct {
	payment    *Payment
	invoice    *Invoice
	settleErr  error
	settles    int
	lastParams SettleParams
	markFailed int

	// confirmAfterRead simulates a concurrent winner: the payment reads as
	// PENDING once, then as CONFIRMED on every later read.
	confirmAfterRead bool
}

func (s *stubRepo) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	if s.payment == nil || s.payment.ID != id {
		return nil, nil
	}
	p := *s.payment
	if s.confirmAfterRead {
		s.payment.Status = PaymentStatusConfirmed
		s.confirmAfterRead = false
	}
	return &p, nil
}

func (s *stubRepo) MarkFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	s.markFailed++
	if s.payment == nil || s.payment.Status != PaymentStatusPending {
		return false, nil
	}
	s.payment.Status = PaymentStatusFailed
	return true, nil
}

func (s *stubRepo) Settle(ctx context.Context, params SettleParams) (*Invoice, error) {
	if s.settleErr != nil {
		return nil, s.settleErr
	}
	if s.payment == nil || s.payment.Status != PaymentStatusPending {
		return nil, ErrNotPending
	}
	s.settles++
	s.lastParams = params
	s.payment.Status = PaymentStatusConfirmed
	s.invoice = &Invoice{
		ID:               uuid.New(),
		Number:           invoiceNumber(params.Now, 1),
		OrderID:          params.Payment.OrderID,
		ClientID:         params.Payment.ClientID,
		ClientAmount:     params.Split.ClientAmount,
		FreelancerAmount: params.Split.FreelancerAmount,
		ManagerAmount:    params.Split.ManagerAmount,
		PlatformMargin:   params.Split.PlatformMargin,
		CreatedAt:        params.Now,
	}
	return s.invoice, nil
}

func (s *stubRepo) GetInvoiceByOrder(ctx context.Context, orderID int64) (*Invoice, error) {
	if s.invoice == nil || s.invoice.OrderID != orderID {
		return nil, nil
	}
	return s.invoice, nil
}

func (s *stubRepo) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	if s.invoice == nil || s.invoice.ID != id {
		return nil, nil
	}
	return s.invoice, nil
}

func (s *stubRepo) ListInvoices(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	if s.invoice == nil {
		return nil, 0, nil
	}
	return []*Invoice{s.invoice}, 1, nil
}

type stubOrders struct {
	order *order.Order
}

func (s *stubOrders) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, nil
	}
	return s.order, nil
}

type stubUsers struct {
	freelancer *user.User
	managerID  *int64
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if s.freelancer == nil || s.freelancer.ID != id {
		return nil, nil
	}
	return s.freelancer, nil
}

func (s *stubUsers) ResolveSettlementManager(ctx context.Context, freelancerID *int64, clientID int64) (*int64, error) {
	return s.managerID, nil
}

type stubAuditor struct {
	records []string
	err     error
}

func (s *stubAuditor) Record(ctx context.Context, actorID int64, action, entityType, entityID, detail string) error {
	s.records = append(s.records, action)
	return s.err
}

type stubNotifier struct {
	failed    int
	confirmed int
	levelUps  []string
}

func (s *stubNotifier) NotifyPaymentFailed(ctx context.Context, clientID, orderID int64) error {
	s.failed++
	return nil
}

func (s *stubNotifier) NotifyPaymentConfirmed(ctx context.Context, clientID, orderID int64, invoiceNumber string) error {
	s.confirmed++
	return nil
}

func (s *stubNotifier) NotifyLevelUp(ctx context.Context, freelancerID int64, levelName string) error {
	s.levelUps = append(s.levelUps, levelName)
	return nil
}

type fixture struct {
	svc      *Service
	repo     *stubRepo
	auditor  *stubAuditor
	notifier *stubNotifier
}

func newFixture(repo *stubRepo, orders *stubOrders, users *stubUsers) *fixture {
	auditor := &stubAuditor{}
	notifier := &stubNotifier{}
	svc := NewService(repo, orders, users, pricing.NewStrategyFactory(), auditor, notifier, zap.NewNop().Sugar())
	svc.now = func() time.Time {
		return time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	}
	return &fixture{svc: svc, repo: repo, auditor: auditor, notifier: notifier}
}

func pendingPayment(orderID int64, amount float64) *Payment {
	return &Payment{
		ID:       uuid.New(),
		OrderID:  orderID,
		ClientID: 2,
		Amount:   amount,
		Method:   "CARD",
		Status:   PaymentStatusPending,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestConfirmPaymentSettlesExactlyOnce(t *testing.T) {
	p := pendingPayment(100, 2000)
	repo := &stubRepo{payment: p}
	orders := &stubOrders{order: &order.Order{
		ID:           100,
		ClientID:     2,
		FreelancerID: int64Ptr(7),
		WorkType:     "SPSS Analysis",
		Pages:        4,
		Slides:       2,
		PricingModel: "FLAT",
		Submitted:    true,
		Status:       order.StatusSubmitted,
	}}
	users := &stubUsers{
		freelancer: &user.User{ID: 7, Role: user.RoleFreelancer, CompletedOrders: 10},
		managerID:  int64Ptr(3),
	}
	f := newFixture(repo, orders, users)

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfirmed, result.Status)
	require.NotNil(t, result.Split)
	assert.Equal(t, 1280.0, result.Split.FreelancerAmount) // 4*270 + 2*100
	assert.Equal(t, 35.0, result.Split.ManagerAmount)      // 10 assign + 10 + 5*3 submit
	assert.Equal(t, 685.0, result.Split.PlatformMargin)
	require.NotNil(t, result.Invoice)
	assert.Equal(t, "INV-20250603-00001", result.Invoice.Number)
	assert.Equal(t, 1, repo.settles)
	assert.Equal(t, []string{"payment.confirmed"}, f.auditor.records)
	assert.Equal(t, 1, f.notifier.confirmed)

	// Second confirmation returns the stored result without re-crediting.
	again, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyConfirmed, again.Status)
	require.NotNil(t, again.Split)
	assert.Equal(t, result.Split.FreelancerAmount, again.Split.FreelancerAmount)
	assert.Equal(t, 1, repo.settles, "settlement must be applied exactly once")
}

func TestConfirmPaymentTieredPath(t *testing.T) {
	p := pendingPayment(200, 600)
	repo := &stubRepo{payment: p}
	orders := &stubOrders{order: &order.Order{
		ID:           200,
		ClientID:     2,
		FreelancerID: int64Ptr(7),
		WorkType:     "History essay",
		Pages:        2,
		PricingModel: "TIERED",
	}}
	users := &stubUsers{
		freelancer: &user.User{ID: 7, Role: user.RoleFreelancer, CompletedOrders: 10},
	}
	f := newFixture(repo, orders, users)

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)

	// Established tier: 2 pages at 170.
	assert.Equal(t, 340.0, result.Split.FreelancerAmount)
}

func TestConfirmPaymentUnassignedOrder(t *testing.T) {
	p := pendingPayment(300, 480)
	repo := &stubRepo{payment: p}
	orders := &stubOrders{order: &order.Order{
		ID:           300,
		ClientID:     2,
		WorkType:     "Essay",
		Pages:        2,
		PricingModel: "FLAT",
	}}
	f := newFixture(repo, orders, &stubUsers{})

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)

	// No freelancer, never assigned nor submitted: the platform keeps it all.
	assert.Equal(t, 0.0, result.Split.FreelancerAmount)
	assert.Equal(t, 0.0, result.Split.ManagerAmount)
	assert.Equal(t, 480.0, result.Split.PlatformMargin)
}

func TestConfirmPaymentNotFound(t *testing.T) {
	f := newFixture(&stubRepo{}, &stubOrders{}, &stubUsers{})

	_, err := f.svc.ConfirmPayment(context.Background(), uuid.New(), true, 99)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestConfirmPaymentMissingOrder(t *testing.T) {
	p := pendingPayment(404, 100)
	f := newFixture(&stubRepo{payment: p}, &stubOrders{}, &stubUsers{})

	_, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConfirmFailedPaymentRejected(t *testing.T) {
	p := pendingPayment(100, 100)
	p.Status = PaymentStatusFailed
	f := newFixture(&stubRepo{payment: p}, &stubOrders{}, &stubUsers{})

	_, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestFailPayment(t *testing.T) {
	p := pendingPayment(100, 100)
	repo := &stubRepo{payment: p}
	f := newFixture(repo, &stubOrders{}, &stubUsers{})

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, false, 99)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, result.Status)
	assert.Nil(t, result.Split)
	assert.Equal(t, 0, repo.settles, "no settlement on the failed path")
	assert.Equal(t, 1, f.notifier.failed)
	assert.Equal(t, []string{"payment.failed"}, f.auditor.records)
}

func TestFailAlreadyFailedIsNoOp(t *testing.T) {
	p := pendingPayment(100, 100)
	p.Status = PaymentStatusFailed
	repo := &stubRepo{payment: p}
	f := newFixture(repo, &stubOrders{}, &stubUsers{})

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, false, 99)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, result.Status)
	assert.Equal(t, 0, repo.markFailed)
	assert.Equal(t, 0, f.notifier.failed)
}

func TestFailConfirmedPaymentRejected(t *testing.T) {
	p := pendingPayment(100, 100)
	p.Status = PaymentStatusConfirmed
	f := newFixture(&stubRepo{payment: p}, &stubOrders{}, &stubUsers{})

	_, err := f.svc.ConfirmPayment(context.Background(), p.ID, false, 99)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestAuditFailureDoesNotFailSettlement(t *testing.T) {
	p := pendingPayment(100, 1000)
	repo := &stubRepo{payment: p}
	orders := &stubOrders{order: &order.Order{
		ID:           100,
		ClientID:     2,
		WorkType:     "Essay",
		Pages:        2,
		PricingModel: "FLAT",
	}}
	f := newFixture(repo, orders, &stubUsers{})
	f.auditor.err = errors.New("audit store down")

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, result.Status)
	assert.Equal(t, 1, repo.settles)
}

func TestNegativeMarginFlooredNotErrored(t *testing.T) {
	// Client paid less than the payouts; the platform absorbs the shortfall.
	p := pendingPayment(100, 500)
	repo := &stubRepo{payment: p}
	orders := &stubOrders{order: &order.Order{
		ID:           100,
		ClientID:     2,
		FreelancerID: int64Ptr(7),
		WorkType:     "Python coursework",
		Pages:        3,
		PricingModel: "FLAT",
		Submitted:    true,
	}}
	users := &stubUsers{freelancer: &user.User{ID: 7, Role: user.RoleFreelancer}}
	f := newFixture(repo, orders, users)

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)

	assert.Equal(t, 810.0, result.Split.FreelancerAmount) // 3*270
	assert.Equal(t, 0.0, result.Split.PlatformMargin)
}

func TestSettleRaceReturnsStoredResult(t *testing.T) {
	p := pendingPayment(100, 1000)
	repo := &stubRepo{payment: p, settleErr: ErrNotPending, confirmAfterRead: true}
	// The concurrent winner has already confirmed and written the invoice.
	repo.invoice = &Invoice{
		ID:               uuid.New(),
		Number:           "INV-20250603-00001",
		OrderID:          100,
		ClientID:         2,
		ClientAmount:     1000,
		FreelancerAmount: 400,
		ManagerAmount:    25,
		PlatformMargin:   575,
	}
	orders := &stubOrders{order: &order.Order{
		ID:           100,
		ClientID:     2,
		WorkType:     "Essay",
		Pages:        2,
		PricingModel: "FLAT",
	}}
	f := newFixture(repo, orders, &stubUsers{})

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyConfirmed, result.Status)
	require.NotNil(t, result.Invoice)
	assert.Equal(t, "INV-20250603-00001", result.Invoice.Number)
}

func TestZeroAmountOrderStillCountsCompletion(t *testing.T) {
	// An assigned order that prices to nothing (no pages, no slides) still
	// completes: the freelancer's completion counter advances and the level-up
	// check runs against it, even though no money moves.
	p := pendingPayment(100, 50)
	repo := &stubRepo{payment: p}
	orders := &stubOrders{order: &order.Order{
		ID:           100,
		ClientID:     2,
		FreelancerID: int64Ptr(7),
		WorkType:     "Consultation",
		PricingModel: "FLAT",
	}}
	users := &stubUsers{freelancer: &user.User{ID: 7, Role: user.RoleFreelancer, CompletedOrders: 2}}
	f := newFixture(repo, orders, users)

	result, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfirmed, result.Status)
	assert.Equal(t, 0.0, result.Split.FreelancerAmount)
	require.NotNil(t, repo.lastParams.FreelancerID)
	assert.Equal(t, int64(7), *repo.lastParams.FreelancerID)
	assert.Equal(t, []string{"Rising"}, f.notifier.levelUps)
}

func TestLevelUpNotificationOnThreshold(t *testing.T) {
	// Two completed orders; this settlement is the third, unlocking Rising.
	p := pendingPayment(100, 1000)
	repo := &stubRepo{payment: p}
	orders := &stubOrders{order: &order.Order{
		ID:           100,
		ClientID:     2,
		FreelancerID: int64Ptr(7),
		WorkType:     "Essay",
		Pages:        2,
		PricingModel: "TIERED",
	}}
	users := &stubUsers{freelancer: &user.User{ID: 7, Role: user.RoleFreelancer, CompletedOrders: 2}}
	f := newFixture(repo, orders, users)

	_, err := f.svc.ConfirmPayment(context.Background(), p.ID, true, 99)
	require.NoError(t, err)

	assert.Equal(t, []string{"Rising"}, f.notifier.levelUps)
}
