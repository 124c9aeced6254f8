package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anasalharbi/penmarket/internal/pricing"
	"github.com/anasalharbi/penmarket/internal/user"
)

type stubOrderRepo struct {
	order *Order
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, nil
	}
	return s.order, nil
}

func (s *stubOrderRepo) ListByClientID(ctx context.Context, clientID int64, limit, offset int) ([]*Order, int, error) {
	if s.order == nil || s.order.ClientID != clientID {
		return nil, 0, nil
	}
	return []*Order{s.order}, 1, nil
}

type stubUserRepo struct {
	user *user.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, nil
	}
	return s.user, nil
}

func newTestService(orders *stubOrderRepo, users *stubUserRepo) *Service {
	return NewService(orders, users, pricing.NewStrategyFactory())
}

func floatPtr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64     { return &v }

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(&stubOrderRepo{}, &stubUserRepo{})

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestQuoteByIDFlatTechnical(t *testing.T) {
	orders := &stubOrderRepo{order: &Order{
		ID:           1,
		ClientID:     2,
		FreelancerID: int64Ptr(7),
		WorkType:     "SPSS Analysis",
		Pages:        4,
		Slides:       2,
		PricingModel: "FLAT",
		ClientAmount: floatPtr(2000),
		Submitted:    true,
	}}
	users := &stubUserRepo{user: &user.User{ID: 7, Role: user.RoleFreelancer, CompletedOrders: 10}}
	svc := newTestService(orders, users)

	resp, err := svc.QuoteByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "FLAT", resp.PricingModel)
	assert.True(t, resp.Quote.Technical)
	assert.Equal(t, 1280.0, resp.Quote.FreelancerAmount) // 4*270 + 2*100
	assert.Equal(t, 35.0, resp.Split.ManagerAmount)
	assert.Equal(t, 685.0, resp.Split.PlatformMargin)
	assert.True(t, resp.MinimumPrice.OK) // min 4*270 + 2*150 = 1380 <= 2000
}

func TestQuoteByIDTieredUsesFreelancerHistory(t *testing.T) {
	orders := &stubOrderRepo{order: &Order{
		ID:           1,
		ClientID:     2,
		FreelancerID: int64Ptr(7),
		WorkType:     "History essay",
		Pages:        2,
		PricingModel: "TIERED",
		ClientAmount: floatPtr(600),
	}}
	users := &stubUserRepo{user: &user.User{ID: 7, Role: user.RoleFreelancer, CompletedOrders: 10}}
	svc := newTestService(orders, users)

	resp, err := svc.QuoteByID(context.Background(), 1)
	require.NoError(t, err)

	// Established tier: 2 pages at 170.
	require.NotNil(t, resp.Quote.Tier)
	assert.Equal(t, "Established", resp.Quote.Tier.Name)
	assert.Equal(t, 340.0, resp.Quote.FreelancerAmount)
}

func TestQuoteByIDUnassignedOrder(t *testing.T) {
	orders := &stubOrderRepo{order: &Order{
		ID:           1,
		ClientID:     2,
		WorkType:     "Essay",
		Pages:        3,
		PricingModel: "TIERED",
	}}
	svc := newTestService(orders, &stubUserRepo{})

	resp, err := svc.QuoteByID(context.Background(), 1)
	require.NoError(t, err)

	// No freelancer history yet: priced at the entry tier.
	require.NotNil(t, resp.Quote.Tier)
	assert.Equal(t, "Starter", resp.Quote.Tier.Name)
	assert.Equal(t, 450.0, resp.Quote.FreelancerAmount)
	assert.Equal(t, 0.0, resp.Split.ManagerAmount)
}

func TestQuoteDefaultsToFlat(t *testing.T) {
	svc := newTestService(&stubOrderRepo{}, &stubUserRepo{})

	resp, err := svc.Quote(context.Background(), &QuoteRequest{
		WorkType:     "Essay",
		Pages:        5,
		ClientAmount: 1300,
	})
	require.NoError(t, err)

	assert.Equal(t, "FLAT", resp.PricingModel)
	assert.Equal(t, 1000.0, resp.Quote.FreelancerAmount)
	assert.Nil(t, resp.Quote.Tier)
}

func TestQuoteRejectsUnknownModel(t *testing.T) {
	svc := newTestService(&stubOrderRepo{}, &stubUserRepo{})

	_, err := svc.Quote(context.Background(), &QuoteRequest{
		WorkType:     "Essay",
		Pages:        1,
		PricingModel: "HOURLY",
	})
	assert.ErrorIs(t, err, pricing.ErrUnknownModel)
}

func TestQuoteFlagsBelowMinimumPrice(t *testing.T) {
	svc := newTestService(&stubOrderRepo{}, &stubUserRepo{})

	resp, err := svc.Quote(context.Background(), &QuoteRequest{
		WorkType:     "Python data analysis",
		Pages:        2,
		ClientAmount: 500,
	})
	require.NoError(t, err)

	// Technical minimum is 2*270 = 540; the client offer falls short.
	assert.False(t, resp.MinimumPrice.OK)
	assert.Equal(t, 540.0, resp.MinimumPrice.Minimum)
}
