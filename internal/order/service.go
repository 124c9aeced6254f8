package order

import (
	"context"
	"errors"

	"github.com/anasalharbi/penmarket/internal/pricing"
	"github.com/anasalharbi/penmarket/internal/user"
)

// Common errors
var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderReader describes order lookup as used by the service.
type OrderReader interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByClientID(ctx context.Context, clientID int64, limit, offset int) ([]*Order, int, error)
}

// UserReader describes the account lookup needed for tier-based quotes.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Service handles order read and quote-preview logic
type Service struct {
	repo    OrderReader
	users   UserReader
	factory *pricing.Factory
}

// NewService creates a new order service with dependencies injected
func NewService(repo OrderReader, users UserReader, factory *pricing.Factory) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		factory: factory,
	}
}

// GetByID retrieves an order by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// ListByClientID retrieves a client's orders
func (s *Service) ListByClientID(ctx context.Context, clientID int64, page, perPage int) ([]*Order, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByClientID(ctx, clientID, perPage, offset)
}

// QuoteByID previews the settlement split for an order as it currently
// stands. The pricing functions are total, so a preview works even while the
// order is incomplete (no payment captured, no freelancer assigned).
func (s *Service) QuoteByID(ctx context.Context, id int64) (*QuoteResponse, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	completed := 0
	if o.FreelancerID != nil {
		freelancer, err := s.users.GetByID(ctx, *o.FreelancerID)
		if err != nil {
			return nil, err
		}
		if freelancer != nil {
			completed = freelancer.CompletedOrders
		}
	}

	clientAmount := 0.0
	if o.ClientAmount != nil {
		clientAmount = *o.ClientAmount
	}

	return s.quote(&QuoteRequest{
		Pages:           o.Pages,
		Slides:          o.Slides,
		WorkType:        o.WorkType,
		PricingModel:    o.PricingModel,
		CompletedOrders: completed,
		ClientAmount:    clientAmount,
		Assigned:        o.Assigned(),
		Submitted:       o.Submitted,
	})
}

// Quote prices ad-hoc input that has not been saved as an order yet.
func (s *Service) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	return s.quote(req)
}

func (s *Service) quote(req *QuoteRequest) (*QuoteResponse, error) {
	model := req.PricingModel
	if model == "" {
		model = string(pricing.ModelFlat)
	}

	strategy, err := s.factory.CreateFromString(model)
	if err != nil {
		return nil, err
	}

	q := strategy.Quote(pricing.QuoteInput{
		Pages:           req.Pages,
		Slides:          req.Slides,
		WorkType:        req.WorkType,
		CompletedOrders: req.CompletedOrders,
	})

	managerAmount := pricing.ManagerAmount(req.Pages, req.Assigned, req.Submitted)
	split := pricing.NewSplit(req.ClientAmount, q.FreelancerAmount, managerAmount)
	minimum := pricing.CheckMinimumPrice(req.Pages, req.Slides, q.Technical, req.ClientAmount)

	return &QuoteResponse{
		PricingModel: model,
		Quote:        q,
		Split:        split,
		MinimumPrice: minimum,
	}, nil
}
