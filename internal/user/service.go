package user

import (
	"context"
	"errors"

	"github.com/anasalharbi/penmarket/internal/pricing"
)

// Common errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNotFreelancer = errors.New("user is not a freelancer")
)

// Service handles account business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves an account by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetBalance returns the running balance and lifetime earnings for an account
func (s *Service) GetBalance(ctx context.Context, id int64) (*BalanceResponse, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{
		UserID:         user.ID,
		Balance:        user.Balance,
		LifetimeEarned: user.LifetimeEarned,
	}, nil
}

// GetLevel returns a freelancer's tier and progress toward the next level
func (s *Service) GetLevel(ctx context.Context, id int64) (*pricing.Progress, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != RoleFreelancer {
		return nil, ErrNotFreelancer
	}

	progress := pricing.ProgressFor(user.CompletedOrders)
	return &progress, nil
}

// List retrieves accounts with pagination
func (s *Service) List(ctx context.Context, role *Role, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, role, perPage, offset)
}
