package audit

import "context"

// Service handles audit-trail business logic
type Service struct {
	repo *Repository
}

// NewService creates a new audit service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record appends an audit entry
func (s *Service) Record(ctx context.Context, actorID int64, action, entityType, entityID, detail string) error {
	_, err := s.repo.Create(ctx, actorID, action, entityType, entityID, detail)
	return err
}

// List retrieves audit entries with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Entry, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}
