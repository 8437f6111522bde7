package application

import (
	"context"
	"errors"

	"github.com/exampleco/orders-api/internal/domains/services/domain"
	"github.com/exampleco/orders-api/internal/domains/services/ports"
)

// Service orchestrates the service catalogue use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// ListServices returns every service in the catalogue.
func (s *Service) ListServices(ctx context.Context) ([]*domain.Service, error) {
	return s.repo.List(ctx)
}

// GetService loads one service or returns a not-found error.
func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, id)
	}
	return service, nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ ports.Service = (*Service)(nil)
