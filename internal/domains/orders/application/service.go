package application

import (
	"context"
	"errors"
	"time"

	"github.com/exampleco/orders-api/internal/domains/orders/application/types"
	"github.com/exampleco/orders-api/internal/domains/orders/domain"
	"github.com/exampleco/orders-api/internal/domains/orders/ports"
)

// Service orchestrates the order use cases.
type Service struct {
	repo            ports.Repository
	services        ports.ServiceLookup
	now             func() time.Time
	statsActiveOnly bool
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used for the statistics cutoff.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStatsActiveOnly makes the statistics count only ACTIVE orders. By
// default soft-deleted orders are counted too.
func WithStatsActiveOnly(activeOnly bool) Option {
	return func(s *Service) {
		s.statsActiveOnly = activeOnly
	}
}

// NewService wires the order service with its repository and the service
// catalogue used to validate service_id.
func NewService(repo ports.Repository, services ports.ServiceLookup, opts ...Option) *Service {
	s := &Service{repo: repo, services: services, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListOrders returns all active orders.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListActive(ctx)
}

// GetOrder loads an active order with its items.
func (s *Service) GetOrder(ctx context.Context, input types.OrderIdentifier) (*domain.Order, error) {
	order, err := s.repo.FindActive(ctx, input.ID)
	if err != nil {
		return nil, mapError(err, input.ID)
	}
	return order, nil
}

// CreateOrder validates the referenced service and persists a new active order.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if err := s.ensureService(ctx, input.ServiceID); err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(input.Name, input.ServiceID)
	if err != nil {
		return nil, mapError(err, 0)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err, 0)
	}
	return saved, nil
}

// UpdateOrder applies a partial update to an active order. An update that
// names no field writes nothing and returns the current state.
func (s *Service) UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*domain.Order, error) {
	order, err := s.repo.FindActive(ctx, input.ID)
	if err != nil {
		return nil, mapError(err, input.ID)
	}
	input, err = input.Resolve()
	if err != nil {
		return nil, err
	}
	if input.Empty() {
		return order, nil
	}
	if input.ServiceID != nil {
		if err := s.ensureService(ctx, *input.ServiceID); err != nil {
			return nil, err
		}
		if err := order.AssignService(*input.ServiceID); err != nil {
			return nil, mapError(err, input.ID)
		}
	}
	if input.Name != nil {
		if err := order.Rename(*input.Name); err != nil {
			return nil, mapError(err, input.ID)
		}
	}
	saved, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, mapError(err, input.ID)
	}
	return saved, nil
}

// DeleteOrder soft-deletes an active order.
func (s *Service) DeleteOrder(ctx context.Context, input types.OrderIdentifier) error {
	order, err := s.repo.FindActive(ctx, input.ID)
	if err != nil {
		return mapError(err, input.ID)
	}
	if err := order.MarkDeleted(); err != nil {
		if errors.Is(err, domain.ErrAlreadyDeleted) {
			return OrderNotFound(input.ID)
		}
		return err
	}
	return mapError(s.repo.SoftDelete(ctx, order.ID), input.ID)
}

func (s *Service) ensureService(ctx context.Context, serviceID int64) error {
	if serviceID <= 0 {
		return UnknownService(serviceID)
	}
	ok, err := s.services.Exists(ctx, serviceID)
	if err != nil {
		return err
	}
	if !ok {
		return UnknownService(serviceID)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
