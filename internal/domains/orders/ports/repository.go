package ports

import (
	"context"
	"errors"
	"time"

	"github.com/exampleco/orders-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// CountQuery describes the grouped count behind the statistics endpoint.
type CountQuery struct {
	Granularity domain.Granularity
	// Since is exclusive: only orders with created_on > Since are counted.
	Since time.Time
	// ActiveOnly restricts the count to orders with status ACTIVE.
	ActiveOnly bool
}

// Repository persists orders. Lookups by id only ever see ACTIVE orders;
// CountCreated is the one query that can see deleted ones.
type Repository interface {
	// FindActive loads an active order with its items eager loaded.
	FindActive(ctx context.Context, id int64) (*domain.Order, error)
	// ListActive returns active orders without items, ordered by id.
	ListActive(ctx context.Context) ([]*domain.Order, error)
	// Create inserts a new order and returns it with the generated id and timestamps.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// Update writes name and service_id of an active order and refreshes modified_on.
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// SoftDelete sets the status of an active order to DELETED.
	SoftDelete(ctx context.Context, id int64) error
	// CountCreated groups orders by truncated created_on, in store order.
	CountCreated(ctx context.Context, query CountQuery) ([]domain.BucketCount, error)
}

// ServiceLookup checks foreign keys against the service catalogue.
type ServiceLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
