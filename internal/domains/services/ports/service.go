package ports

import (
	"context"

	"github.com/exampleco/orders-api/internal/domains/services/domain"
)

// Service exposes service catalogue use cases to adapters.
type Service interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	// Exists reports whether a service with id is present. Orders use it
	// to pre-validate foreign keys.
	Exists(ctx context.Context, id int64) (bool, error)
}
