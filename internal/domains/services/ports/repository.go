package ports

import (
	"context"
	"errors"

	"github.com/exampleco/orders-api/internal/domains/services/domain"
)

var ErrNotFound = errors.New("service not found")

// Repository reads services. Services are written only by seeding.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context) ([]*domain.Service, error)
}
