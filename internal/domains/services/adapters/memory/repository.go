package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/exampleco/orders-api/internal/domains/services/domain"
	"github.com/exampleco/orders-api/internal/domains/services/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory service catalogue used for demos and tests.
type Repository struct {
	mu       sync.RWMutex
	services map[int64]*domain.Service
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{services: map[int64]*domain.Service{}}
}

// Add stores a service, assigning the next identifier when ID is zero.
func (r *Repository) Add(service *domain.Service) (*domain.Service, error) {
	if service == nil {
		return nil, errors.New("service is nil")
	}
	clone := *service
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.services[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	service, ok := r.services[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *service
	return &clone, nil
}

// List returns services ordered by identifier.
func (r *Repository) List(_ context.Context) ([]*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Service, 0, len(r.services))
	for _, service := range r.services {
		clone := *service
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
