package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/exampleco/orders-api/internal/domains/orders/domain"
	"github.com/exampleco/orders-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store used for demos and tests. Like the
// relational store it never removes rows; deletes only flip the status.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int64]*domain.Order
	items      map[int64][]domain.OrderItem
	nextID     int64
	nextItemID int64
	now        func() time.Time
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		orders: map[int64]*domain.Order{},
		items:  map[int64][]domain.OrderItem{},
		now:    time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.mu.Lock()
		r.now = now
		r.mu.Unlock()
	}
}

func (r *Repository) FindActive(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok || !order.IsActive() {
		return nil, ports.ErrNotFound
	}
	clone := cloneOrder(order)
	clone.Items = append([]domain.OrderItem{}, r.items[id]...)
	return clone, nil
}

func (r *Repository) ListActive(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, id := range r.sortedIDs() {
		if order := r.orders[id]; order.IsActive() {
			list = append(list, cloneOrder(order))
		}
	}
	return list, nil
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	if clone.Status == "" {
		clone.Status = domain.StatusActive
	}
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone.ID = r.nextID
	clone.Metadata.CreatedOn = time.Time{}
	clone.Touch(r.now().UTC())
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok || !stored.IsActive() {
		return nil, ports.ErrNotFound
	}
	stored.Name = order.Name
	stored.ServiceID = order.ServiceID
	stored.Touch(r.now().UTC())
	clone := cloneOrder(stored)
	clone.Items = append([]domain.OrderItem{}, r.items[order.ID]...)
	return clone, nil
}

func (r *Repository) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok || !stored.IsActive() {
		return ports.ErrNotFound
	}
	stored.Status = domain.StatusDeleted
	stored.Touch(r.now().UTC())
	return nil
}

// CountCreated groups orders in id order, so buckets appear in the order
// their first order was inserted.
func (r *Repository) CountCreated(_ context.Context, query ports.CountQuery) ([]domain.BucketCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []domain.BucketCount
	index := map[domain.Bucket]int{}
	for _, id := range r.sortedIDs() {
		order := r.orders[id]
		if !order.CreatedOn.After(query.Since) {
			continue
		}
		if query.ActiveOnly && !order.IsActive() {
			continue
		}
		bucket := domain.BucketOf(order.CreatedOn, query.Granularity)
		if i, ok := index[bucket]; ok {
			rows[i].Count++
			continue
		}
		index[bucket] = len(rows)
		rows = append(rows, domain.BucketCount{Bucket: bucket, Count: 1})
	}
	return rows, nil
}

// AddItem attaches a line item to an existing order. The API exposes no
// item writes, so tests and demos seed items through here.
func (r *Repository) AddItem(orderID int64, name string) (domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[orderID]; !ok {
		return domain.OrderItem{}, ports.ErrNotFound
	}
	r.nextItemID++
	item := domain.OrderItem{ID: r.nextItemID, Name: name, OrderID: orderID}
	item.Touch(r.now().UTC())
	r.items[orderID] = append(r.items[orderID], item)
	return item, nil
}

// Snapshot returns the stored row regardless of status.
func (r *Repository) Snapshot(id int64) (*domain.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, false
	}
	return cloneOrder(order), true
}

// Reset drops every order and item.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = map[int64]*domain.Order{}
	r.items = map[int64][]domain.OrderItem{}
	r.nextID = 0
	r.nextItemID = 0
}

func (r *Repository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = nil
	return &clone
}
