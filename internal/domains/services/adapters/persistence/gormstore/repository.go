package gormstore

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/exampleco/orders-api/internal/domains/services/domain"
	"github.com/exampleco/orders-api/internal/domains/services/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads services from a relational store using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type serviceRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;size:128;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	Description string          `gorm:"column:description;type:text"`
}

func (serviceRecord) TableName() string { return "services" }

// GetByID fetches a service by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record serviceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns every service ordered by identifier.
func (r *Repository) List(ctx context.Context) ([]*domain.Service, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []serviceRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	services := make([]*domain.Service, 0, len(records))
	for i := range records {
		services = append(services, records[i].toDomain())
	}
	return services, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("service repository not configured")
	}
	return nil
}

func (r serviceRecord) toDomain() *domain.Service {
	return &domain.Service{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
	}
}
