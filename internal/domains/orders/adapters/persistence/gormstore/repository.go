package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/exampleco/orders-api/internal/domains/orders/domain"
	"github.com/exampleco/orders-api/internal/domains/orders/ports"
	"github.com/exampleco/orders-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in MySQL or PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to the orders table.
type orderRecord struct {
	ID         int64             `gorm:"primaryKey;column:id"`
	Name       string            `gorm:"column:name;size:128;not null"`
	ServiceID  int64             `gorm:"column:service_id;not null"`
	Status     string            `gorm:"column:status;size:16;not null;default:ACTIVE"`
	CreatedOn  time.Time         `gorm:"column:created_on;not null;autoCreateTime"`
	ModifiedOn time.Time         `gorm:"column:modified_on;not null;autoUpdateTime"`
	Items      []orderItemRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	Name       string    `gorm:"column:name;size:128;not null"`
	OrderID    int64     `gorm:"column:order_id;not null"`
	CreatedOn  time.Time `gorm:"column:created_on;not null;autoCreateTime"`
	ModifiedOn time.Time `gorm:"column:modified_on;not null;autoUpdateTime"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// bucketRow receives one row of the grouped count query.
type bucketRow struct {
	BucketYear  int   `gorm:"column:bucket_year"`
	BucketMonth int   `gorm:"column:bucket_month"`
	BucketDay   int   `gorm:"column:bucket_day"`
	BucketHour  int   `gorm:"column:bucket_hour"`
	Total       int64 `gorm:"column:total"`
}

// FindActive fetches an active order and its items in two queries.
func (r *Repository) FindActive(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ? AND status = ?", id, string(domain.StatusActive)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListActive returns active orders without touching order_items.
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusActive)).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// Create inserts the order and reloads it so callers see stored timestamps.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.ID = 0
	if record.Status == "" {
		record.Status = string(domain.StatusActive)
	}
	if err := r.db.WithContext(ctx).Omit("Items").Create(&record).Error; err != nil {
		return nil, err
	}
	return r.FindActive(ctx, record.ID)
}

// Update writes the mutable columns of an active order.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", order.ID, string(domain.StatusActive)).
		Updates(map[string]any{
			"name":        order.Name,
			"service_id":  order.ServiceID,
			"modified_on": r.db.NowFunc(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	return r.FindActive(ctx, order.ID)
}

// SoftDelete flips the status of an active order to DELETED.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", id, string(domain.StatusActive)).
		Updates(map[string]any{
			"status":      string(domain.StatusDeleted),
			"modified_on": r.db.NowFunc(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// CountCreated runs the grouped count behind the statistics endpoint. Rows
// come back in whatever order the database groups them.
func (r *Repository) CountCreated(ctx context.Context, query ports.CountQuery) ([]domain.BucketCount, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	parts, err := bucketParts(r.db.Dialector.Name(), query.Granularity)
	if err != nil {
		return nil, err
	}
	selects := make([]string, 0, len(parts)+1)
	groups := make([]string, 0, len(parts))
	for _, part := range parts {
		selects = append(selects, part.expr+" AS "+part.alias)
		groups = append(groups, part.alias)
	}
	selects = append(selects, "COUNT(id) AS total")

	stmt := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select(strings.Join(selects, ", ")).
		Where("created_on > ?", query.Since)
	if query.ActiveOnly {
		stmt = stmt.Where("status = ?", string(domain.StatusActive))
	}
	var rows []bucketRow
	if err := stmt.Group(strings.Join(groups, ", ")).Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]domain.BucketCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, domain.BucketCount{
			Bucket: domain.Bucket{Year: row.BucketYear, Month: row.BucketMonth, Day: row.BucketDay, Hour: row.BucketHour},
			Count:  row.Total,
		})
	}
	return counts, nil
}

type bucketPart struct {
	expr  string
	alias string
}

// bucketParts returns the created_on truncation columns for the dialect,
// coarsest first.
func bucketParts(dialect string, g domain.Granularity) ([]bucketPart, error) {
	var fields []string
	switch g {
	case domain.GranularityHour:
		fields = []string{"YEAR", "MONTH", "DAY", "HOUR"}
	case domain.GranularityDay:
		fields = []string{"YEAR", "MONTH", "DAY"}
	default:
		fields = []string{"YEAR", "MONTH"}
	}
	parts := make([]bucketPart, 0, len(fields))
	for _, field := range fields {
		alias := "bucket_" + strings.ToLower(field)
		var expr string
		switch dialect {
		case "mysql":
			fn := field
			if field == "DAY" {
				fn = "DAYOFMONTH"
			}
			expr = fn + "(created_on)"
		case "postgres":
			expr = fmt.Sprintf("CAST(EXTRACT(%s FROM created_on) AS INTEGER)", field)
		default:
			return nil, fmt.Errorf("order statistics are not supported on %q", dialect)
		}
		parts = append(parts, bucketPart{expr: expr, alias: alias})
	}
	return parts, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:         order.ID,
		Name:       order.Name,
		ServiceID:  order.ServiceID,
		Status:     string(order.Status),
		CreatedOn:  order.CreatedOn,
		ModifiedOn: order.ModifiedOn,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:        r.ID,
		Name:      r.Name,
		ServiceID: r.ServiceID,
		Status:    domain.Status(r.Status),
		Metadata:  projection.Metadata{CreatedOn: r.CreatedOn, ModifiedOn: r.ModifiedOn},
	}
	if len(r.Items) > 0 {
		order.Items = make([]domain.OrderItem, 0, len(r.Items))
		for _, item := range r.Items {
			order.Items = append(order.Items, domain.OrderItem{
				ID:       item.ID,
				Name:     item.Name,
				OrderID:  item.OrderID,
				Metadata: projection.Metadata{CreatedOn: item.CreatedOn, ModifiedOn: item.ModifiedOn},
			})
		}
	}
	return order
}
