package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the services and orders contexts. Foreign keys
// are declared through the associations below so AutoMigrate emits them.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&serviceRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Service schema mirrors the services gormstore adapter.
type serviceRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;size:128;not null;index"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	Description string          `gorm:"column:description;type:text"`
}

func (serviceRecord) TableName() string { return "services" }

// Order schema mirrors the orders gormstore adapter.
type orderRecord struct {
	ID         int64             `gorm:"primaryKey;column:id"`
	Name       string            `gorm:"column:name;size:128;not null"`
	ServiceID  int64             `gorm:"column:service_id;not null;index"`
	Service    *serviceRecord    `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Status     string            `gorm:"column:status;size:16;not null;default:ACTIVE;index"`
	CreatedOn  time.Time         `gorm:"column:created_on;not null;index"`
	ModifiedOn time.Time         `gorm:"column:modified_on;not null"`
	Items      []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	Name       string    `gorm:"column:name;size:128;not null"`
	OrderID    int64     `gorm:"column:order_id;not null;index"`
	CreatedOn  time.Time `gorm:"column:created_on;not null"`
	ModifiedOn time.Time `gorm:"column:modified_on;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }
