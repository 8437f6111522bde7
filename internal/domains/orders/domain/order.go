package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/exampleco/orders-api/internal/shared/projection"
)

// Status enumerates the soft-delete lifecycle of an order.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDeleted Status = "DELETED"
)

// MaxNameLength mirrors the width of the name columns.
const MaxNameLength = 128

var (
	ErrEmptyName        = errors.New("name is required")
	ErrNameTooLong      = errors.New("name must be at most 128 characters")
	ErrInvalidServiceID = errors.New("service_id must be greater than zero")
	ErrInvalidStatus    = errors.New("order status is invalid")
	ErrAlreadyDeleted   = errors.New("order is already deleted")
)

// OrderItem is a line item owned by an order. Items are read-only here.
type OrderItem struct {
	ID      int64
	Name    string
	OrderID int64
	projection.Metadata
}

// Order is the aggregate handled by the orders API.
type Order struct {
	ID        int64
	Name      string
	ServiceID int64
	Status    Status
	Items     []OrderItem
	projection.Metadata
}

// NewOrder validates and builds an active order that is not yet persisted.
func NewOrder(name string, serviceID int64) (*Order, error) {
	o := &Order{Status: StatusActive}
	if err := o.Rename(name); err != nil {
		return nil, err
	}
	if err := o.AssignService(serviceID); err != nil {
		return nil, err
	}
	return o, nil
}

// IsActive reports whether the order is visible through the API.
func (o *Order) IsActive() bool {
	return o != nil && o.Status == StatusActive
}

// Rename changes the order name, enforcing the column constraints.
func (o *Order) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	o.Name = name
	return nil
}

// AssignService points the order at another service. Whether the service
// exists is checked by the application layer.
func (o *Order) AssignService(serviceID int64) error {
	if serviceID <= 0 {
		return ErrInvalidServiceID
	}
	o.ServiceID = serviceID
	return nil
}

// MarkDeleted soft-deletes the order.
func (o *Order) MarkDeleted() error {
	if !o.IsActive() {
		return ErrAlreadyDeleted
	}
	o.Status = StatusDeleted
	return nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if err := validateName(o.Name); err != nil {
		return err
	}
	if o.ServiceID <= 0 {
		return ErrInvalidServiceID
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDeleted:
		return true
	default:
		return false
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
