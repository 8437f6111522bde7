package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxNameLength mirrors the width of the name column.
const MaxNameLength = 128

// PriceScale is the number of decimal places the price column keeps.
const PriceScale = 2

// maxPrice is the first value that no longer fits DECIMAL(10,2).
var maxPrice = decimal.New(1, 8)

var (
	ErrEmptyName      = errors.New("service name is required")
	ErrNameTooLong    = errors.New("service name must be at most 128 characters")
	ErrNegativePrice  = errors.New("service price must not be negative")
	ErrPricePrecision = errors.New("service price must have at most two decimal places")
	ErrPriceTooLarge  = errors.New("service price must be below 100000000")
)

// Service is a purchasable offering that orders reference.
type Service struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
}

// NewService validates and constructs a Service.
func NewService(id int64, name string, price decimal.Decimal, description string) (*Service, error) {
	s := &Service{ID: id, Name: name, Price: price, Description: description}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate enforces the invariants of the record.
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(s.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if s.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !s.Price.Equal(s.Price.Round(PriceScale)) {
		return ErrPricePrecision
	}
	if s.Price.GreaterThanOrEqual(maxPrice) {
		return ErrPriceTooLarge
	}
	return nil
}
