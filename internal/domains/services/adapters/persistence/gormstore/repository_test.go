package gormstore

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRepository_RequiresDB(t *testing.T) {
	var repo *Repository
	_, err := repo.GetByID(context.Background(), 1)
	assert.Error(t, err)

	_, err = NewRepository(nil).List(context.Background())
	assert.Error(t, err)
}

func TestServiceRecord_ToDomain(t *testing.T) {
	record := serviceRecord{ID: 3, Name: "Haircut", Price: decimal.RequireFromString("25.50"), Description: "Wash and cut"}

	service := record.toDomain()
	assert.Equal(t, int64(3), service.ID)
	assert.Equal(t, "Haircut", service.Name)
	assert.True(t, service.Price.Equal(decimal.RequireFromString("25.5")))
	assert.Equal(t, "Wash and cut", service.Description)
	assert.Equal(t, "services", serviceRecord{}.TableName())
}
