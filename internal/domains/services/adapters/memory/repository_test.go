package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exampleco/orders-api/internal/domains/services/domain"
	"github.com/exampleco/orders-api/internal/domains/services/ports"
)

func TestRepository_AddAssignsIdentifiers(t *testing.T) {
	repo := NewRepository()

	first, err := repo.Add(&domain.Service{Name: "Haircut", Price: decimal.NewFromInt(25)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	explicit, err := repo.Add(&domain.Service{ID: 10, Name: "Shave", Price: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), explicit.ID)

	next, err := repo.Add(&domain.Service{Name: "Massage", Price: decimal.NewFromInt(40)})
	require.NoError(t, err)
	assert.Equal(t, int64(11), next.ID)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{1, 10, 11}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestRepository_AddRejectsInvalid(t *testing.T) {
	repo := NewRepository()

	_, err := repo.Add(nil)
	assert.Error(t, err)
	_, err = repo.Add(&domain.Service{Name: " "})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
	_, err = repo.Add(&domain.Service{Name: "Haircut", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestRepository_GetByIDReturnsCopies(t *testing.T) {
	repo := NewRepository()
	_, err := repo.Add(&domain.Service{Name: "Haircut", Price: decimal.NewFromInt(25)})
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	got.Name = "Changed"

	again, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Haircut", again.Name)

	_, err = repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
