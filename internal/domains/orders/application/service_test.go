package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermemory "github.com/exampleco/orders-api/internal/domains/orders/adapters/memory"
	"github.com/exampleco/orders-api/internal/domains/orders/application/types"
	"github.com/exampleco/orders-api/internal/domains/orders/domain"
	"github.com/exampleco/orders-api/internal/domains/orders/ports"
	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

// stubServices accepts a fixed set of service ids.
type stubServices map[int64]bool

func (s stubServices) Exists(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

type failingServices struct{}

func (failingServices) Exists(context.Context, int64) (bool, error) {
	return false, errors.New("connection refused")
}

// clock is a settable time source shared by the service and the repository.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T, opts ...Option) (*Service, *ordermemory.Repository, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2023, 1, 3, 12, 0, 0, 0, time.UTC)}
	repo := ordermemory.NewRepository()
	repo.WithClock(c.Now)
	opts = append([]Option{WithClock(c.Now)}, opts...)
	return NewService(repo, stubServices{1: true, 2: true}, opts...), repo, c
}

func strPtr(s string) *string { return &s }
func idPtr(id int64) *int64  { return &id }

func TestCreateOrder_Succeeds(t *testing.T) {
	svc, _, _ := newTestService(t)

	order, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{Name: "Hair Cut", ServiceID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, "Hair Cut", order.Name)
	assert.Equal(t, int64(1), order.ServiceID)
	assert.True(t, order.IsActive())
	assert.Equal(t, time.Date(2023, 1, 3, 12, 0, 0, 0, time.UTC), order.CreatedOn)
	assert.Equal(t, order.CreatedOn, order.ModifiedOn)
}

func TestCreateOrder_UnknownServiceWritesNothing(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 99})
	require.Error(t, err)
	assert.True(t, apierrors.IsValidation(err))
	assert.EqualError(t, err, "Service with id 99 does not exist.")

	_, err = svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 0})
	assert.EqualError(t, err, "Service with id 0 does not exist.")

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, ok := repo.Snapshot(1)
	assert.False(t, ok)
}

func TestCreateOrder_InvalidName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{Name: "  ", ServiceID: 1})
	require.Error(t, err)
	assert.True(t, apierrors.IsValidation(err))
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestCreateOrder_LookupFailureIsInternal(t *testing.T) {
	svc := NewService(ordermemory.NewRepository(), failingServices{})

	_, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{Name: "Hair Cut", ServiceID: 1})
	require.Error(t, err)
	assert.Equal(t, apierrors.KindInternal, apierrors.KindOf(err))
}

func TestGetOrder_IncludesItemsInIDOrder(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 1})
	require.NoError(t, err)
	other, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Shave", ServiceID: 2})
	require.NoError(t, err)
	first, err := repo.AddItem(created.ID, "Shampoo")
	require.NoError(t, err)
	_, err = repo.AddItem(other.ID, "Foam")
	require.NoError(t, err)
	second, err := repo.AddItem(created.ID, "Conditioner")
	require.NoError(t, err)

	order, err := svc.GetOrder(ctx, types.OrderIdentifier{ID: created.ID})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, first.ID, order.Items[0].ID)
	assert.Equal(t, second.ID, order.Items[1].ID)
	for _, item := range order.Items {
		assert.Equal(t, created.ID, item.OrderID)
	}
}

func TestGetOrder_Missing(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetOrder(context.Background(), types.OrderIdentifier{ID: 5})
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.EqualError(t, err, "order with id 5 does not exist.")
}

func TestDeleteOrder_SoftDeletes(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteOrder(ctx, types.OrderIdentifier{ID: created.ID}))

	_, err = svc.GetOrder(ctx, types.OrderIdentifier{ID: created.ID})
	assert.EqualError(t, err, "order with id 1 does not exist.")

	raw, ok := repo.Snapshot(created.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusDeleted, raw.Status)

	err = svc.DeleteOrder(ctx, types.OrderIdentifier{ID: created.ID})
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestListOrders_OnlyActive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: name, ServiceID: 1})
		require.NoError(t, err)
	}
	require.NoError(t, svc.DeleteOrder(ctx, types.OrderIdentifier{ID: 2}))

	list, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "c", list[1].Name)
}

func TestUpdateOrder_Partial(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 1})
	require.NoError(t, err)

	c.now = c.now.Add(time.Minute)
	renamed, err := svc.UpdateOrder(ctx, types.UpdateOrderInput{ID: created.ID, Name: strPtr("Beard Trim")})
	require.NoError(t, err)
	assert.Equal(t, "Beard Trim", renamed.Name)
	assert.Equal(t, int64(1), renamed.ServiceID)
	assert.Equal(t, created.CreatedOn, renamed.CreatedOn)
	assert.True(t, renamed.ModifiedOn.After(created.ModifiedOn))

	moved, err := svc.UpdateOrder(ctx, types.UpdateOrderInput{ID: created.ID, ServiceID: idPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "Beard Trim", moved.Name)
	assert.Equal(t, int64(2), moved.ServiceID)
}

func TestUpdateOrder_EmptyLeavesRecordUnchanged(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 1})
	require.NoError(t, err)

	c.now = c.now.Add(time.Hour)
	same, err := svc.UpdateOrder(ctx, types.UpdateOrderInput{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.Name, same.Name)
	assert.Equal(t, created.ServiceID, same.ServiceID)
	assert.Equal(t, created.ModifiedOn, same.ModifiedOn)
}

func TestUpdateOrder_DecodesAfterLookup(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	decodes := 0
	decode := func() (types.UpdateOrderInput, error) {
		decodes++
		return types.UpdateOrderInput{ID: 99, Name: strPtr("Beard Trim")}, nil
	}
	_, err := svc.UpdateOrder(ctx, types.UpdateOrderInput{ID: 9, Decode: decode})
	assert.True(t, apierrors.IsNotFound(err))
	assert.Zero(t, decodes)

	created, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 1})
	require.NoError(t, err)
	updated, err := svc.UpdateOrder(ctx, types.UpdateOrderInput{ID: created.ID, Decode: decode})
	require.NoError(t, err)
	assert.Equal(t, 1, decodes)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Beard Trim", updated.Name)

	malformed := apierrors.Validation("request body must be a JSON object")
	_, err = svc.UpdateOrder(ctx, types.UpdateOrderInput{ID: created.ID, Decode: func() (types.UpdateOrderInput, error) {
		return types.UpdateOrderInput{}, malformed
	}})
	assert.ErrorIs(t, err, malformed)
}

func TestUpdateOrder_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateOrder(ctx, types.UpdateOrderInput{ID: 9, Name: strPtr("x")})
	assert.EqualError(t, err, "order with id 9 does not exist.")

	created, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 1})
	require.NoError(t, err)

	_, err = svc.UpdateOrder(ctx, types.UpdateOrderInput{ID: created.ID, ServiceID: idPtr(42), Name: strPtr("Shave")})
	require.Error(t, err)
	assert.True(t, apierrors.IsValidation(err))
	assert.EqualError(t, err, "Service with id 42 does not exist.")

	current, err := svc.GetOrder(ctx, types.OrderIdentifier{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "Hair Cut", current.Name)
}

func TestStats_WeekBucketsByHour(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	for _, ts := range []time.Time{
		time.Date(2023, 1, 1, 10, 15, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 10, 45, 0, 0, time.UTC),
		time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC),
	} {
		c.now = ts
		_, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "o", ServiceID: 1})
		require.NoError(t, err)
	}
	c.now = time.Date(2023, 1, 3, 12, 0, 0, 0, time.UTC)

	stats, err := svc.Stats(ctx, types.StatsInput{TimePeriod: "THIS_WEEK"})
	require.NoError(t, err)
	assert.Equal(t, domain.ThisWeek, stats.Period)
	assert.Equal(t, time.Date(2022, 12, 27, 12, 0, 0, 0, time.UTC), stats.Cutoff)
	assert.Equal(t, []types.StatsBucket{
		{Start: time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC), Count: 2},
		{Start: time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC), Count: 1},
	}, stats.Buckets)
	assert.Equal(t, int64(3), stats.Total())
}

func TestStats_MonthAndYearGranularity(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	for _, ts := range []time.Time{
		time.Date(2022, 11, 20, 8, 0, 0, 0, time.UTC),
		time.Date(2022, 12, 30, 8, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 23, 0, 0, 0, time.UTC),
	} {
		c.now = ts
		_, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "o", ServiceID: 1})
		require.NoError(t, err)
	}
	c.now = time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC)

	month, err := svc.Stats(ctx, types.StatsInput{TimePeriod: "THIS_MONTH"})
	require.NoError(t, err)
	assert.Equal(t, []types.StatsBucket{
		{Start: time.Date(2022, 12, 30, 0, 0, 0, 0, time.UTC), Count: 1},
		{Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Count: 2},
	}, month.Buckets)

	year, err := svc.Stats(ctx, types.StatsInput{TimePeriod: "THIS_YEAR"})
	require.NoError(t, err)
	assert.Equal(t, []types.StatsBucket{
		{Start: time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC), Count: 1},
		{Start: time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), Count: 1},
		{Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Count: 2},
	}, year.Buckets)
}

func TestStats_CountsDeletedByDefault(t *testing.T) {
	ctx := context.Background()
	run := func(activeOnly bool) int64 {
		svc, _, _ := newTestService(t, WithStatsActiveOnly(activeOnly))
		for i := 0; i < 2; i++ {
			_, err := svc.CreateOrder(ctx, types.CreateOrderInput{Name: "o", ServiceID: 1})
			require.NoError(t, err)
		}
		require.NoError(t, svc.DeleteOrder(ctx, types.OrderIdentifier{ID: 1}))
		stats, err := svc.Stats(ctx, types.StatsInput{TimePeriod: "THIS_WEEK"})
		require.NoError(t, err)
		return stats.Total()
	}
	assert.Equal(t, int64(2), run(false))
	assert.Equal(t, int64(1), run(true))
}

func TestStats_InvalidPeriod(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, raw := range []string{"THIS_DECADE", "", "this_week"} {
		_, err := svc.Stats(context.Background(), types.StatsInput{TimePeriod: raw})
		require.Error(t, err, raw)
		assert.True(t, apierrors.IsValidation(err))
		assert.ErrorIs(t, err, domain.ErrInvalidTimePeriod)
		assert.EqualError(t, err, "time-period must be one of ['THIS_WEEK', 'THIS_MONTH', 'THIS_YEAR']")
	}
}
