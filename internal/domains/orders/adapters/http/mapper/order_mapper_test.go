package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exampleco/orders-api/internal/domains/orders/application/types"
	orderdomain "github.com/exampleco/orders-api/internal/domains/orders/domain"
	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
	"github.com/exampleco/orders-api/internal/shared/projection"
)

func strPtr(s string) *string { return &s }

func sampleOrder() *orderdomain.Order {
	created := time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	return &orderdomain.Order{
		ID:        7,
		Name:      "Hair Cut",
		ServiceID: 2,
		Status:    orderdomain.StatusActive,
		Metadata:  projection.Metadata{CreatedOn: created, ModifiedOn: created.Add(time.Hour)},
		Items: []orderdomain.OrderItem{
			{ID: 1, Name: "Shampoo", OrderID: 7, Metadata: projection.Metadata{CreatedOn: created, ModifiedOn: created}},
		},
	}
}

func TestOrderListShapeOmitsItems(t *testing.T) {
	raw, err := json.Marshal(FromDomainOrderLists([]*orderdomain.Order{sampleOrder()}))
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.NotContains(t, decoded[0], "order_items")
	assert.Equal(t, "2023-01-01T10:00:00", decoded[0]["created_on"])
	assert.Equal(t, "2023-01-01T11:00:00", decoded[0]["modified_on"])
	assert.EqualValues(t, 2, decoded[0]["service_id"])
}

func TestOrderListsNeverNil(t *testing.T) {
	raw, err := json.Marshal(FromDomainOrderLists(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestOrderDetailShape(t *testing.T) {
	raw, err := json.Marshal(FromDomainOrderDetail(sampleOrder()))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"name": "Hair Cut",
		"service_id": 2,
		"created_on": "2023-01-01T10:00:00",
		"modified_on": "2023-01-01T11:00:00",
		"order_items": [
			{"id": 1, "name": "Shampoo", "order_id": 7, "created_on": "2023-01-01T10:00:00", "modified_on": "2023-01-01T10:00:00"}
		]
	}`, string(raw))
}

func TestOrderDetailEmptyItems(t *testing.T) {
	order := sampleOrder()
	order.Items = nil
	raw, err := json.Marshal(FromDomainOrderDetail(order))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []any{}, decoded["order_items"])
}

func TestDecodeCreateOrder(t *testing.T) {
	input, err := DecodeCreateOrder(strPtr(`{"name": "Hair Cut", "service_id": 2, "colour": "blue"}`))
	require.NoError(t, err)
	assert.Equal(t, types.CreateOrderInput{Name: "Hair Cut", ServiceID: 2}, input)
}

func TestDecodeCreateOrder_MissingFields(t *testing.T) {
	_, err := DecodeCreateOrder(strPtr(`{"name": "Hair Cut"}`))
	require.Error(t, err)
	assert.True(t, apierrors.IsValidation(err))
	assert.Equal(t, "service_id is required", err.Error())

	_, err = DecodeCreateOrder(strPtr(`{}`))
	require.Error(t, err)
	assert.Equal(t, "name is required; service_id is required", err.Error())
}

func TestDecodeCreateOrder_TypeMismatch(t *testing.T) {
	_, err := DecodeCreateOrder(strPtr(`{"name": "Hair Cut", "service_id": "2"}`))
	require.Error(t, err)
	assert.True(t, apierrors.IsValidation(err))
	assert.Equal(t, "service_id must be an integer", err.Error())

	_, err = DecodeCreateOrder(strPtr(`["not", "an", "object"]`))
	require.Error(t, err)
	assert.True(t, apierrors.IsValidation(err))
}

func TestDecodeCreateOrder_MissingBody(t *testing.T) {
	_, err := DecodeCreateOrder(nil)
	require.Error(t, err)
	assert.True(t, apierrors.IsValidation(err))
}

func TestDecodeCreateOrder_MalformedJSONIsNotTagged(t *testing.T) {
	_, err := DecodeCreateOrder(strPtr(`{"name": `))
	require.Error(t, err)
	assert.Equal(t, apierrors.KindInternal, apierrors.KindOf(err))
}

func TestDecodeUpdateOrder(t *testing.T) {
	input, err := DecodeUpdateOrder(4, strPtr(`{"name": "Shave", "service_id": null}`))
	require.NoError(t, err)
	assert.Equal(t, int64(4), input.ID)
	require.NotNil(t, input.Name)
	assert.Equal(t, "Shave", *input.Name)
	assert.Nil(t, input.ServiceID)

	input, err = DecodeUpdateOrder(4, strPtr(`{}`))
	require.NoError(t, err)
	assert.True(t, input.Empty())
}

func TestStatsMarshalKeepsOrder(t *testing.T) {
	stats := &types.OrderStats{Buckets: []types.StatsBucket{
		{Start: time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC), Count: 1},
		{Start: time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC), Count: 2},
	}}
	raw, err := json.Marshal(FromOrderStats(stats))
	require.NoError(t, err)
	assert.Equal(t, `{"2023-01-02T09:00:00":1,"2023-01-01T10:00:00":2}`, string(raw))
}

func TestStatsMarshalEmpty(t *testing.T) {
	raw, err := json.Marshal(FromOrderStats(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}
