package handlers

import (
	"context"
	"net/http"
	"strconv"

	orderhttpmapper "github.com/exampleco/orders-api/internal/domains/orders/adapters/http/mapper"
	orderapp "github.com/exampleco/orders-api/internal/domains/orders/application"
	ordertypes "github.com/exampleco/orders-api/internal/domains/orders/application/types"
	orderports "github.com/exampleco/orders-api/internal/domains/orders/ports"
)

// TimePeriodParam is the query string parameter read by the stats handler.
const TimePeriodParam = "time-period"

// OrderAPI serves order reads, writes and statistics.
type OrderAPI struct {
	service orderports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service orderports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// GET /orders
func (api OrderAPI) ListOrders(ctx context.Context, _ Request) (Response, error) {
	orders, err := api.service.ListOrders(ctx)
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(http.StatusOK, orderhttpmapper.FromDomainOrderLists(orders))
}

// GET /orders/:pk
func (api OrderAPI) GetOrder(ctx context.Context, req Request) (Response, error) {
	id, err := parseOrderID(req)
	if err != nil {
		return Response{}, err
	}
	order, err := api.service.GetOrder(ctx, ordertypes.OrderIdentifier{ID: id})
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(http.StatusOK, orderhttpmapper.FromDomainOrderDetail(order))
}

// POST /orders
func (api OrderAPI) CreateOrder(ctx context.Context, req Request) (Response, error) {
	input, err := orderhttpmapper.DecodeCreateOrder(req.Body)
	if err != nil {
		return Response{}, err
	}
	order, err := api.service.CreateOrder(ctx, input)
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(http.StatusCreated, orderhttpmapper.FromDomainOrderDetail(order))
}

// PUT /orders/:pk
// The body is decoded only after the order is found, so an unknown order is
// a 404 whatever the body holds.
func (api OrderAPI) UpdateOrder(ctx context.Context, req Request) (Response, error) {
	id, err := parseOrderID(req)
	if err != nil {
		return Response{}, err
	}
	order, err := api.service.UpdateOrder(ctx, ordertypes.UpdateOrderInput{
		ID: id,
		Decode: func() (ordertypes.UpdateOrderInput, error) {
			return orderhttpmapper.DecodeUpdateOrder(id, req.Body)
		},
	})
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(http.StatusOK, orderhttpmapper.FromDomainOrderDetail(order))
}

// DELETE /orders/:pk
func (api OrderAPI) DeleteOrder(ctx context.Context, req Request) (Response, error) {
	id, err := parseOrderID(req)
	if err != nil {
		return Response{}, err
	}
	if err := api.service.DeleteOrder(ctx, ordertypes.OrderIdentifier{ID: id}); err != nil {
		return Response{}, err
	}
	return noContent(), nil
}

// GET /orders/stats?time-period=THIS_WEEK|THIS_MONTH|THIS_YEAR
func (api OrderAPI) Stats(ctx context.Context, req Request) (Response, error) {
	stats, err := api.service.Stats(ctx, ordertypes.StatsInput{TimePeriod: req.QueryParameter(TimePeriodParam)})
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(http.StatusOK, orderhttpmapper.FromOrderStats(stats))
}

// parseOrderID reads the pk path parameter. A value that is not an integer
// cannot name a row, so it is reported as not found.
func parseOrderID(req Request) (int64, error) {
	raw := req.PathParameter("pk")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, orderapp.OrderNotFound(raw)
	}
	return id, nil
}
