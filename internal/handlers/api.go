package handlers

import (
	"sort"

	orderports "github.com/exampleco/orders-api/internal/domains/orders/ports"
	serviceports "github.com/exampleco/orders-api/internal/domains/services/ports"
)

// Handler names, shared by the Lambda entrypoint and the router.
const (
	GetAllServices = "get_all_services"
	GetService     = "get_service"
	GetAllOrders   = "get_all_orders"
	GetOrder       = "get_order"
	CreateOrder    = "create_order"
	UpdateOrder    = "update_order"
	DeleteOrder    = "delete_order"
	OrdersStats    = "orders_stats"
)

// API holds every handler, already wrapped by the error boundary.
type API struct {
	handlers map[string]Handler
}

// NewAPI wires the handlers for both bounded contexts behind boundary.
func NewAPI(services serviceports.Service, orders orderports.Service, boundary *Boundary) *API {
	if boundary == nil {
		boundary = NewBoundary(nil, nil)
	}
	serviceAPI := NewServiceAPI(services)
	orderAPI := NewOrderAPI(orders)
	raw := map[string]Handler{
		GetAllServices: serviceAPI.ListServices,
		GetService:     serviceAPI.GetService,
		GetAllOrders:   orderAPI.ListOrders,
		GetOrder:       orderAPI.GetOrder,
		CreateOrder:    orderAPI.CreateOrder,
		UpdateOrder:    orderAPI.UpdateOrder,
		DeleteOrder:    orderAPI.DeleteOrder,
		OrdersStats:    orderAPI.Stats,
	}
	api := &API{handlers: make(map[string]Handler, len(raw))}
	for name, h := range raw {
		api.handlers[name] = boundary.Wrap(name, h)
	}
	return api
}

// Handler returns the named handler.
func (a *API) Handler(name string) (Handler, bool) {
	h, ok := a.handlers[name]
	return h, ok
}

// Names lists the registered handler names in sorted order.
func (a *API) Names() []string {
	names := make([]string, 0, len(a.handlers))
	for name := range a.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
