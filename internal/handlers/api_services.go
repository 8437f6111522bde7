package handlers

import (
	"context"
	"net/http"
	"strconv"

	servicehttpmapper "github.com/exampleco/orders-api/internal/domains/services/adapters/http/mapper"
	serviceapp "github.com/exampleco/orders-api/internal/domains/services/application"
	serviceports "github.com/exampleco/orders-api/internal/domains/services/ports"
)

// ServiceAPI serves the read-only service catalogue.
type ServiceAPI struct {
	service serviceports.Service
}

// NewServiceAPI creates a ServiceAPI backed by the provided service.
func NewServiceAPI(service serviceports.Service) ServiceAPI {
	return ServiceAPI{service: service}
}

// GET /services
func (api ServiceAPI) ListServices(ctx context.Context, _ Request) (Response, error) {
	services, err := api.service.ListServices(ctx)
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(http.StatusOK, servicehttpmapper.FromDomainServices(services))
}

// GET /services/:pk
func (api ServiceAPI) GetService(ctx context.Context, req Request) (Response, error) {
	raw := req.PathParameter("pk")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Response{}, serviceapp.ServiceNotFound(raw)
	}
	service, err := api.service.GetService(ctx, id)
	if err != nil {
		return Response{}, err
	}
	return jsonResponse(http.StatusOK, servicehttpmapper.FromDomainService(service))
}
