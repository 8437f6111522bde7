package mapper

import (
	"encoding/json"

	servicedomain "github.com/exampleco/orders-api/internal/domains/services/domain"
)

// Service is the transport shape of a service, used by both the list and
// detail endpoints. Price is encoded as a JSON number with two decimals.
type Service struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
}

// FromDomainService converts a domain service to its transport shape.
func FromDomainService(service *servicedomain.Service) Service {
	if service == nil {
		return Service{}
	}
	return Service{
		ID:          service.ID,
		Name:        service.Name,
		Price:       json.Number(service.Price.StringFixed(servicedomain.PriceScale)),
		Description: service.Description,
	}
}

// FromDomainServices converts a list, never returning nil so it encodes as [].
func FromDomainServices(services []*servicedomain.Service) []Service {
	result := make([]Service, 0, len(services))
	for _, service := range services {
		result = append(result, FromDomainService(service))
	}
	return result
}
