package mapper

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	servicedomain "github.com/exampleco/orders-api/internal/domains/services/domain"
)

func TestFromDomainService_JSONShape(t *testing.T) {
	payload, err := json.Marshal(FromDomainService(&servicedomain.Service{ID: 1, Name: "Haircut", Price: decimal.RequireFromString("25.5"), Description: "Wash and cut"}))
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"Haircut","price":25.50,"description":"Wash and cut"}`, string(payload))
}

func TestFromDomainServices_EmptyIsArray(t *testing.T) {
	payload, err := json.Marshal(FromDomainServices(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
	assert.Equal(t, Service{}, FromDomainService(nil))
}
