package migrations

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	servicedomain "github.com/exampleco/orders-api/internal/domains/services/domain"
)

const seedYAML = `
services:
  - name: Haircut
    price: 25.5
    description: Wash and cut
  - name: Shave
    price: 10
`

func TestLoadServiceSeeds(t *testing.T) {
	seeds, err := LoadServiceSeeds(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, ServiceSeed{Name: "Haircut", Price: "25.5", Description: "Wash and cut"}, seeds[0])
	assert.Equal(t, "Shave", seeds[1].Name)
	assert.Empty(t, seeds[1].Description)
}

func TestLoadServiceSeeds_Empty(t *testing.T) {
	seeds, err := LoadServiceSeeds(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, seeds)
}

func TestLoadServiceSeeds_RejectsInvalidEntries(t *testing.T) {
	_, err := LoadServiceSeeds(strings.NewReader("services:\n  - name: \"\"\n    price: 1\n"))
	require.ErrorIs(t, err, servicedomain.ErrEmptyName)

	_, err = LoadServiceSeeds(strings.NewReader("services:\n  - name: Nails\n    price: -1\n"))
	require.ErrorIs(t, err, servicedomain.ErrNegativePrice)
}

func TestLoadServiceSeeds_RejectsUnknownFields(t *testing.T) {
	_, err := LoadServiceSeeds(strings.NewReader("services:\n  - name: Nails\n    cost: 1\n"))
	require.Error(t, err)
}

func TestLoadServiceSeedsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	seeds, err := LoadServiceSeedsFile(path)
	require.NoError(t, err)
	assert.Len(t, seeds, 2)

	_, err = LoadServiceSeedsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServiceSeedDomain(t *testing.T) {
	service, err := ServiceSeed{Name: "Haircut", Price: "25.10"}.Domain()
	require.NoError(t, err)
	assert.Zero(t, service.ID)
	assert.Equal(t, "Haircut", service.Name)
	assert.Equal(t, "25.10", service.Price.StringFixed(2))

	_, err = ServiceSeed{Name: "Haircut", Price: "cheap"}.Domain()
	assert.Error(t, err)
}

func TestLoadServiceSeeds_RejectsFractionalCents(t *testing.T) {
	_, err := LoadServiceSeeds(strings.NewReader("services:\n  - name: Nails\n    price: 0.105\n"))
	require.ErrorIs(t, err, servicedomain.ErrPricePrecision)
}

func TestSeedServices_RequiresDatabase(t *testing.T) {
	_, err := SeedServices(context.Background(), nil, []ServiceSeed{{Name: "Haircut"}})
	assert.Error(t, err)
}
