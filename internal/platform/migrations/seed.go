package migrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	servicedomain "github.com/exampleco/orders-api/internal/domains/services/domain"
)

// ServiceSeed is one entry of a services seed file. Price is kept as
// written so no binary float rounding happens before it is parsed.
type ServiceSeed struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

type seedFile struct {
	Services []ServiceSeed `yaml:"services"`
}

// Domain validates the seed and converts it to a service without an id.
func (s ServiceSeed) Domain() (*servicedomain.Service, error) {
	price := decimal.Zero
	if s.Price != "" {
		parsed, err := decimal.NewFromString(s.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q: %w", s.Price, err)
		}
		price = parsed
	}
	return servicedomain.NewService(0, s.Name, price, s.Description)
}

// LoadServiceSeeds decodes a YAML document of the form
//
//	services:
//	  - name: Haircut
//	    price: 25.00
//	    description: Wash and cut
//
// Every entry is validated; the first invalid one fails the load.
func LoadServiceSeeds(r io.Reader) ([]ServiceSeed, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode service seeds: %w", err)
	}
	for i, seed := range doc.Services {
		if _, err := seed.Domain(); err != nil {
			return nil, fmt.Errorf("service seed %d (%q): %w", i, seed.Name, err)
		}
	}
	return doc.Services, nil
}

// LoadServiceSeedsFile opens path and decodes it with LoadServiceSeeds.
func LoadServiceSeedsFile(path string) ([]ServiceSeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadServiceSeeds(f)
}

// SeedServices inserts the seeds whose name is not yet present and reports
// how many rows were written. Re-running with the same file is a no-op.
func SeedServices(ctx context.Context, db *gorm.DB, seeds []ServiceSeed) (int, error) {
	if db == nil {
		return 0, errors.New("seed services: database not configured")
	}
	inserted := 0
	for _, seed := range seeds {
		var count int64
		if err := db.WithContext(ctx).Model(&serviceRecord{}).Where("name = ?", seed.Name).Count(&count).Error; err != nil {
			return inserted, fmt.Errorf("seed services: lookup %q: %w", seed.Name, err)
		}
		if count > 0 {
			continue
		}
		service, err := seed.Domain()
		if err != nil {
			return inserted, fmt.Errorf("seed services: %q: %w", seed.Name, err)
		}
		record := serviceRecord{Name: service.Name, Price: service.Price, Description: service.Description}
		if err := db.WithContext(ctx).Create(&record).Error; err != nil {
			return inserted, fmt.Errorf("seed services: insert %q: %w", seed.Name, err)
		}
		inserted++
	}
	return inserted, nil
}
