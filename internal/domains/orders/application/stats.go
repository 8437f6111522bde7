package application

import (
	"context"

	"github.com/exampleco/orders-api/internal/domains/orders/application/types"
	"github.com/exampleco/orders-api/internal/domains/orders/domain"
	"github.com/exampleco/orders-api/internal/domains/orders/ports"
)

// Stats counts orders created within the requested period, grouped into
// hour, day or month buckets. Empty buckets are not reported.
func (s *Service) Stats(ctx context.Context, input types.StatsInput) (*types.OrderStats, error) {
	period, err := domain.ParseTimePeriod(input.TimePeriod)
	if err != nil {
		return nil, InvalidTimePeriod()
	}
	granularity := period.Granularity()
	cutoff := period.Cutoff(s.now().UTC())

	rows, err := s.repo.CountCreated(ctx, ports.CountQuery{
		Granularity: granularity,
		Since:       cutoff,
		ActiveOnly:  s.statsActiveOnly,
	})
	if err != nil {
		return nil, err
	}

	stats := &types.OrderStats{
		Period:  period,
		Cutoff:  cutoff,
		Buckets: make([]types.StatsBucket, 0, len(rows)),
	}
	for _, row := range rows {
		if row.Count <= 0 {
			continue
		}
		stats.Buckets = append(stats.Buckets, types.StatsBucket{
			Start: row.Bucket.Start(granularity),
			Count: row.Count,
		})
	}
	return stats, nil
}
