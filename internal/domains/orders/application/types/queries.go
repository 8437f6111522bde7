package types

import (
	"time"

	"github.com/exampleco/orders-api/internal/domains/orders/domain"
)

// StatsInput selects the statistics window by its raw keyword.
type StatsInput struct {
	TimePeriod string
}

// StatsBucket is one non-empty time bucket.
type StatsBucket struct {
	Start time.Time
	Count int64
}

// OrderStats is the result of the statistics use case. Buckets keep the
// order in which the store returned them.
type OrderStats struct {
	Period  domain.TimePeriod
	Cutoff  time.Time
	Buckets []StatsBucket
}

// Total sums the bucket counts.
func (s *OrderStats) Total() int64 {
	if s == nil {
		return 0
	}
	var total int64
	for _, b := range s.Buckets {
		total += b.Count
	}
	return total
}
