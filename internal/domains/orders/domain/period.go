package domain

import (
	"errors"
	"time"
)

// TimePeriod selects the window and bucket size of the order statistics.
type TimePeriod string

const (
	ThisWeek  TimePeriod = "THIS_WEEK"
	ThisMonth TimePeriod = "THIS_MONTH"
	ThisYear  TimePeriod = "THIS_YEAR"
)

// TimePeriods lists the accepted periods in display order.
var TimePeriods = []TimePeriod{ThisWeek, ThisMonth, ThisYear}

var ErrInvalidTimePeriod = errors.New("time period is invalid")

// ParseTimePeriod accepts the exact upper-case keywords only.
func ParseTimePeriod(raw string) (TimePeriod, error) {
	p := TimePeriod(raw)
	switch p {
	case ThisWeek, ThisMonth, ThisYear:
		return p, nil
	default:
		return "", ErrInvalidTimePeriod
	}
}

// Window is how far back from now the period reaches.
func (p TimePeriod) Window() time.Duration {
	switch p {
	case ThisWeek:
		return 7 * 24 * time.Hour
	case ThisMonth:
		return 30 * 24 * time.Hour
	case ThisYear:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

// Cutoff returns the exclusive lower bound on created_on for the period.
func (p TimePeriod) Cutoff(now time.Time) time.Time {
	return now.Add(-p.Window())
}

// Granularity returns the bucket size used for the period.
func (p TimePeriod) Granularity() Granularity {
	switch p {
	case ThisWeek:
		return GranularityHour
	case ThisMonth:
		return GranularityDay
	default:
		return GranularityMonth
	}
}

// Granularity is the truncation applied to created_on before grouping.
type Granularity int

const (
	GranularityHour Granularity = iota
	GranularityDay
	GranularityMonth
)

func (g Granularity) String() string {
	switch g {
	case GranularityHour:
		return "hour"
	case GranularityDay:
		return "day"
	default:
		return "month"
	}
}

// Bucket is a grouping key as returned by the store. Fields finer than the
// granularity are zero.
type Bucket struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

// BucketOf extracts the grouping key of t (in UTC) at granularity g.
func BucketOf(t time.Time, g Granularity) Bucket {
	t = t.UTC()
	b := Bucket{Year: t.Year(), Month: int(t.Month())}
	if g == GranularityMonth {
		return b
	}
	b.Day = t.Day()
	if g == GranularityDay {
		return b
	}
	b.Hour = t.Hour()
	return b
}

// Start is the first instant of the bucket at granularity g, in UTC.
func (b Bucket) Start(g Granularity) time.Time {
	day, hour := b.Day, b.Hour
	switch g {
	case GranularityMonth:
		day, hour = 1, 0
	case GranularityDay:
		hour = 0
	}
	return time.Date(b.Year, time.Month(b.Month), day, hour, 0, 0, 0, time.UTC)
}

// BucketCount is one row of the grouped count query.
type BucketCount struct {
	Bucket Bucket
	Count  int64
}
