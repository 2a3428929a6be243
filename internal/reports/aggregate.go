package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/quillbooks/quillbooks/internal/shared"
	"github.com/quillbooks/quillbooks/internal/txn"
)

// Granularity selects the calendar bucket size for aggregation.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// PeriodBucket summarises the transactions falling into one calendar bucket.
type PeriodBucket struct {
	Start       time.Time `json:"start"`
	Label       string    `json:"label"`
	Count       int       `json:"count"`
	TotalAmount int64     `json:"total_amount"`
}

// bucketStart truncates a timestamp to its calendar bucket boundary.
// Weeks start on Monday.
func bucketStart(at time.Time, g Granularity) time.Time {
	at = at.UTC()
	switch g {
	case GranularityWeek:
		day := at.Truncate(24 * time.Hour)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GranularityMonth:
		return time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func bucketLabel(start time.Time, g Granularity) string {
	switch g {
	case GranularityMonth:
		return start.Format("2006-01")
	default:
		return start.Format("2006-01-02")
	}
}

// AggregateByPeriod groups transactions into calendar buckets by creation
// time, returning buckets in chronological order.
func AggregateByPeriod(txns []txn.Transaction, g Granularity) ([]PeriodBucket, error) {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
	default:
		return nil, fmt.Errorf("%w: unknown granularity %q", shared.ErrValidation, g)
	}
	byStart := make(map[time.Time]*PeriodBucket)
	for _, t := range txns {
		start := bucketStart(t.CreatedAt, g)
		bucket, ok := byStart[start]
		if !ok {
			bucket = &PeriodBucket{Start: start, Label: bucketLabel(start, g)}
			byStart[start] = bucket
		}
		bucket.Count++
		bucket.TotalAmount += t.Amount
	}
	buckets := make([]PeriodBucket, 0, len(byStart))
	for _, bucket := range byStart {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Start.Before(buckets[j].Start) })
	return buckets, nil
}
