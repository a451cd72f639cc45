package domain

import "time"

// Bucket is the temporal classification of an announcement relative to "now".
type Bucket string

const (
	BucketPast    Bucket = "past"
	BucketCurrent Bucket = "current"
	BucketFuture  Bucket = "future"
)

// Classify buckets a date range against the calendar day containing now.
// A range missing either end is always current: undated items are "now".
// A range overlapping today in any way, including fully spanning it, is
// current; only ranges strictly before or after today leave the bucket.
func Classify(r *DateRange, now time.Time) Bucket {
	if r == nil || r.Start == nil || r.End == nil {
		return BucketCurrent
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	if r.End.Before(dayStart) {
		return BucketPast
	}
	if r.Start.After(dayEnd) {
		return BucketFuture
	}
	return BucketCurrent
}
