package note

import (
	"context"
	"time"
)

// Series maps ISO bucket-start date -> action -> count. Only buckets with at
// least one matching event appear; absent (bucket, action) pairs are implicit
// zeros. Map iteration is unordered; callers needing ordered periods must
// sort the keys.
type Series map[string]map[string]int64

type AnalyticsResult struct {
	Bucket  string
	Actions []string
	Series  Series
}

const (
	BucketDaily   = "daily"
	BucketWeekly  = "weekly"
	BucketMonthly = "monthly"
	BucketYearly  = "yearly"
)

// NormalizeBucket maps unrecognized granularities back to daily.
func NormalizeBucket(bucket string) string {
	switch bucket {
	case BucketDaily, BucketWeekly, BucketMonthly, BucketYearly:
		return bucket
	default:
		return BucketDaily
	}
}

// NormalizeActions drops unknown entries and dedupes, returning the filter in
// canonical order. An empty result falls back to all four actions.
func NormalizeActions(actions []string) []string {
	want := map[string]bool{}
	for _, a := range actions {
		want[a] = true
	}
	var out []string
	for _, a := range Actions {
		if want[a] {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		out = append(out, Actions...)
	}
	return out
}

// Analytics aggregates the acting user's own audit events into a sparse time
// series: events are grouped by (bucket start, action) and counted. All
// bucketing is done in UTC, matching how created_at is stored.
func (s *Service) Analytics(ctx context.Context, userID uint64, bucket string, actions []string) (*AnalyticsResult, error) {
	bucket = NormalizeBucket(bucket)
	actions = NormalizeActions(actions)

	var events []NoteEvent
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND action IN ?", userID, actions).
		Order("created_at asc").
		Find(&events).Error; err != nil {
		return nil, err
	}

	series := Series{}
	for _, ev := range events {
		key := bucketStart(ev.CreatedAt, bucket).Format("2006-01-02")
		if series[key] == nil {
			series[key] = map[string]int64{}
		}
		series[key][ev.Action]++
	}

	return &AnalyticsResult{Bucket: bucket, Actions: actions, Series: series}, nil
}

// bucketStart truncates t to the start of its containing period in UTC.
// Weeks start on Monday.
func bucketStart(t time.Time, bucket string) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch bucket {
	case BucketWeekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
		return day.AddDate(0, 0, -offset)
	case BucketMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case BucketYearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}
