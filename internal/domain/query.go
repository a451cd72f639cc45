package domain

type SortKey string

const (
	SortByTitle       SortKey = "title"
	SortByDescription SortKey = "description"
	SortByStart       SortKey = "start"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TextFilters are case-insensitive substring matches. Empty fields match
// everything.
type TextFilters struct {
	Title       string
	Description string
	Date        string // matched against the rendered date range
}

// FeedQuery is the complete control state of one feed rendering. It is
// passed into the pipeline explicitly, never kept as ambient state, so the
// pipeline is testable without any UI harness.
type FeedQuery struct {
	TimeFilter    Bucket
	Text          TextFilters
	PinnedOnly    bool
	SortKey       SortKey
	SortDirection SortDirection
	Page          int
}

// Normalize fills unset controls with their defaults: the current bucket,
// start-ascending order, first page.
func (q FeedQuery) Normalize() FeedQuery {
	switch q.TimeFilter {
	case BucketPast, BucketCurrent, BucketFuture:
	default:
		q.TimeFilter = BucketCurrent
	}
	switch q.SortKey {
	case SortByTitle, SortByDescription, SortByStart:
	default:
		q.SortKey = SortByStart
	}
	switch q.SortDirection {
	case SortAsc, SortDesc:
	default:
		q.SortDirection = SortAsc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}
