package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/campusboard/feedengine/internal/domain"
)

const dateLayout = "2006-01-02"

// Page is one visible slice of the classified, filtered and sorted feed.
type Page struct {
	Items     []domain.Announcement `json:"items"`
	Page      int                   `json:"page"`
	PageCount int                   `json:"page_count"`
	Total     int                   `json:"total"` // records surviving the filters, across all pages
}

// Run recomputes the visible page from a snapshot and a query. It is a pure
// function: no network, no shared state. Stages run in a fixed order, each
// over the whole intermediate set: time filter, text filters, sort, slice.
func Run(snapshot []domain.Announcement, q domain.FeedQuery, now time.Time, pageSize int) Page {
	q = q.Normalize()
	if pageSize < 1 {
		pageSize = 1
	}

	filtered := make([]domain.Announcement, 0, len(snapshot))
	for _, a := range snapshot {
		if matches(&a, q, now) {
			filtered = append(filtered, a)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return Compare(&filtered[i], &filtered[j], q.SortKey, q.SortDirection) < 0
	})

	total := len(filtered)
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}
	page := q.Page
	if page > pageCount {
		page = pageCount
	}

	lo := (page - 1) * pageSize
	hi := lo + pageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	return Page{
		Items:     filtered[lo:hi],
		Page:      page,
		PageCount: pageCount,
		Total:     total,
	}
}

// FilteredIds returns every id surviving the query's filters, ignoring
// pagination. Used by "select all in current filter".
func FilteredIds(snapshot []domain.Announcement, q domain.FeedQuery, now time.Time) []domain.AnnouncementId {
	q = q.Normalize()
	var ids []domain.AnnouncementId
	for _, a := range snapshot {
		if matches(&a, q, now) {
			ids = append(ids, a.Id)
		}
	}
	return ids
}

// matches is the single filter predicate both Run and FilteredIds go through.
func matches(a *domain.Announcement, q domain.FeedQuery, now time.Time) bool {
	if domain.Classify(a.Dates, now) != q.TimeFilter {
		return false
	}
	if !matchesText(a, q.Text) {
		return false
	}
	if q.PinnedOnly && !a.IsPinned {
		return false
	}
	return true
}

func matchesText(a *domain.Announcement, f domain.TextFilters) bool {
	if f.Title != "" && !containsFold(a.Title, f.Title) {
		return false
	}
	if f.Description != "" && !containsFold(a.Description, f.Description) {
		return false
	}
	if f.Date != "" && !containsFold(formatDates(a.Dates), f.Date) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func formatDates(r *domain.DateRange) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	if r.Start != nil {
		b.WriteString(r.Start.Format(dateLayout))
	}
	b.WriteString(" - ")
	if r.End != nil {
		b.WriteString(r.End.Format(dateLayout))
	}
	return b.String()
}
