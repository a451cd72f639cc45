package feed

import (
	"math"
	"strings"
	"time"

	"github.com/campusboard/feedengine/internal/domain"
)

// pinnedOrderSentinel sorts pinned items with no explicit order after every
// explicitly ordered one.
const pinnedOrderSentinel = math.MaxInt32

// Compare is the display order over the filtered set. The tie-break chain:
//
//  1. pinned before unpinned, regardless of the chosen sort key
//  2. among pinned: ascending pinned order
//  3. among equally ordered pinned: more recently pinned first
//  4. the user-selected key, negated for descending direction
//
// It returns -1, 0 or 1 and must be used with a stable sort so equal-ranked
// items keep their input order across re-renders.
func Compare(a, b *domain.Announcement, key domain.SortKey, dir domain.SortDirection) int {
	if a.IsPinned != b.IsPinned {
		if a.IsPinned {
			return -1
		}
		return 1
	}

	if a.IsPinned && b.IsPinned {
		ao, bo := pinnedOrder(a), pinnedOrder(b)
		if ao != bo {
			if ao < bo {
				return -1
			}
			return 1
		}

		at, bt := pinnedAt(a), pinnedAt(b)
		if !at.Equal(bt) {
			// more recently pinned first
			if at.After(bt) {
				return -1
			}
			return 1
		}
	}

	c := compareByKey(a, b, key)
	if dir == domain.SortDesc {
		c = -c
	}
	return c
}

func compareByKey(a, b *domain.Announcement, key domain.SortKey) int {
	switch key {
	case domain.SortByTitle:
		return compareFold(a.Title, b.Title)
	case domain.SortByDescription:
		return compareFold(a.Description, b.Description)
	default:
		at, bt := startOf(a), startOf(b)
		if at.Before(bt) {
			return -1
		}
		if at.After(bt) {
			return 1
		}
		return 0
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func pinnedOrder(a *domain.Announcement) int {
	if a.PinnedOrder == nil {
		return pinnedOrderSentinel
	}
	return *a.PinnedOrder
}

func pinnedAt(a *domain.Announcement) time.Time {
	if a.PinnedAt == nil {
		return time.Time{}
	}
	return *a.PinnedAt
}

func startOf(a *domain.Announcement) time.Time {
	if a.Dates == nil || a.Dates.Start == nil {
		return time.Time{}
	}
	return *a.Dates.Start
}
