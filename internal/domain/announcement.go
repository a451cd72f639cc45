package domain

import (
	"time"
)

// Scope is the owning hostel or club. Announcements are never visible across
// scopes.
type Scope string

type AnnouncementId string

// to iterate thru layers: handler -> service -> storage
type AnnouncementCreationData struct {
	Scope       Scope
	Title       string
	ShortDesc   string
	Description string
	Dates       *DateRange
	PosterUrls  []string
	Poll        *Poll
	CreatedBy   string
}

// DateRange bounds the period an announcement refers to. Both ends are
// required for the record to be time-classifiable; a partial range always
// classifies as current.
type DateRange struct {
	Start *time.Time `bson:"start,omitempty" json:"start,omitempty"`
	End   *time.Time `bson:"end,omitempty" json:"end,omitempty"`
}

type Announcement struct {
	Id          AnnouncementId `bson:"_id,omitempty" json:"id"`
	Scope       Scope          `bson:"scope" json:"scope"`
	Title       string         `bson:"title" json:"title"`
	ShortDesc   string         `bson:"short_desc" json:"short_desc"`
	Description string         `bson:"description" json:"description"`
	Dates       *DateRange     `bson:"dates,omitempty" json:"dates,omitempty"`
	PosterUrls  []string       `bson:"poster_urls,omitempty" json:"poster_urls,omitempty"`
	IsPinned    bool           `bson:"is_pinned" json:"is_pinned"`
	// PinnedOrder is meaningful only while pinned; lower sorts earlier.
	// nil means the order was never set and sorts last among pinned items.
	PinnedOrder *int       `bson:"pinned_order,omitempty" json:"pinned_order,omitempty"`
	PinnedAt    *time.Time `bson:"pinned_at,omitempty" json:"pinned_at,omitempty"`
	Poll        *Poll      `bson:"poll,omitempty" json:"poll,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CreatedBy   string     `bson:"created_by" json:"created_by"`
}

// EditData is a full-field edit of everything except pin state and the poll.
// Poster URLs are merged, not replaced: AddPosterUrls are appended and
// RemovePosterIdx entries are dropped by index from the current list.
type EditData struct {
	Title          string
	ShortDesc      string
	Description    string
	Dates          *DateRange
	AddPosterUrls  []string
	RemovePosterIdx []int
}
