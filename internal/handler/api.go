package handler

import (
	"time"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/feed"
)

type DateRangeRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

func (d *DateRangeRequest) toDomain() *domain.DateRange {
	if d == nil {
		return nil
	}
	return &domain.DateRange{Start: d.Start, End: d.End}
}

// PollCreateRequest carries a brand-new poll; option keys are assigned
// server-side (opt1, opt2, ...) and stay stable for the poll's lifetime.
type PollCreateRequest struct {
	Question       string   `json:"question" validate:"required"`
	AllowMulti     bool     `json:"allow_multi"`
	AllowAddOption bool     `json:"allow_add_option"`
	Options        []string `json:"options" validate:"required,min=1,dive,required"`
}

type CreateAnnouncementRequest struct {
	Title       string             `json:"title" validate:"required"`
	ShortDesc   string             `json:"short_desc" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Dates       *DateRangeRequest  `json:"dates"`
	PosterUrls  []string           `json:"poster_urls"`
	Poll        *PollCreateRequest `json:"poll"`
}

type EditAnnouncementRequest struct {
	Title           string            `json:"title" validate:"required"`
	ShortDesc       string            `json:"short_desc" validate:"required"`
	Description     string            `json:"description" validate:"required"`
	Dates           *DateRangeRequest `json:"dates"`
	AddPosterUrls   []string          `json:"add_poster_urls"`
	RemovePosterIdx []int             `json:"remove_poster_idx"`
}

// PollDraftRequest edits an embedded poll. Options maps existing keys to
// their (possibly edited) text; a persisted key left out of the map removes
// that option and its votes. NewOptions get fresh server-assigned keys.
type PollDraftRequest struct {
	Question       string            `json:"question" validate:"required"`
	AllowMulti     bool              `json:"allow_multi"`
	AllowAddOption bool              `json:"allow_add_option"`
	Options        map[string]string `json:"options"`
	NewOptions     []string          `json:"new_options"`
}

type PinRequest struct {
	Order int `json:"order"`
}

type BulkRequest struct {
	Ids []string `json:"ids" validate:"required,min=1"`
}

type SelectionRequest struct {
	Action string   `json:"action" validate:"required,oneof=add remove clear page filtered"`
	Ids    []string `json:"ids"`
}

type CreateResponse struct {
	Id domain.AnnouncementId `json:"id"`
}

type SessionResponse struct {
	SessionId string       `json:"session_id"`
	Scope     domain.Scope `json:"scope"`
	State     feed.State   `json:"state"`
}

type SelectionResponse struct {
	Ids []domain.AnnouncementId `json:"ids"`
}

type PreviewResponse struct {
	Html string `json:"html"`
}

type PartialFailureResponse struct {
	Error     string `json:"error"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}
