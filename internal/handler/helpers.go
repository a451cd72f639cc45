package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/errors"
	"github.com/campusboard/feedengine/internal/logger"
)

func decodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid request body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// writeError maps the error taxonomy onto HTTP statuses. PartialBatchFailure
// gets a structured body so the caller can show exact success/failure counts.
func writeError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *errors.ErrorWithStatusCode:
		http.Error(w, e.Message, e.StatusCode)
	case *errors.ValidationError:
		http.Error(w, e.Error(), http.StatusBadRequest)
	case *errors.NotFoundError:
		http.Error(w, e.Error(), http.StatusNotFound)
	case *errors.PartialBatchFailure:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(PartialFailureResponse{
			Error:     e.Error(),
			Succeeded: e.Succeeded,
			Failed:    e.Failed,
		})
	case *errors.TransientIOError:
		http.Error(w, e.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseIntParam(value, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: name + " must be an integer", StatusCode: http.StatusBadRequest}
	}
	return n, nil
}

// parseFeedQuery builds the explicit query value object from URL params.
// Unknown or missing controls fall back to defaults instead of erroring.
func parseFeedQuery(r *http.Request) (domain.FeedQuery, error) {
	q := domain.FeedQuery{
		TimeFilter: domain.Bucket(r.URL.Query().Get("time")),
		Text: domain.TextFilters{
			Title:       r.URL.Query().Get("title"),
			Description: r.URL.Query().Get("description"),
			Date:        r.URL.Query().Get("date"),
		},
		PinnedOnly:    r.URL.Query().Get("pinned_only") == "true",
		SortKey:       domain.SortKey(r.URL.Query().Get("sort")),
		SortDirection: domain.SortDirection(r.URL.Query().Get("dir")),
		Page:          1,
	}
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		page, err := parseIntParam(pageParam, "page")
		if err != nil {
			return q, err
		}
		q.Page = page
	}
	return q.Normalize(), nil
}

func toIds(raw []string) []domain.AnnouncementId {
	ids := make([]domain.AnnouncementId, len(raw))
	for i, s := range raw {
		ids[i] = domain.AnnouncementId(s)
	}
	return ids
}
