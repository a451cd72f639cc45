package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/errors"
	"github.com/campusboard/feedengine/internal/feed"
)

// GetFeed is the stateless feed endpoint: list the scope, run the pipeline,
// return the page. No session, no selection state.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	scope := domain.Scope(chi.URLParam(r, "scope"))

	q, err := parseFeedQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snapshot, err := h.announcements.List(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, feed.Run(snapshot, q, time.Now(), h.sessions.PageSize()))
}

// OpenSession subscribes to a scope's live record set and returns a session
// id the client uses for subsequent page and selection calls.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	scope := domain.Scope(chi.URLParam(r, "scope"))

	s, err := h.sessions.Open(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, SessionResponse{SessionId: s.Id, Scope: s.Scope, State: s.State()})
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(chi.URLParam(r, "session"))
	w.WriteHeader(http.StatusOK)
}

// QuerySession recomputes the visible page from the session's snapshot.
// Pure computation: control changes never hit the store.
func (h *Handler) QuerySession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "session"))
	if !ok {
		writeError(w, &errors.NotFoundError{Id: chi.URLParam(r, "session")})
		return
	}

	q, err := parseFeedQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, s.Query(q))
}

func (h *Handler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "session"))
	if !ok {
		writeError(w, &errors.NotFoundError{Id: chi.URLParam(r, "session")})
		return
	}

	var body SelectionRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	q, err := parseFeedQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch body.Action {
	case "add":
		s.Select(toIds(body.Ids)...)
	case "remove":
		s.Deselect(toIds(body.Ids)...)
	case "clear":
		s.ClearSelection()
	case "page":
		// select only the page the query resolves to
		s.SelectPage(q)
	case "filtered":
		// select everything matching the filters, across all pages
		s.SelectAllFiltered(q)
	}

	writeJSON(w, SelectionResponse{Ids: s.SelectedIds()})
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "session"))
	if !ok {
		writeError(w, &errors.NotFoundError{Id: chi.URLParam(r, "session")})
		return
	}
	writeJSON(w, SelectionResponse{Ids: s.SelectedIds()})
}
