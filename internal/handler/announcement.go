package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/middleware"
	"github.com/campusboard/feedengine/internal/poll"
)

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	scope := domain.Scope(chi.URLParam(r, "scope"))

	var body CreateAnnouncementRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	data := domain.AnnouncementCreationData{
		Scope:       scope,
		Title:       body.Title,
		ShortDesc:   body.ShortDesc,
		Description: body.Description,
		Dates:       body.Dates.toDomain(),
		PosterUrls:  body.PosterUrls,
		Poll:        pollFromCreateRequest(body.Poll),
	}
	if admin, ok := middleware.AdminFromContext(r.Context()); ok {
		data.CreatedBy = admin.Email
	}

	id, err := h.announcements.Create(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, CreateResponse{Id: id})
}

func (h *Handler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	a, err := h.announcements.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

func (h *Handler) EditAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	var body EditAnnouncementRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	err := h.announcements.Edit(r.Context(), id, domain.EditData{
		Title:           body.Title,
		ShortDesc:       body.ShortDesc,
		Description:     body.Description,
		Dates:           body.Dates.toDomain(),
		AddPosterUrls:   body.AddPosterUrls,
		RemovePosterIdx: body.RemovePosterIdx,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	if err := h.announcements.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) PinAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	var body PinRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.announcements.Pin(r.Context(), id, body.Order); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) UnpinAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	if err := h.announcements.Unpin(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SetPinOrder(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	var body PinRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.announcements.SetPinOrder(r.Context(), id, body.Order); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) EditPoll(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	var body PollDraftRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	draft := domain.PollDraft{
		Question:       body.Question,
		AllowMulti:     body.AllowMulti,
		AllowAddOption: body.AllowAddOption,
		Options:        make(map[domain.OptionKey]string, len(body.Options)+len(body.NewOptions)),
	}
	for key, text := range body.Options {
		draft.Options[domain.OptionKey(key)] = text
	}
	for _, text := range body.NewOptions {
		draft.Options[poll.NewOptionKey()] = text
	}

	if err := h.announcements.EditPoll(r.Context(), id, draft); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) RemovePoll(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	if err := h.announcements.RemovePoll(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) PreviewDescription(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementId(chi.URLParam(r, "id"))

	a, err := h.announcements.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	html, err := h.renderer.Render(a.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, PreviewResponse{Html: html})
}

// pollFromCreateRequest assigns the initial stable option keys: opt1..optN
// in submission order, each starting with an empty vote set.
func pollFromCreateRequest(req *PollCreateRequest) *domain.Poll {
	if req == nil {
		return nil
	}
	p := &domain.Poll{
		Question:       req.Question,
		AllowMulti:     req.AllowMulti,
		AllowAddOption: req.AllowAddOption,
		Options:        make(map[domain.OptionKey]domain.PollOption, len(req.Options)),
	}
	for i, text := range req.Options {
		key := domain.OptionKey(fmt.Sprintf("opt%d", i+1))
		p.Options[key] = domain.PollOption{Text: text, Votes: map[domain.VoterId]bool{}}
	}
	return p
}
