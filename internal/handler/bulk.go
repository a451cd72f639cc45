package handler

import (
	"net/http"
)

func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var body BulkRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.announcements.BulkDelete(r.Context(), toIds(body.Ids)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) BulkUnpin(w http.ResponseWriter, r *http.Request) {
	var body BulkRequest
	if err := decodeValidate(r.Body, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.announcements.BulkUnpin(r.Context(), toIds(body.Ids)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
