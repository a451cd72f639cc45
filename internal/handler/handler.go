package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campusboard/feedengine/internal/feed"
	"github.com/campusboard/feedengine/internal/logger"
	"github.com/campusboard/feedengine/internal/render"
	"github.com/campusboard/feedengine/internal/service"
	"github.com/campusboard/feedengine/internal/storage"
)

type Handler struct {
	announcements service.AnnouncementService
	sessions      *feed.Manager
	renderer      *render.Renderer
	health        storage.Pinger
}

func New(announcements service.AnnouncementService, sessions *feed.Manager, renderer *render.Renderer, health storage.Pinger) *Handler {
	return &Handler{
		announcements: announcements,
		sessions:      sessions,
		renderer:      renderer,
		health:        health,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
