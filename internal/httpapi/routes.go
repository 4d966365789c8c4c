package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"matchday/internal/hub"
	"matchday/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/matches", StartMatch(h))
	r.Get("/matches/{id}", GetMatch(h))
	r.Post("/matches/{id}/continue", ContinueMatch(h))
	r.Post("/matches/{id}/forfeit", ForfeitMatch(h))
	r.Post("/matches/{id}/audio", SetAudio(h))
	r.Get("/ws", ws.Handler(h, log.Named("ws")))
	r.Get("/healthz", Healthz)
	return r
}
