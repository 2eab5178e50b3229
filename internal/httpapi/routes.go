package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tierboard/internal/hub"
	"tierboard/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/boards", CreateBoard(h, log))
	r.Get("/boards/{code}", GetBoard(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
