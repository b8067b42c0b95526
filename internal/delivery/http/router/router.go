package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/chatsmith/internal/delivery/http/handler"
	"github.com/user/chatsmith/internal/delivery/http/middleware"
)

// NewRouter wires the API routes and the middleware chain.
func NewRouter(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/acquire", h.HandleAcquire)
	mux.HandleFunc("GET /api/knowledge", h.HandleGetKnowledge)
	mux.HandleFunc("GET /api/context", h.HandleGetContext)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Metrics(middleware.Logging(mux))
}
