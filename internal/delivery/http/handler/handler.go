package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/chatsmith/internal/delivery/http/request"
	"github.com/user/chatsmith/internal/delivery/http/response"
	"github.com/user/chatsmith/internal/repository"
	"github.com/user/chatsmith/internal/usecase"
	"github.com/user/chatsmith/pkg/utils"
)

// defaultContextChars is the context budget when max_chars is not given.
const defaultContextChars = 8000

// Handler holds the HTTP handlers for the acquisition API.
type Handler struct {
	acquisitions usecase.AcquisitionManager
	contexts     usecase.ContextBuilder
}

func NewHandler(acquisitions usecase.AcquisitionManager, contexts usecase.ContextBuilder) *Handler {
	return &Handler{acquisitions: acquisitions, contexts: contexts}
}

// HandleAcquire runs the acquisition pipeline for the requested site.
func (h *Handler) HandleAcquire(w http.ResponseWriter, r *http.Request) {
	var req request.AcquireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}
	if req.URL == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "url is required")
		return
	}

	record, fromCache, err := h.acquisitions.Acquire(r.Context(), req.URL, req.ForceRefresh)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.AcquireResponse{
		Status:    "ok",
		FromCache: fromCache,
		CacheKey:  utils.CacheKey(record.Metadata.SourceURL),
		Metadata:  response.NewMetadataResponse(record.Metadata),
	})
}

// HandleGetKnowledge returns the full cached record for a site.
func (h *Handler) HandleGetKnowledge(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "url query parameter is required")
		return
	}

	record, err := h.acquisitions.GetKnowledge(r.Context(), rawURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// HandleGetContext returns the assembled chat context for a site.
func (h *Handler) HandleGetContext(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "url query parameter is required")
		return
	}

	maxChars := defaultContextChars
	if raw := r.URL.Query().Get("max_chars"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			writeJSONError(w, http.StatusBadRequest, "invalid_input", "max_chars must be a positive integer")
			return
		}
		maxChars = value
	}

	record, err := h.acquisitions.GetKnowledge(r.Context(), rawURL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	text := h.contexts.Build(record, maxChars)
	writeJSON(w, http.StatusOK, response.ContextResponse{
		SourceURL: record.Metadata.SourceURL,
		Context:   text,
		Chars:     len(text),
	})
}

// HandleHealthCheck reports service liveness.
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps the pipeline error taxonomy onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, repository.ErrHomepageUnreachable):
		writeJSONError(w, http.StatusBadGateway, "connection_failure", err.Error())
	case errors.Is(err, repository.ErrRecordNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, repository.ErrCacheWrite):
		writeJSONError(w, http.StatusInternalServerError, "cache_write_failure", err.Error())
	default:
		slog.Error("Unhandled pipeline error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, response.ErrorResponse{Error: message, Kind: kind})
}
