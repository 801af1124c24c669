// Package devserver is a scripted stand-in for the concierge backend,
// used for local widget development and end-to-end tests. It speaks the
// same two contracts as the real service: a newline-delimited JSON chat
// stream and a lead intake endpoint.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/openlistings/concierge/internal/lead"
	"github.com/openlistings/concierge/internal/protocol"
	"github.com/openlistings/concierge/pkg/logging"
)

// Config holds dev server configuration.
type Config struct {
	Leads          lead.Repository
	Metrics        *Metrics
	MetricsHandler http.Handler
	Logger         *logging.Logger
}

// Handler serves the stub backend endpoints.
type Handler struct {
	leads   lead.Repository
	metrics *Metrics
	logger  *logging.Logger
}

// New builds the dev server router.
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		leads:   cfg.Leads,
		metrics: cfg.Metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/api/chat", h.HandleChat)
	r.Post("/api/lead", h.HandleLead)
	r.Get("/api/health", h.HandleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	return r
}

type chatRequest struct {
	BusinessID     string `json:"business_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
	SheetID        string `json:"sheet_id,omitempty"`
}

// HandleChat answers with a scripted NDJSON event stream: one status
// event, then the terminal result derived from the message text.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveChat("bad_request", time.Since(start).Seconds())
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		h.metrics.ObserveChat("bad_request", time.Since(start).Seconds())
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	convID := req.ConversationID
	if convID == "" {
		convID = uuid.New().String()
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)

	_ = enc.Encode(protocol.Event{Type: protocol.EventStatus, Message: "Looking into that..."})
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	result := scriptResult(convID, req.Message)
	_ = enc.Encode(protocol.Event{Type: protocol.EventResult, Data: &result})

	h.logger.Info("chat served",
		"conversation_id", convID,
		"intent", result.Routing.Intent,
		"lead_captured", result.LeadCaptured,
	)
	h.metrics.ObserveChat("ok", time.Since(start).Seconds())
}

// HandleLead validates and stores a lead submission.
func (h *Handler) HandleLead(w http.ResponseWriter, r *http.Request) {
	var sub lead.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.metrics.ObserveLead("bad_request")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.leads.Create(r.Context(), &sub)
	if err != nil {
		if errors.Is(err, lead.ErrInvalidName) || errors.Is(err, lead.ErrMissingContact) {
			h.metrics.ObserveLead("invalid")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to store lead", "error", err)
		h.metrics.ObserveLead("error")
		http.Error(w, "failed to store lead", http.StatusInternalServerError)
		return
	}

	h.logger.Info("lead received", "id", rec.ID, "name", rec.Lead.Name)
	h.metrics.ObserveLead("ok")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
