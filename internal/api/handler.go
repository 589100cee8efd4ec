package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"apex-titan/config"
	"apex-titan/engine"
	"apex-titan/internal/app"
	"apex-titan/repository"
	"apex-titan/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *config.Config
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg}
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"database": "unknown",
		},
	}

	if h.app.Repo() != nil {
		if err := h.app.Repo().Health(r.Context()); err == nil {
			status["services"].(map[string]string)["database"] = "connected"
		} else {
			status["services"].(map[string]string)["database"] = "disconnected"
			status["status"] = "degraded"
		}
	} else {
		status["services"].(map[string]string)["database"] = "not_configured"
	}

	cbStatus := services.GetGlobalRegistry().Status()
	status["circuit_breakers"] = cbStatus

	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, status)
}

// AnalyzeRequest represents an asset analysis request
type AnalyzeRequest struct {
	Symbol string `json:"symbol"`
}

// HandleAnalyze builds a snapshot for the requested symbol
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		_ = json.NewDecoder(r.Body).Decode(&req)
	} else {
		_ = r.ParseForm()
		req.Symbol = r.FormValue("symbol")
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))

	if err := h.ValidateSymbol(req.Symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, err := h.app.Analyze(r.Context(), req.Symbol)
	if err != nil {
		h.jsonError(w, err.Error(), analysisErrorStatus(err))
		return
	}

	h.jsonResponse(w, snapshot)
}

// HandleAdvisorStream analyzes the symbol and streams AI commentary over SSE.
// The stream always terminates with a done event; advisor failures arrive as
// regular data chunks rather than HTTP errors.
func (h *Handler) HandleAdvisorStream(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))

	if err := h.ValidateSymbol(symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.jsonError(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	stream, err := h.app.StreamAdvisor(r.Context(), symbol)
	if err != nil {
		h.jsonError(w, err.Error(), analysisErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for chunk := range stream {
		writeSSEChunk(w, chunk)
		flusher.Flush()
	}

	fmt.Fprint(w, "event: done\ndata: \n\n")
	flusher.Flush()
}

// writeSSEChunk encodes one chunk as an SSE data event. Multi-line chunks
// become multiple data lines within the same event.
func writeSSEChunk(w http.ResponseWriter, chunk string) {
	for _, line := range strings.Split(chunk, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

// HandleSearchNews returns headlines for the query string
func (h *Handler) HandleSearchNews(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.jsonError(w, "Query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	items := h.app.SearchNews(r.Context(), query)
	h.jsonResponse(w, items)
}

// RiskRequest represents a position-size calculation request
type RiskRequest struct {
	Balance     decimal.Decimal `json:"balance"`
	RiskPercent decimal.Decimal `json:"risk_percent"`
	EntryPrice  decimal.Decimal `json:"entry_price"`
	StopLoss    decimal.Decimal `json:"stop_loss"`
}

// HandlePlanRisk sizes a position from the risk inputs
func (h *Handler) HandlePlanRisk(w http.ResponseWriter, r *http.Request) {
	var req RiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.app.PlanRisk(req.Balance, req.RiskPercent, req.EntryPrice, req.StopLoss)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRiskInput) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, plan)
}

// HandleGetLibrary returns the static asset catalog
func (h *Handler) HandleGetLibrary(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.Library())
}

// HandleRunScreener triggers a full watchlist scan
func (h *Handler) HandleRunScreener(w http.ResponseWriter, r *http.Request) {
	run, err := h.app.RunScreener(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	h.jsonResponse(w, run)
}

// HandleGetLatestScreenerRun returns the most recent scan
func (h *Handler) HandleGetLatestScreenerRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.app.LatestScreenerRun(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if run == nil {
		h.jsonError(w, "No scan runs yet", http.StatusNotFound)
		return
	}

	h.jsonResponse(w, run)
}

// HandleGetSnapshots returns persisted snapshot history
func (h *Handler) HandleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol != "" {
		if err := h.ValidateSymbol(symbol); err != nil {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	limit := h.ParseLimitParam(r, 50)

	records, err := h.app.Snapshots(r.Context(), symbol, limit)
	if err != nil {
		if errors.Is(err, repository.ErrNoDatabase) {
			h.jsonError(w, "Database not configured", http.StatusServiceUnavailable)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, records)
}

// Helper functions

// analysisErrorStatus maps analysis failures to HTTP status codes
func analysisErrorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, app.ErrBusy):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// ValidateSymbol validates an asset symbol
func (h *Handler) ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if len(symbol) > 15 {
		return fmt.Errorf("symbol too long (max 15 characters)")
	}

	matched, _ := regexp.MatchString("^[A-Z0-9.^=-]+$", symbol)
	if !matched {
		return fmt.Errorf("invalid symbol format (alphanumeric, dots, and dashes only)")
	}

	return nil
}

// ParseLimitParam parses the limit query parameter
func (h *Handler) ParseLimitParam(r *http.Request, defaultLimit int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			return l
		}
	}
	return defaultLimit
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
