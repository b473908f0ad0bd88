// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/votehub/cliparse"
	"github.com/danielhkuo/votehub/live"
	"github.com/danielhkuo/votehub/middleware"
	"github.com/danielhkuo/votehub/models"
	"github.com/danielhkuo/votehub/store"
)

// keepAliveInterval keeps idle event streams open through proxies
const keepAliveInterval = 25 * time.Second

type ResultsHandler struct {
	tally  *store.TallyEngine
	broker live.Broker
	cfg    cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config, broker live.Broker) *ResultsHandler {
	return &ResultsHandler{
		tally:  store.NewTallyEngine(db, storeOptions(cfg)...),
		broker: broker,
		cfg:    cfg,
	}
}

// GetResults handles GET /polls/{id}/results
// Counts are recomputed from the vote ledger on every request.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	results, err := h.tally.Results(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, r, err, "get results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// StreamResults handles GET /polls/{id}/events
// Server-Sent Events: one "results" event on connect, then one per vote
// notification from the broker.
func (h *ResultsHandler) StreamResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}
	if h.broker == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Live updates are disabled")
		return
	}

	ctx := r.Context()

	// Subscribe before the first read so no vote falls between the two
	notes, cancel, err := h.broker.Subscribe(ctx, pollID)
	if err != nil {
		slog.Error("failed to subscribe to poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Live updates unavailable")
		return
	}
	defer cancel()

	results, err := h.tally.Results(ctx, pollID)
	if err != nil {
		writeStoreError(w, r, err, "get results")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "results", results); err != nil {
		return
	}
	flusher.Flush()

	slog.Info("results stream opened", "poll_id", pollID)
	defer slog.Info("results stream closed", "poll_id", pollID)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case _, ok := <-notes:
			if !ok {
				return
			}
			results, err := h.tally.Results(ctx, pollID)
			if errors.Is(err, store.ErrStoreUnavailable) {
				// Skip this update; the next vote triggers another read
				slog.Warn("failed to refresh results", "poll_id", pollID, "error", err)
				continue
			}
			if err != nil {
				return
			}
			if err := writeEvent(w, "results", results); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE event with a JSON payload
func writeEvent(w io.Writer, event string, results models.Results) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
