// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/votehub/cliparse"
	"github.com/danielhkuo/votehub/middleware"
	"github.com/danielhkuo/votehub/store"
)

// writeStoreError maps a store error to its HTTP status. action completes
// "Failed to ..." for unexpected errors.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, store.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), store.ErrValidation.Error()+": ")
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
	case errors.Is(err, store.ErrNotFound):
		what := strings.TrimPrefix(err.Error(), store.ErrNotFound.Error()+": ")
		middleware.ErrorResponse(w, http.StatusNotFound, notFoundMessage(what))
	case errors.Is(err, store.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this poll")
	case errors.Is(err, store.ErrExpiredPoll):
		middleware.ErrorResponse(w, http.StatusGone, "This poll has expired")
	case errors.Is(err, store.ErrStoreUnavailable):
		slog.Error("store unavailable", "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Service temporarily unavailable, try again")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody is listening for a response
		slog.Info("request cancelled", "path", r.URL.Path)
	default:
		slog.Error("failed to "+action, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// notFoundMessage turns "poll abc" into "Poll not found"
func notFoundMessage(what string) string {
	kind, _, _ := strings.Cut(what, " ")
	if kind == "" {
		return "Not found"
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + " not found"
}

// requireVoter returns the authenticated voter or writes 401
func requireVoter(w http.ResponseWriter, r *http.Request) (string, bool) {
	voterID, ok := middleware.VoterID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return "", false
	}
	return voterID, true
}

func storeOptions(cfg cliparse.Config) []store.Option {
	return []store.Option{store.WithReadRetries(cfg.ReadRetries)}
}
