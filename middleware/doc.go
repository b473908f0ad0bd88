// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Voter Sessions

Routes that act on behalf of a voter are wrapped with WithVoter:

	mux.HandleFunc("POST /polls/{id}/votes",
		middleware.WithLogging(middleware.WithVoter(secret, h.CastVote)))

The bearer token is verified with auth.ParseToken. Handlers read the voter
ID back with:

	voterID, ok := middleware.VoterID(r.Context())

Tests that call handlers directly inject a voter with ContextWithVoter.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigin, mux),
	}

With an empty origin the request's Origin header is reflected. Allows
methods GET, POST, OPTIONS with headers Content-Type, Authorization,
Last-Event-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Vote logs carry auth.HashIP of this value.
*/
package middleware
