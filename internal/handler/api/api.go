// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API consumed by the dashboard pages. It is
// the single event/auth component shared by every router.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/campusconnect-go/internal/config"
	"github.com/olegiv/campusconnect-go/internal/service"
	"github.com/olegiv/campusconnect-go/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db             *sql.DB
	queries        *store.Queries
	sessionManager *scs.SessionManager
	posters        *service.PosterService
	adminUser      string
	adminPassword  string
}

// NewHandler creates a new API handler. The admin credential pair comes
// from configuration, never from compiled-in literals.
func NewHandler(db *sql.DB, sm *scs.SessionManager, posters *service.PosterService, cfg *config.Config) *Handler {
	return &Handler{
		db:             db,
		queries:        store.New(db),
		sessionManager: sm,
		posters:        posters,
		adminUser:      cfg.AdminUser,
		adminPassword:  cfg.AdminPassword,
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response. Every API error is shaped
// {"error": string}, never an HTML failure page.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, map[string]any{"error": message})
}

// writeMessage writes a JSON success response shaped {"message": string}.
func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, map[string]any{"message": message})
}

// writeServerError reports an unexpected internal failure as a generic
// server error embedding the underlying fault description.
func writeServerError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Server error: "+err.Error())
}

// decodeJSON decodes a JSON request body.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
