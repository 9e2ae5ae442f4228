// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/campusconnect-go/internal/middleware"
	"github.com/olegiv/campusconnect-go/internal/store"
)

// MinPasswordLength is the minimum accepted signup password length.
const MinPasswordLength = 6

// credentials is the JSON body of the signup and login endpoints.
type credentials struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// adminCredentials is the JSON body of the admin login endpoint.
type adminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup.
//
// Passwords are stored verbatim to stay compatible with the existing user
// table; see the model package note on this weakness.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	creds.Phone = strings.TrimSpace(creds.Phone)

	if creds.Phone == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "Phone and password are required")
		return
	}
	if len(creds.Password) < MinPasswordLength {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	_, err := h.queries.GetUserByPhone(r.Context(), creds.Phone)
	if err == nil {
		writeError(w, http.StatusBadRequest, "Phone number already registered")
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		writeServerError(w, err)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Phone:    creds.Phone,
		Password: creds.Password,
	})
	if err != nil {
		// Two overlapping signups can both pass the existence check; the
		// UNIQUE constraint decides the race.
		if strings.Contains(err.Error(), "UNIQUE") {
			writeError(w, http.StatusBadRequest, "Phone number already registered")
			return
		}
		writeServerError(w, err)
		return
	}

	slog.Info("user signed up", "id", user.ID, "phone", user.Phone)
	writeMessage(w, http.StatusCreated, "Signup successful")
}

// Login handles POST /api/auth/login. A matching row establishes a
// persistent student session bound to the phone.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	creds.Phone = strings.TrimSpace(creds.Phone)

	if creds.Phone == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "Phone and password are required")
		return
	}

	user, err := h.queries.GetUserByPhone(r.Context(), creds.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "Invalid phone or password")
			return
		}
		writeServerError(w, err)
		return
	}

	// Verbatim comparison by contract with the existing user table.
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(creds.Password)) != 1 {
		slog.Debug("invalid password attempt", "phone", creds.Phone)
		writeError(w, http.StatusUnauthorized, "Invalid phone or password")
		return
	}

	// Regenerate the session ID to prevent session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		writeServerError(w, err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserPhone, user.Phone)

	slog.Info("user logged in", "id", user.ID, "phone", user.Phone)
	writeMessage(w, http.StatusOK, "Login successful")
}

// AdminLogin handles POST /api/auth/admin-login. Credentials are checked
// against the configured pair; no admin row exists in the store.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var creds adminCredentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(h.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(h.adminPassword)) == 1
	if !userOK || !passOK {
		slog.Warn("failed admin login attempt", "username", creds.Username, "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		writeServerError(w, err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyAdminLoggedIn, true)

	slog.Info("admin logged in")
	writeMessage(w, http.StatusOK, "Admin login successful")
}

// Logout handles POST /api/auth/logout. All session state is cleared
// unconditionally, returning the session to anonymous.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		writeServerError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Logged out")
}

// CheckAuth handles GET /api/auth/check, reporting which realms are
// active on the current session.
func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	WriteJSON(w, http.StatusOK, map[string]any{
		"user_logged_in":  middleware.IsStudent(h.sessionManager, ctx),
		"admin_logged_in": middleware.IsAdmin(h.sessionManager, ctx),
		"user_phone":      middleware.StudentPhone(h.sessionManager, ctx),
	})
}
