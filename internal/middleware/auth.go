// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and response caching.
package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

// Session keys for the two independent login realms. A session may hold
// either, both, or neither.
const (
	SessionKeyUserPhone     = "user_phone"
	SessionKeyAdminLoggedIn = "admin_logged_in"
)

// Login page routes the guards redirect to.
const (
	RouteLogin      = "/login"
	RouteAdminLogin = "/admin"
)

// RequireStudent creates middleware that requires an active student
// session, redirecting to the student login page otherwise.
func RequireStudent(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsStudent(sm, r.Context()) {
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires an active admin session,
// redirecting to the admin login page otherwise.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(sm, r.Context()) {
				http.Redirect(w, r, RouteAdminLogin, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IsStudent reports whether the session holds an authenticated student.
func IsStudent(sm *scs.SessionManager, ctx context.Context) bool {
	return sm.GetString(ctx, SessionKeyUserPhone) != ""
}

// IsAdmin reports whether the session holds the admin flag.
func IsAdmin(sm *scs.SessionManager, ctx context.Context) bool {
	return sm.GetBool(ctx, SessionKeyAdminLoggedIn)
}

// StudentPhone returns the authenticated student's phone, or "".
func StudentPhone(sm *scs.SessionManager, ctx context.Context) string {
	return sm.GetString(ctx, SessionKeyUserPhone)
}
