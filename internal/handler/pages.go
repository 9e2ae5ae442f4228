// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler serves the HTML views of the application.
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/campusconnect-go/internal/middleware"
)

// Dashboard routes that the login views redirect to when a matching
// session already exists.
const (
	RouteUserDashboard  = "/user-dashboard"
	RouteAdminDashboard = "/admin-dashboard"
)

// pageFiles lists every page template. Each is parsed together with the
// base layout.
var pageFiles = []string{
	"home.html",
	"login.html",
	"admin_login.html",
	"user_dashboard.html",
	"admin_dashboard.html",
	"bookmarks.html",
}

// PageHandler renders the HTML views.
type PageHandler struct {
	sm        *scs.SessionManager
	templates map[string]*template.Template
}

// NewPageHandler parses all page templates from the given filesystem.
func NewPageHandler(sm *scs.SessionManager, templatesFS fs.FS) (*PageHandler, error) {
	templates := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.ParseFS(templatesFS, "base.html", name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &PageHandler{sm: sm, templates: templates}, nil
}

// pageData is the view model shared by every page template.
type pageData struct {
	Title         string
	UserLoggedIn  bool
	AdminLoggedIn bool
	UserPhone     string
}

func (h *PageHandler) data(r *http.Request, title string) pageData {
	ctx := r.Context()
	return pageData{
		Title:         title,
		UserLoggedIn:  middleware.IsStudent(h.sm, ctx),
		AdminLoggedIn: middleware.IsAdmin(h.sm, ctx),
		UserPhone:     middleware.StudentPhone(h.sm, ctx),
	}
}

// render executes a page template into a buffer first so a template
// failure produces a clean 500 instead of a half-written page.
func (h *PageHandler) render(w http.ResponseWriter, name string, data pageData) {
	tmpl, ok := h.templates[name]
	if !ok {
		slog.Error("unknown page template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		slog.Error("rendering page", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home.html", h.data(r, "CampusConnect"))
}

// Login handles GET /login. An already established student session skips
// the form.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if middleware.IsStudent(h.sm, r.Context()) {
		http.Redirect(w, r, RouteUserDashboard, http.StatusSeeOther)
		return
	}
	h.render(w, "login.html", h.data(r, "Student Login"))
}

// AdminLogin handles GET /admin. An already established admin session
// skips the form.
func (h *PageHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAdmin(h.sm, r.Context()) {
		http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
		return
	}
	h.render(w, "admin_login.html", h.data(r, "Admin Login"))
}

// UserDashboard handles GET /user-dashboard. Student session required;
// the guard is applied in the router.
func (h *PageHandler) UserDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "user_dashboard.html", h.data(r, "Events"))
}

// AdminDashboard handles GET /admin-dashboard. Admin session required.
func (h *PageHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "admin_dashboard.html", h.data(r, "Manage Events"))
}

// Bookmarks handles GET /bookmarks. Student session required.
func (h *PageHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	h.render(w, "bookmarks.html", h.data(r, "My Bookmarks"))
}
