// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/campusconnect-go/internal/middleware"
	"github.com/olegiv/campusconnect-go/web"
)

// newPageServer builds a test server with the real embedded templates and
// the session guards applied the same way the production router does.
func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}

	sm := scs.New()

	h, err := NewPageHandler(sm, templatesFS)
	if err != nil {
		t.Fatalf("NewPageHandler: %v", err)
	}

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Get("/", h.Home)
	r.Get("/login", h.Login)
	r.Get("/admin", h.AdminLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStudent(sm))
		r.Get("/user-dashboard", h.UserDashboard)
		r.Get("/bookmarks", h.Bookmarks)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(sm))
		r.Get("/admin-dashboard", h.AdminDashboard)
	})

	// Session fixtures for tests
	r.Post("/test/login-student", func(w http.ResponseWriter, req *http.Request) {
		sm.Put(req.Context(), middleware.SessionKeyUserPhone, "9876543210")
	})
	r.Post("/test/login-admin", func(w http.ResponseWriter, req *http.Request) {
		sm.Put(req.Context(), middleware.SessionKeyAdminLoggedIn, true)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func newSessionClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func getPage(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func TestPublicPages(t *testing.T) {
	server := newPageServer(t)
	client := newSessionClient(t)

	tests := []struct {
		path     string
		fragment string
	}{
		{"/", "Find what's happening on campus"},
		{"/login", "Student Login"},
		{"/admin", "Admin Login"},
	}
	for _, tt := range tests {
		resp, body := getPage(t, client, server.URL+tt.path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status = %d", tt.path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s: content-type = %q", tt.path, ct)
		}
		if !strings.Contains(body, tt.fragment) {
			t.Errorf("GET %s: body missing %q", tt.path, tt.fragment)
		}
	}
}

func TestGatedPagesRedirectAnonymous(t *testing.T) {
	server := newPageServer(t)
	client := newSessionClient(t)

	tests := []struct {
		path     string
		location string
	}{
		{"/user-dashboard", "/login"},
		{"/bookmarks", "/login"},
		{"/admin-dashboard", "/admin"},
	}
	for _, tt := range tests {
		resp, _ := getPage(t, client, server.URL+tt.path)
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("GET %s: status = %d, want %d", tt.path, resp.StatusCode, http.StatusSeeOther)
		}
		if loc := resp.Header.Get("Location"); loc != tt.location {
			t.Errorf("GET %s: location = %q, want %q", tt.path, loc, tt.location)
		}
	}
}

func TestStudentSessionUnlocksDashboard(t *testing.T) {
	server := newPageServer(t)
	client := newSessionClient(t)

	if _, err := client.Post(server.URL+"/test/login-student", "", nil); err != nil {
		t.Fatal(err)
	}

	resp, body := getPage(t, client, server.URL+"/user-dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Upcoming Events") {
		t.Error("dashboard content missing")
	}
	// The nav shows the logged-in phone
	if !strings.Contains(body, "9876543210") {
		t.Error("nav missing session phone")
	}

	// The login view skips its form for an active student session
	resp, _ = getPage(t, client, server.URL+"/login")
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("GET /login with session: status = %d, want redirect", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != RouteUserDashboard {
		t.Errorf("location = %q, want %q", loc, RouteUserDashboard)
	}

	// A student session does not open the admin dashboard
	resp, _ = getPage(t, client, server.URL+"/admin-dashboard")
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("GET /admin-dashboard with student session: status = %d", resp.StatusCode)
	}
}

func TestAdminSessionUnlocksDashboard(t *testing.T) {
	server := newPageServer(t)
	client := newSessionClient(t)

	if _, err := client.Post(server.URL+"/test/login-admin", "", nil); err != nil {
		t.Fatal(err)
	}

	resp, body := getPage(t, client, server.URL+"/admin-dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Manage Events") {
		t.Error("admin dashboard content missing")
	}

	resp, _ = getPage(t, client, server.URL+"/admin")
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("GET /admin with session: status = %d, want redirect", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != RouteAdminDashboard {
		t.Errorf("location = %q, want %q", loc, RouteAdminDashboard)
	}
}
