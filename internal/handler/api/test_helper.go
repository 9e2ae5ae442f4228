// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/olegiv/campusconnect-go/internal/config"
	"github.com/olegiv/campusconnect-go/internal/service"
)

// Admin credentials injected into every test environment.
const (
	testAdminUser     = "admin"
	testAdminPassword = "super-secret"
)

// testDB creates an in-memory SQLite database with the application schema.
// A single connection keeps every query on the same in-memory database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT,
			domain TEXT NOT NULL,
			reg_link TEXT NOT NULL DEFAULT '',
			content TEXT,
			poster_url TEXT
		);
		CREATE INDEX idx_events_date ON events(date);
		CREATE INDEX idx_events_domain ON events(domain);

		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phone TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testEnv bundles everything an API test needs.
type testEnv struct {
	server     *httptest.Server
	client     *http.Client
	db         *sql.DB
	uploadsDir string
}

// newTestEnv starts a test server with the full API route set behind a
// session-aware router, plus a cookie-keeping client.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	uploadsDir := t.TempDir()

	sm := scs.New()

	cfg := &config.Config{
		AdminUser:     testAdminUser,
		AdminPassword: testAdminPassword,
	}

	h := NewHandler(db, sm, service.NewPosterService(uploadsDir), cfg)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Get("/api/events", h.ListEvents)
	r.Post("/api/events", h.CreateEvent)
	r.Put("/api/events/{id}", h.UpdateEvent)
	r.Delete("/api/events/{id}", h.DeleteEvent)
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/admin-login", h.AdminLogin)
	r.Post("/api/auth/logout", h.Logout)
	r.Get("/api/auth/check", h.CheckAuth)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &testEnv{
		server:     server,
		client:     &http.Client{Jar: jar},
		db:         db,
		uploadsDir: uploadsDir,
	}
}

// postJSON sends a JSON POST and returns the response.
func (e *testEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling body: %v", err)
	}

	resp, err := e.client.Post(e.server.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// eventFormFields holds the multipart fields of a test event submission.
type eventFormFields map[string]string

// sendEventForm sends a multipart event create/update request, optionally
// attaching a poster file.
func (e *testEnv) sendEventForm(t *testing.T, method, path string, fields eventFormFields, posterName string, poster []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("writing field %q: %v", key, err)
		}
	}
	if posterName != "" {
		fw, err := w.CreateFormFile("poster", posterName)
		if err != nil {
			t.Fatalf("creating poster part: %v", err)
		}
		if _, err := fw.Write(poster); err != nil {
			t.Fatalf("writing poster part: %v", err)
		}
	}
	_ = w.Close()

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// decodeBody decodes a JSON response body into v and closes the body.
func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshaling %q: %v", data, err)
	}
}

// wantStatus fails the test when the response status differs, logging the
// body for context.
func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, want, strings.TrimSpace(string(body)))
	}
}

// countEvents returns the number of event rows in the test database.
func (e *testEnv) countEvents(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		t.Fatalf("counting events: %v", err)
	}
	return n
}
