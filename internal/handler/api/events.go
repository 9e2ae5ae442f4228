// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/campusconnect-go/internal/service"
	"github.com/olegiv/campusconnect-go/internal/store"
)

// DomainAll is the sentinel domain filter value meaning "unfiltered".
const DomainAll = "All"

// maxMultipartMemory bounds the in-memory portion of multipart parsing.
const maxMultipartMemory = 12 << 20

// eventForm holds the trimmed multipart form fields of a create/update
// request.
type eventForm struct {
	Name    string
	Date    string
	Time    string
	Domain  string
	Content string
	RegLink string
}

// parseEventForm reads and validates the event fields, writing a
// field-specific validation error and returning false on failure.
func parseEventForm(w http.ResponseWriter, r *http.Request) (eventForm, bool) {
	form := eventForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Date:    strings.TrimSpace(r.FormValue("date")),
		Time:    strings.TrimSpace(r.FormValue("time")),
		Domain:  strings.TrimSpace(r.FormValue("domain")),
		Content: strings.TrimSpace(r.FormValue("content")),
		RegLink: strings.TrimSpace(r.FormValue("reg_link")),
	}

	switch {
	case form.Name == "":
		writeError(w, http.StatusBadRequest, "Event name is required")
		return form, false
	case form.Date == "":
		writeError(w, http.StatusBadRequest, "Date is required")
		return form, false
	case form.Domain == "":
		writeError(w, http.StatusBadRequest, "Domain is required")
		return form, false
	case form.RegLink == "":
		writeError(w, http.StatusBadRequest, "Registration link is required")
		return form, false
	}

	// Registration links are never stored without a scheme.
	if !strings.HasPrefix(form.RegLink, "http://") && !strings.HasPrefix(form.RegLink, "https://") {
		form.RegLink = "https://" + form.RegLink
	}

	return form, true
}

// posterFromForm returns the optional poster file of a multipart request.
// A missing file field is not an error.
func posterFromForm(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("poster")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if header.Filename == "" {
		_ = file.Close()
		return nil, nil, nil
	}
	return file, header, nil
}

// savePoster stores an optional uploaded poster, replacing previousURL.
// On a validation failure it writes the error response and returns false;
// with no poster supplied it returns previousURL unchanged.
func (h *Handler) savePoster(w http.ResponseWriter, r *http.Request, previousURL string) (string, bool) {
	file, header, err := posterFromForm(r)
	if err != nil {
		writeServerError(w, err)
		return "", false
	}
	if file == nil {
		return previousURL, true
	}
	defer func() { _ = file.Close() }()

	url, err := h.posters.Save(file, header, previousURL)
	if err != nil {
		if errors.Is(err, service.ErrBadExtension) {
			writeError(w, http.StatusBadRequest, "Poster must be png/jpg/jpeg/webp")
			return "", false
		}
		writeServerError(w, err)
		return "", false
	}
	return url, true
}

// ListEvents handles GET /api/events.
// The "All" sentinel or an absent domain parameter means unfiltered;
// anything else is an exact, case-sensitive domain match.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	domain := strings.TrimSpace(r.URL.Query().Get("domain"))

	if domain == "" || domain == DomainAll {
		list, err := h.queries.ListEvents(r.Context())
		if err != nil {
			writeServerError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, list)
		return
	}

	list, err := h.queries.ListEventsByDomain(r.Context(), domain)
	if err != nil {
		writeServerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// CreateEvent handles POST /api/events (multipart form).
// The poster is validated and written before the row insert, so a poster
// failure never leaves an orphaned row.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	form, ok := parseEventForm(w, r)
	if !ok {
		return
	}

	posterURL, ok := h.savePoster(w, r, "")
	if !ok {
		return
	}

	id, err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Name:      form.Name,
		Date:      form.Date,
		Time:      form.Time,
		Domain:    form.Domain,
		RegLink:   form.RegLink,
		Content:   form.Content,
		PosterURL: posterURL,
	})
	if err != nil {
		// The row never landed; don't leave the poster orphaned either.
		h.posters.Delete(posterURL)
		writeServerError(w, err)
		return
	}

	slog.Info("event created", "id", id, "name", form.Name, "domain", form.Domain)
	WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Event added successfully",
		"id":      id,
	})
}

// UpdateEvent handles PUT /api/events/{id} (multipart form).
// All fields except id are replaced. A newly supplied poster replaces the
// old file; otherwise the existing poster_url is preserved unchanged.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	existing, err := h.queries.GetEventByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Event not found")
		} else {
			writeServerError(w, err)
		}
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	form, ok := parseEventForm(w, r)
	if !ok {
		return
	}

	posterURL, ok := h.savePoster(w, r, existing.PosterURL)
	if !ok {
		return
	}

	if err := h.queries.UpdateEvent(r.Context(), store.UpdateEventParams{
		ID:        id,
		Name:      form.Name,
		Date:      form.Date,
		Time:      form.Time,
		Domain:    form.Domain,
		RegLink:   form.RegLink,
		Content:   form.Content,
		PosterURL: posterURL,
	}); err != nil {
		writeServerError(w, err)
		return
	}

	slog.Info("event updated", "id", id, "name", form.Name)
	writeMessage(w, http.StatusOK, "Event updated successfully")
}

// DeleteEvent handles DELETE /api/events/{id}.
// The row is removed first; poster file cleanup afterwards is best-effort.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	event, err := h.queries.GetEventByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Event not found")
		} else {
			writeServerError(w, err)
		}
		return
	}

	if err := h.queries.DeleteEvent(r.Context(), id); err != nil {
		writeServerError(w, err)
		return
	}

	h.posters.Delete(event.PosterURL)

	slog.Info("event deleted", "id", id, "name", event.Name)
	writeMessage(w, http.StatusOK, "Event deleted successfully")
}

// eventIDParam parses the {id} route parameter. A non-numeric id cannot
// name any event, so it reports not-found rather than bad-request.
func eventIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Event not found")
		return 0, false
	}
	return id, true
}
