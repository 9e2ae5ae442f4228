// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models shared across the application.
package model

// Event represents a campus event listing. Date is a free-form date string
// and acts as the sole sort key (lexical ascending, ISO dates assumed).
// Domain holds exactly one category label per event.
type Event struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Domain    string `json:"domain"`
	RegLink   string `json:"reg_link"`
	Content   string `json:"content"`
	PosterURL string `json:"poster_url"`
}

// HasPoster returns true if the event references an uploaded poster file.
func (e *Event) HasPoster() bool {
	return e.PosterURL != ""
}
