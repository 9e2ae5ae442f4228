// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// User represents a student account. The phone number acts as the login
// identity and is unique at the store level.
//
// Passwords are stored and compared verbatim for compatibility with the
// existing deployment; this is a documented weakness of the observed
// behavior, not a recommendation.
type User struct {
	ID       int64  `json:"id"`
	Phone    string `json:"phone"`
	Password string `json:"-"` // Never expose in JSON
}
