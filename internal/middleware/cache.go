// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"net/http"
)

// StaticCache creates middleware that sets Cache-Control headers for
// static file responses with the given max age in seconds.
func StaticCache(maxAgeSeconds int) func(http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", maxAgeSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	}
}
