// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the poster upload service.
package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/campusconnect-go/internal/util"
)

// Upload limits
const (
	MaxUploadSize    = 10 * 1024 * 1024 // 10MB
	DefaultUploadDir = "./static/uploads"

	// PosterURLPrefix is the browser-servable path prefix for stored posters.
	PosterURLPrefix = "/static/uploads/"
)

// AllowedExtensions defines the poster file extensions that can be
// uploaded, matched case-insensitively.
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// ErrBadExtension is returned when a poster file has a disallowed extension.
var ErrBadExtension = fmt.Errorf("poster must be png/jpg/jpeg/webp")

// PosterService stores event poster files on local disk and produces
// public path references for them.
type PosterService struct {
	uploadDir string
}

// NewPosterService creates a poster service rooted at uploadDir.
func NewPosterService(uploadDir string) *PosterService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &PosterService{uploadDir: uploadDir}
}

// AllowedFile reports whether the filename carries an allowed extension.
func AllowedFile(filename string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Save validates and stores an uploaded poster, returning its public URL
// path. When previousURL names an earlier poster it is removed after the
// new file is written; a missing old file is not an error.
func (s *PosterService) Save(file multipart.File, header *multipart.FileHeader, previousURL string) (string, error) {
	if header.Size > MaxUploadSize {
		return "", fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	if !AllowedFile(header.Filename) {
		return "", ErrBadExtension
	}

	filename, err := util.SanitizeFilename(header.Filename)
	if err != nil {
		return "", ErrBadExtension
	}

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	// A random UUID prefix makes the storage name collision-free, so two
	// concurrent uploads of the same filename cannot clash.
	storedName := uuid.New().String() + "_" + filename
	destPath, err := util.SafeJoinPath(s.uploadDir, storedName)
	if err != nil {
		return "", fmt.Errorf("resolving upload path: %w", err)
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating poster file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(destPath)
		return "", fmt.Errorf("writing poster file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("closing poster file: %w", err)
	}

	// Replace semantics: drop the old file once the new one is on disk.
	s.Delete(previousURL)

	return PosterURLPrefix + storedName, nil
}

// Delete removes the poster file referenced by url. URLs outside the
// upload path prefix and already-absent files are silently ignored.
func (s *PosterService) Delete(url string) {
	if !strings.HasPrefix(url, PosterURLPrefix) {
		return
	}

	name := strings.TrimPrefix(url, PosterURLPrefix)
	path, err := util.SafeJoinPath(s.uploadDir, name)
	if err != nil {
		return
	}

	_ = os.Remove(path)
}
