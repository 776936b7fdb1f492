// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	"newsdesk/internal/apperr"
	"newsdesk/internal/middleware"
	"newsdesk/internal/storage"
)

const (
	// maxCoverSize is the largest accepted cover image (10 MB).
	maxCoverSize = 10 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	maxImagePixels = 50_000_000
)

// coverTypes are the accepted cover MIME types.
var coverTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// thumbableTypes get a JPEG thumbnail next to the original.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// CoverStore persists uploaded files and returns their public URL.
type CoverStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// Uploads handles cover image uploads.
type Uploads struct {
	store CoverStore
	now   func() time.Time
}

// NewUploads creates the upload handler. A nil store disables uploads.
func NewUploads(store CoverStore) *Uploads {
	return &Uploads{store: store, now: time.Now}
}

// coverResponse is returned after a successful upload.
type coverResponse struct {
	URL         string `json:"url"`
	ThumbURL    string `json:"thumb_url,omitempty"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Cover accepts a multipart "file" field, stores it and returns its URL.
// The URL is then sent as cover_image_url when writing the article; the
// two steps are independent, so a failed article write leaves the file.
func (u *Uploads) Cover(w http.ResponseWriter, r *http.Request) {
	if u.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: errorDetail{
			Kind:    "unavailable",
			Message: "Object storage is not configured.",
		}})
		return
	}
	actor := middleware.ActorFromCtx(r.Context())
	if !actor.Authenticated() || !actor.Role.CanAuthor() {
		writeError(w, r, apperr.Unauthorized("upload cover"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverSize+1<<20)
	if err := r.ParseMultipartForm(maxCoverSize); err != nil {
		writeError(w, r, apperr.Invalid("file", "File too large. Maximum size is 10 MB."))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Invalid("file", "Choose an image to upload."))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCoverSize+1))
	if err != nil {
		writeError(w, r, apperr.Invalid("file", "Failed to read file."))
		return
	}
	if len(data) > maxCoverSize {
		writeError(w, r, apperr.Invalid("file", "File too large. Maximum size is 10 MB."))
		return
	}

	mt := mimetype.Detect(data)
	contentType := mt.String()
	if !coverTypes[contentType] {
		writeError(w, r, apperr.Invalid("file", "Only JPEG, PNG, WebP and GIF images are allowed."))
		return
	}

	ctx := r.Context()
	key := storage.CoverKey(u.now(), header.Filename, mt.Extension())
	url, err := u.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		writeError(w, r, apperr.Upstream("store cover", err))
		return
	}
	slog.Info("cover uploaded", "key", key, "user_id", actor.ID, "size", len(data))

	resp := coverResponse{URL: url, ContentType: contentType, Size: len(data)}
	if thumbableTypes[contentType] {
		thumb, err := generateThumbnail(data, thumbMaxWidth)
		switch {
		case err != nil:
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		case thumb != nil:
			tk := storage.ThumbKey(key)
			thumbURL, err := u.store.Put(ctx, tk, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb)))
			if err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				resp.ThumbURL = thumbURL
			}
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// generateThumbnail creates a JPEG thumbnail constrained to maxWidth while
// preserving aspect ratio. Returns nil if the image is already narrow enough.
func generateThumbnail(data []byte, maxWidth int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, errors.New("image exceeds pixel limit")
	}
	if cfg.Width <= maxWidth {
		return nil, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	height := max(1, bounds.Dy()*maxWidth/bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
