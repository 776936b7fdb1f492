// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API. Handlers decode plain
// data, call the editorial and account services with the acting user from
// the session, and write plain data or a tagged error back.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/editorial"
	"newsdesk/internal/middleware"
)

// maxJSONBody caps request bodies for JSON endpoints (1 MB).
const maxJSONBody = 1 << 20

// errorBody is the error envelope: {"error": {"kind", "message", "field"}}.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError maps err onto its status and envelope. Refusals for anonymous
// callers become 401 so clients know to sign in. Upstream failures are
// logged; the client only sees the generic retry message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.Kind(err)

	if errors.Is(err, apperr.ErrUnauthorized) && !middleware.ActorFromCtx(r.Context()).Authenticated() {
		status = http.StatusUnauthorized
	}
	if kind == "upstream" {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Kind:    kind,
		Message: apperr.Message(err),
		Field:   apperr.Field(err),
	}})
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("request", "The request body is empty.")
		}
		return apperr.Invalid("request", "The request body is not valid JSON.")
	}
	return nil
}

// pathID parses the {id} URL parameter. A malformed id cannot name an
// existing row, so it is reported as what not found.
func pathID(r *http.Request, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound(what)
	}
	return id, nil
}

// pageParam reads ?page= and ?size=. Out-of-range values are clamped by
// the editorial service.
func pageParam(r *http.Request) editorial.Page {
	q := r.URL.Query()
	num, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return editorial.Page{Number: num, Size: size}
}
