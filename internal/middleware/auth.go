// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"newsdesk/internal/editorial"
	"newsdesk/internal/models"
	"newsdesk/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoadSession retrieves the session from Valkey and stores it in the
// request context. Downstream handlers can access it via SessionFromCtx().
// It does not enforce authentication.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a session with 401.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Require2FA rejects sessions that still owe a TOTP code with 401.
// Must be applied after RequireAuth.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess != nil && !sess.TwoFADone {
			writeError(w, http.StatusUnauthorized, "second_factor_required", "Enter the code from your authenticator app.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole returns 403 unless the authenticated user holds one of roles.
// Must be applied after RequireAuth and Require2FA.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromCtx(r.Context())
			if sess == nil || !slices.Contains(roles, sess.Role) {
				writeError(w, http.StatusForbidden, "unauthorized", "You are not allowed to do this.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireReviewer admits editors and admins.
var RequireReviewer = RequireRole(models.RoleEditor, models.RoleAdmin)

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// ActorFromCtx returns the acting user for domain calls. Requests without a
// fully signed-in session act as editorial.Anonymous.
func ActorFromCtx(ctx context.Context) editorial.Actor {
	sess := SessionFromCtx(ctx)
	if sess == nil || !sess.TwoFADone {
		return editorial.Anonymous
	}
	return editorial.Actor{
		ID:    sess.UserID,
		Name:  sess.DisplayName,
		Email: sess.Email,
		Role:  sess.Role,
	}
}

// writeError writes the JSON error envelope used across the API.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"kind": kind, "message": message},
	})
}
