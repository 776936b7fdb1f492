// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/session"
)

func csrfHandler(secure bool) http.Handler {
	return NewCSRF(secure)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

// issueToken performs a GET and returns the CSRF cookie it set.
func issueToken(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	t.Fatal("CSRF cookie not set")
	return nil
}

func TestNewCSRFSecureFlag(t *testing.T) {
	for _, secure := range []bool{true, false} {
		c := issueToken(t, csrfHandler(secure))
		if c.Secure != secure {
			t.Errorf("cookie Secure: got %v, want %v", c.Secure, secure)
		}
		if c.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie SameSite: got %v, want StrictMode", c.SameSite)
		}
		if len(c.Value) != 2*csrfTokenLength {
			t.Errorf("token length: got %d, want %d", len(c.Value), 2*csrfTokenLength)
		}
	}
}

func TestCSRFWithSession(t *testing.T) {
	handler := csrfHandler(false)
	token := issueToken(t, handler)
	sess := &http.Cookie{Name: session.CookieName, Value: "abc"}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusForbidden},
		{"wrong token", "deadbeef", http.StatusForbidden},
		{"matching token", token.Value, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
			req.AddCookie(token)
			req.AddCookie(sess)
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestCSRFWithoutSessionPasses(t *testing.T) {
	handler := csrfHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("POST without session: got %d, want 200", rr.Code)
	}
}

func TestCSRFSafeMethods(t *testing.T) {
	handler := csrfHandler(false)
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		req := httptest.NewRequest(m, "/api/notifications", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "abc"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: got %d, want 200", m, rr.Code)
		}
	}
}

func TestGetCSRFToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetCSRFToken(req); got != "" {
		t.Errorf("no cookie: got %q", got)
	}
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
	if got := GetCSRFToken(req); got != "tok" {
		t.Errorf("got %q, want tok", got)
	}
}
