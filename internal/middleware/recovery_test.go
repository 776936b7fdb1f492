// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverer(t *testing.T) {
	panics := map[string]any{
		"string": "something went wrong",
		"int":    42,
		"error":  errors.New("boom"),
	}

	for name, value := range panics {
		t.Run(name, func(t *testing.T) {
			handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(value)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/articles", nil))

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t,
				`{"error":{"kind":"upstream","message":"Something went wrong on our side. Please try again in a moment."}}`,
				rr.Body.String())
		})
	}
}

func TestRecovererNoPanic(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "test-value")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(method, "/api/home", nil))

		assert.Equal(t, http.StatusOK, rr.Code, method)
		assert.Equal(t, "ok", rr.Body.String(), method)
		assert.Equal(t, "test-value", rr.Header().Get("X-Custom"), method)
	}
}
