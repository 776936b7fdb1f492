package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    string
		status  int
		message string
	}{
		{
			name:    "not found",
			err:     NotFound("article"),
			kind:    "not_found",
			status:  http.StatusNotFound,
			message: "This item no longer exists.",
		},
		{
			name:    "unauthorized",
			err:     Unauthorized("publish article"),
			kind:    "unauthorized",
			status:  http.StatusForbidden,
			message: "You are not allowed to do this.",
		},
		{
			name:    "invalid transition",
			err:     InvalidTransition("draft", "publish"),
			kind:    "invalid_transition",
			status:  http.StatusConflict,
			message: "This article cannot move to that state from its current one.",
		},
		{
			name:    "validation",
			err:     Invalid("title", "Title is required."),
			kind:    "validation",
			status:  http.StatusUnprocessableEntity,
			message: "Title is required.",
		},
		{
			name:    "upstream",
			err:     Upstream("find article", sql.ErrConnDone),
			kind:    "upstream",
			status:  http.StatusBadGateway,
			message: "Something went wrong on our side. Please try again in a moment.",
		},
		{
			name:    "wrapped validation",
			err:     fmt.Errorf("create section: %w", Invalid("slug", "Slug is already in use.")),
			kind:    "validation",
			status:  http.StatusUnprocessableEntity,
			message: "Slug is already in use.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.kind {
				t.Errorf("Kind() = %q, want %q", got, tt.kind)
			}
			if got := HTTPStatus(tt.err); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
			if got := Message(tt.err); got != tt.message {
				t.Errorf("Message() = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestUpstreamKeepsOriginalError(t *testing.T) {
	err := Upstream("list sections", sql.ErrConnDone)
	if !errors.Is(err, ErrUpstream) {
		t.Error("expected ErrUpstream in chain")
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Error("expected original error in chain")
	}
	if again := Upstream("outer", err); again != err {
		t.Errorf("Upstream re-wrapped an upstream error: %v", again)
	}
	if Upstream("noop", nil) != nil {
		t.Error("Upstream(nil) must be nil")
	}
}

func TestField(t *testing.T) {
	if got := Field(Invalid("body", "Body is required.")); got != "body" {
		t.Errorf("Field() = %q, want body", got)
	}
	if got := Field(NotFound("section")); got != "" {
		t.Errorf("Field() on non-validation = %q, want empty", got)
	}
	if !errors.Is(Invalid("x", "y"), ErrValidation) {
		t.Error("ValidationError must match ErrValidation")
	}
}
