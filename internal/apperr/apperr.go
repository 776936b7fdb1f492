// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the domain services
// and the HTTP layer. Callers match kinds with errors.Is and pull field
// details out with errors.As.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means a referenced article, section, user or notification
	// does not exist (or is not visible to the caller).
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means a role or ownership guard failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition means the article's current status has no such edge.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrValidation means a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream means the database, cache or object storage failed.
	ErrUpstream = errors.New("upstream failure")
)

// ValidationError names the offending field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid returns a *ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound wraps ErrNotFound with the kind of thing that was missing.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Unauthorized wraps ErrUnauthorized with the action that was refused.
func Unauthorized(action string) error {
	return fmt.Errorf("%s: %w", action, ErrUnauthorized)
}

// InvalidTransition wraps ErrInvalidTransition with the attempted edge.
func InvalidTransition(from, action string) error {
	return fmt.Errorf("cannot %s from %s: %w", action, from, ErrInvalidTransition)
}

// Upstream marks err as a collaborator failure. The original error stays
// in the chain so callers can still inspect it. A nil err returns nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpstream) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

// Kind returns the short machine-readable name of err's category.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "upstream"
	}
}

// Message returns the human-readable text shown to the user.
func Message(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrNotFound):
		return "This item no longer exists."
	case errors.Is(err, ErrUnauthorized):
		return "You are not allowed to do this."
	case errors.Is(err, ErrInvalidTransition):
		return "This article cannot move to that state from its current one."
	default:
		return "Something went wrong on our side. Please try again in a moment."
	}
}

// Field returns the offending field of a validation error, or "".
func Field(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

// HTTPStatus maps err onto the response status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
