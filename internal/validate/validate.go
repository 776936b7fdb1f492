// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validate checks request structs with validator tags and turns the
// first failure into an apperr field error named after the JSON key.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"newsdesk/internal/apperr"
)

var std = New()

// New returns a validator that reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s and returns nil or an *apperr.ValidationError for the
// first failing field.
func Struct(s any) error {
	err := std.Struct(s)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return apperr.Invalid(fe.Field(), Message(fe))
	}
	return fmt.Errorf("validate input: %w", err)
}

// Message renders a field failure for the user.
func Message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "hexcolor":
		return label + " must be a hex color such as #ffffff."
	case "email":
		return label + " must be a valid email address."
	}
	return label + " is invalid."
}

// humanize turns "cover_image_url" into "Cover image url".
func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return "Value"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
