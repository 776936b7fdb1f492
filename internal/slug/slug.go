// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from section names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches every run of characters outside [a-z0-9].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// valid matches a string Generate would leave untouched.
	valid = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from the given string: lowercased,
// diacritics stripped, runs of anything else collapsed to one hyphen and
// leading/trailing hyphens trimmed. Generate(Generate(s)) == Generate(s).
// Example: "Política Exterior" → "politica-exterior"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = stripDiacritics(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is a non-empty slug in canonical form.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// stripDiacritics decomposes s and drops the combining marks.
// Transformers are stateful, so a fresh chain is built per call.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
