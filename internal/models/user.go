// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the newsroom. The set is
// closed: every switch over Role must handle all three values.
type Role string

const (
	RoleReporter Role = "reportero"
	RoleEditor   Role = "editor"
	RoleAdmin    Role = "admin"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleReporter, RoleEditor, RoleAdmin}

// ParseRole converts a stored or submitted token into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleReporter, RoleEditor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid returns true if r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// CanReview reports whether the role may publish and deactivate articles,
// set the featured flag, manage sections and see every article.
func (r Role) CanReview() bool {
	switch r {
	case RoleEditor, RoleAdmin:
		return true
	case RoleReporter:
		return false
	}
	return false
}

// CanAuthor reports whether the role may create and submit articles.
func (r Role) CanAuthor() bool {
	switch r {
	case RoleReporter:
		return true
	case RoleEditor, RoleAdmin:
		return false
	}
	return false
}

// AccentColor returns the chrome color used for this role's panel.
func (r Role) AccentColor() string {
	switch r {
	case RoleAdmin:
		return "#2e7d32"
	case RoleEditor:
		return "#1e1e2f"
	case RoleReporter:
		return "#19d2c3ff"
	}
	return "#1e1e2f"
}

// PanelPath returns the root path of the role's working panel.
func (r Role) PanelPath() string {
	return "/" + string(r) + "-panel"
}

// Registrable reports whether the role can be chosen at registration.
// Admins are only created by the seed or directly in the database.
func (r Role) Registrable() bool {
	return r == RoleReporter || r == RoleEditor
}

// User represents a newsroom account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Needs2FA returns true if a second factor must be verified at login.
func (u *User) Needs2FA() bool {
	return u.TOTPEnabled && u.TOTPSecret != nil
}
