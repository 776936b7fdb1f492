// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"newsdesk/internal/models"
	"newsdesk/internal/slug"
)

// DefaultAdminEmail and DefaultAdminPassword are the development login
// created by Seed on an empty database.
const (
	DefaultAdminEmail    = "admin@newsdesk.local"
	DefaultAdminPassword = "admin123"
)

// defaultSections are created alongside the admin so a fresh install has
// somewhere to file articles.
var defaultSections = []string{"Política Exterior", "Tecnología", "Deportes"}

// DefaultSections returns the seed sections with their slugs and color set.
func DefaultSections() []models.Section {
	out := make([]models.Section, 0, len(defaultSections))
	for _, name := range defaultSections {
		out = append(out, models.Section{Name: name, Slug: slug.Generate(name), Color: models.DefaultSectionColor})
	}
	return out
}

// Seed populates an empty database with an admin account and a few
// sections. It does nothing once any user exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, DefaultAdminEmail, string(hash), "Admin", models.RoleAdmin); err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, sec := range DefaultSections() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sections (name, slug, color) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING
		`, sec.Name, sec.Slug, sec.Color); err != nil {
			return fmt.Errorf("seed insert section %q: %w", sec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", DefaultAdminEmail,
		"password", DefaultAdminPassword,
		"sections", len(defaultSections),
	)
	return nil
}
