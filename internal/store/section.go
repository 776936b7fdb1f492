// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

const sectionColumns = `id, name, slug, color, created_at, updated_at`

var errSlugTaken = apperr.Invalid("slug", "Slug is already in use.")

// SectionStore handles section persistence.
type SectionStore struct {
	db *sql.DB
}

// NewSectionStore creates a new SectionStore.
func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

func scanSection(row interface{ Scan(...any) error }) (*models.Section, error) {
	s := &models.Section{}
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Color, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// List returns every section ordered by name.
func (s *SectionStore) List(ctx context.Context) ([]models.Section, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sectionColumns+` FROM sections ORDER BY LOWER(name) ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	sections := []models.Section{}
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, *sec)
	}
	return sections, rows.Err()
}

// FindByID retrieves a section by id.
func (s *SectionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	return s.findOne(ctx, "find section by id", `SELECT `+sectionColumns+` FROM sections WHERE id = $1`, id)
}

// FindBySlug retrieves a section by slug.
func (s *SectionStore) FindBySlug(ctx context.Context, slug string) (*models.Section, error) {
	return s.findOne(ctx, "find section by slug", `SELECT `+sectionColumns+` FROM sections WHERE slug = $1`, slug)
}

func (s *SectionStore) findOne(ctx context.Context, op, query string, arg any) (*models.Section, error) {
	sec, err := scanSection(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sec, nil
}

// Create inserts a section. A duplicate slug is a validation error.
func (s *SectionStore) Create(ctx context.Context, in *models.Section) (*models.Section, error) {
	sec, err := scanSection(s.db.QueryRowContext(ctx, `
		INSERT INTO sections (name, slug, color) VALUES ($1, $2, $3)
		RETURNING `+sectionColumns,
		in.Name, in.Slug, in.Color,
	))
	if isUniqueViolation(err, "sections_slug_key") {
		return nil, errSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return sec, nil
}

// Update rewrites name, slug and color. Returns nil if the section is gone.
func (s *SectionStore) Update(ctx context.Context, in *models.Section) (*models.Section, error) {
	sec, err := scanSection(s.db.QueryRowContext(ctx, `
		UPDATE sections SET name = $1, slug = $2, color = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+sectionColumns,
		in.Name, in.Slug, in.Color, in.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err, "sections_slug_key") {
		return nil, errSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	return sec, nil
}

// Delete removes a section and reports whether it existed.
func (s *SectionStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete section: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete section: %w", err)
	}
	return n > 0, nil
}
