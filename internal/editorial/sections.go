// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
	"newsdesk/internal/slug"
	"newsdesk/internal/validate"
)

// SectionInput is the editable part of a section. An empty slug is derived
// from the name; an empty color falls back to white.
type SectionInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Slug  string `json:"slug" validate:"max=120"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (in *SectionInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Color = strings.ToLower(strings.TrimSpace(in.Color))
	if err := validate.Struct(in); err != nil {
		return err
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Name)
		if in.Slug == "" {
			return apperr.Invalid("slug", "The name has no letters or digits to build a slug from. Enter a slug.")
		}
	} else if !slug.Valid(in.Slug) {
		return apperr.Invalid("slug", "Slug may only contain lowercase letters, digits and single hyphens.")
	}
	if in.Color == "" {
		in.Color = models.DefaultSectionColor
	}
	return nil
}

// CreateSection adds a section. Reserved for editors and admins.
func (s *Service) CreateSection(ctx context.Context, actor Actor, in SectionInput) (*models.Section, error) {
	if !actor.Authenticated() || !actor.Role.CanReview() {
		return nil, apperr.Unauthorized("create section")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := s.slugFree(ctx, in.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	sec, err := s.sections.Create(ctx, &models.Section{Name: in.Name, Slug: in.Slug, Color: in.Color})
	if err != nil {
		return nil, sectionWriteError("create section", err)
	}
	s.logger.Info("section created", "section_id", sec.ID, "slug", sec.Slug, "actor_id", actor.ID)
	return sec, nil
}

// UpdateSection rewrites a section. Articles keep the slug they were filed
// under.
func (s *Service) UpdateSection(ctx context.Context, actor Actor, id uuid.UUID, in SectionInput) (*models.Section, error) {
	if !actor.Authenticated() || !actor.Role.CanReview() {
		return nil, apperr.Unauthorized("update section")
	}
	current, err := s.sections.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Upstream("find section", err)
	}
	if current == nil {
		return nil, apperr.NotFound("section")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := s.slugFree(ctx, in.Slug, id); err != nil {
		return nil, err
	}

	current.Name = in.Name
	current.Slug = in.Slug
	current.Color = in.Color
	sec, err := s.sections.Update(ctx, current)
	if err != nil {
		return nil, sectionWriteError("update section", err)
	}
	if sec == nil {
		return nil, apperr.NotFound("section")
	}
	return sec, nil
}

// DeleteSection removes a section. Reserved for editors and admins.
func (s *Service) DeleteSection(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.Authenticated() || !actor.Role.CanReview() {
		return apperr.Unauthorized("delete section")
	}
	ok, err := s.sections.Delete(ctx, id)
	if err != nil {
		return apperr.Upstream("delete section", err)
	}
	if !ok {
		return apperr.NotFound("section")
	}
	s.logger.Info("section deleted", "section_id", id, "actor_id", actor.ID)
	return nil
}

// slugFree rejects a slug already used by a section other than self.
func (s *Service) slugFree(ctx context.Context, sl string, self uuid.UUID) error {
	other, err := s.sections.FindBySlug(ctx, sl)
	if err != nil {
		return apperr.Upstream("find section", err)
	}
	if other != nil && other.ID != self {
		return apperr.Invalid("slug", "Slug is already in use.")
	}
	return nil
}

func sectionWriteError(op string, err error) error {
	if errors.Is(err, apperr.ErrValidation) {
		return err
	}
	return apperr.Upstream(op, err)
}
