// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"context"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

const (
	// DefaultPageSize matches the eight-card grids of the panels and section pages.
	DefaultPageSize = 8
	// MaxPageSize caps any listing request.
	MaxPageSize = 100
	// HomeLimit bounds each half of the home page.
	HomeLimit = 24
)

// Page selects a window of a listing. Number is 1-based.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"size"`
}

// normalize clamps the page into range.
func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Listing is one page of articles.
type Listing struct {
	Articles []models.Article `json:"articles"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
	HasMore  bool             `json:"has_more"`
}

// HomePage is the public front page.
type HomePage struct {
	Featured []models.Article `json:"featured"`
	Regular  []models.Article `json:"regular"`
	Sections []models.Section `json:"sections"`
}

// SectionPage is one page of a section's published articles.
type SectionPage struct {
	Section *models.Section `json:"section"`
	Listing
}

// PanelFilter narrows the editor panel listing.
type PanelFilter struct {
	Status   *models.ArticleStatus
	AuthorID *uuid.UUID
	Page     Page
}

// ListSections returns every section ordered by name.
func (s *Service) ListSections(ctx context.Context) ([]models.Section, error) {
	list, err := s.sections.List(ctx)
	if err != nil {
		return nil, apperr.Upstream("list sections", err)
	}
	return list, nil
}

// FindSectionBySlug returns the section routed at slug.
func (s *Service) FindSectionBySlug(ctx context.Context, slug string) (*models.Section, error) {
	sec, err := s.sections.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Upstream("find section", err)
	}
	if sec == nil {
		return nil, apperr.NotFound("section")
	}
	return sec, nil
}

// Home returns the published articles split into featured and regular,
// plus the section list for navigation.
func (s *Service) Home(ctx context.Context) (*HomePage, error) {
	yes, no := true, false
	featured, err := s.articles.List(ctx, models.ArticleFilter{
		Statuses: []models.ArticleStatus{models.StatusPublished},
		Featured: &yes,
		Limit:    HomeLimit,
	})
	if err != nil {
		return nil, apperr.Upstream("list featured articles", err)
	}
	regular, err := s.articles.List(ctx, models.ArticleFilter{
		Statuses: []models.ArticleStatus{models.StatusPublished},
		Featured: &no,
		Limit:    HomeLimit,
	})
	if err != nil {
		return nil, apperr.Upstream("list articles", err)
	}
	sections, err := s.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	return &HomePage{Featured: nonNil(featured), Regular: nonNil(regular), Sections: sections}, nil
}

// ListPublished returns published articles, newest first.
func (s *Service) ListPublished(ctx context.Context, page Page) (*Listing, error) {
	return s.list(ctx, models.ArticleFilter{
		Statuses: []models.ArticleStatus{models.StatusPublished},
	}, page)
}

// ListPublishedBySection returns the published articles filed under slug.
func (s *Service) ListPublishedBySection(ctx context.Context, slug string, page Page) (*SectionPage, error) {
	sec, err := s.FindSectionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	l, err := s.list(ctx, models.ArticleFilter{
		Statuses:    []models.ArticleStatus{models.StatusPublished},
		SectionSlug: sec.Slug,
	}, page)
	if err != nil {
		return nil, err
	}
	return &SectionPage{Section: sec, Listing: *l}, nil
}

// ListByAuthor returns the author's articles. The author and reviewers see
// every status; everyone else sees only published ones. The author's own
// view is ordered by last modification.
func (s *Service) ListByAuthor(ctx context.Context, viewer Actor, authorID uuid.UUID, page Page) (*Listing, error) {
	f := models.ArticleFilter{AuthorID: &authorID, ByUpdated: viewer.Authenticated() && viewer.ID == authorID}
	if !viewer.Authenticated() || (viewer.ID != authorID && !viewer.Role.CanReview()) {
		f.Statuses = []models.ArticleStatus{models.StatusPublished}
	}
	return s.list(ctx, f, page)
}

// ListAll is the editor panel: every article, optionally filtered by status
// and author, most recently modified first.
func (s *Service) ListAll(ctx context.Context, viewer Actor, pf PanelFilter) (*Listing, error) {
	if !viewer.Authenticated() || !viewer.Role.CanReview() {
		return nil, apperr.Unauthorized("list all articles")
	}
	f := models.ArticleFilter{AuthorID: pf.AuthorID, ByUpdated: true}
	if pf.Status != nil {
		f.Statuses = []models.ArticleStatus{*pf.Status}
	}
	return s.list(ctx, f, pf.Page)
}

// GetArticle returns one article if viewer may see it. Articles the viewer
// may not see are reported as missing.
func (s *Service) GetArticle(ctx context.Context, viewer Actor, id uuid.UUID) (*models.Article, error) {
	a, err := s.loadArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Visible(a, viewer) {
		return nil, apperr.NotFound("article")
	}
	return a, nil
}

// list fetches one extra row to learn whether another page exists.
func (s *Service) list(ctx context.Context, f models.ArticleFilter, page Page) (*Listing, error) {
	page = page.normalize()
	f.Limit = page.Size + 1
	f.Offset = (page.Number - 1) * page.Size

	rows, err := s.articles.List(ctx, f)
	if err != nil {
		return nil, apperr.Upstream("list articles", err)
	}
	more := len(rows) > page.Size
	if more {
		rows = rows[:page.Size]
	}
	return &Listing{Articles: nonNil(rows), Page: page.Number, Size: page.Size, HasMore: more}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
