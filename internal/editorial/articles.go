// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/metrics"
	"newsdesk/internal/models"
	"newsdesk/internal/validate"
)

// ArticleInput carries the editable content fields of an article. The
// cover image is required on create and on every edit.
type ArticleInput struct {
	Title         string `json:"title" validate:"required,max=300"`
	Subtitle      string `json:"subtitle" validate:"max=500"`
	Body          string `json:"body" validate:"required"`
	SectionSlug   string `json:"section_slug" validate:"required"`
	CoverImageURL string `json:"cover_image_url" validate:"required,max=2048"`
}

func (in *ArticleInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.Body = strings.TrimSpace(in.Body)
	in.SectionSlug = strings.TrimSpace(in.SectionSlug)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
}

// TransitionResult is the outcome of a lifecycle operation: the article in
// its new status and the notifications that were written for it. Fan-out
// is best-effort, so Notifications may be shorter than the recipient list.
type TransitionResult struct {
	Article       *models.Article       `json:"article"`
	Notifications []models.Notification `json:"notifications"`
}

// CreateArticle stores a new draft authored by actor. Only reporters write
// articles and the section must already exist.
func (s *Service) CreateArticle(ctx context.Context, actor Actor, in ArticleInput) (*models.Article, error) {
	if !actor.Authenticated() || !actor.Role.CanAuthor() {
		return nil, apperr.Unauthorized("create article")
	}
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	if err := s.requireSection(ctx, in.SectionSlug); err != nil {
		return nil, err
	}

	a, err := s.articles.Create(ctx, &models.Article{
		Title:         in.Title,
		Subtitle:      in.Subtitle,
		Body:          in.Body,
		SectionSlug:   in.SectionSlug,
		CoverImageURL: in.CoverImageURL,
		AuthorID:      actor.ID,
		AuthorName:    actor.Name,
		AuthorEmail:   actor.Email,
		Status:        models.StatusDraft,
	})
	if err != nil {
		return nil, apperr.Upstream("create article", err)
	}
	s.logger.Info("article created", "article_id", a.ID, "author_id", actor.ID, "section", a.SectionSlug)
	return a, nil
}

// UpdateArticle replaces the content fields of a draft. Only its author
// may edit it, and only while it is still a draft.
func (s *Service) UpdateArticle(ctx context.Context, actor Actor, id uuid.UUID, in ArticleInput) (*models.Article, error) {
	a, err := s.loadArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := Plan(a, actor, ActionEdit); err != nil {
		return nil, err
	}
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	if in.SectionSlug != a.SectionSlug {
		if err := s.requireSection(ctx, in.SectionSlug); err != nil {
			return nil, err
		}
	}

	next := *a
	next.Title = in.Title
	next.Subtitle = in.Subtitle
	next.Body = in.Body
	next.SectionSlug = in.SectionSlug
	next.CoverImageURL = in.CoverImageURL

	updated, err := s.articles.UpdateContent(ctx, &next, models.StatusDraft)
	if err != nil {
		return nil, apperr.Upstream("update article", err)
	}
	if updated == nil {
		// Submitted between our read and the write.
		return nil, apperr.InvalidTransition(string(models.StatusSubmitted), string(ActionEdit))
	}
	return updated, nil
}

// Submit moves the author's draft to submitted and notifies every editor.
func (s *Service) Submit(ctx context.Context, actor Actor, id uuid.UUID) (*TransitionResult, error) {
	return s.transition(ctx, actor, id, ActionSubmit)
}

// Publish makes a submitted or deactivated article public and notifies its author.
func (s *Service) Publish(ctx context.Context, actor Actor, id uuid.UUID) (*TransitionResult, error) {
	return s.transition(ctx, actor, id, ActionPublish)
}

// Deactivate withdraws a published article and notifies its author.
func (s *Service) Deactivate(ctx context.Context, actor Actor, id uuid.UUID) (*TransitionResult, error) {
	return s.transition(ctx, actor, id, ActionDeactivate)
}

// SetFeatured toggles the home-page highlight. The flag is independent of
// the lifecycle and is reserved for editors and admins.
func (s *Service) SetFeatured(ctx context.Context, actor Actor, id uuid.UUID, featured bool) (*models.Article, error) {
	if !actor.Authenticated() || !actor.Role.CanReview() {
		return nil, apperr.Unauthorized("feature article")
	}
	a, err := s.articles.SetFeatured(ctx, id, featured)
	if err != nil {
		return nil, apperr.Upstream("set featured", err)
	}
	if a == nil {
		return nil, apperr.NotFound("article")
	}
	return a, nil
}

func (s *Service) transition(ctx context.Context, actor Actor, id uuid.UUID, action Action) (res *TransitionResult, err error) {
	defer func() { metrics.ObserveTransition(string(action), err) }()

	a, err := s.loadArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := Plan(a, actor, action)
	if err != nil {
		s.logger.Debug("transition rejected", "action", action, "article_id", id, "actor_id", actor.ID, "status", a.Status, "error", err)
		return nil, err
	}
	if action == ActionSubmit {
		if err := complete(a); err != nil {
			return nil, err
		}
	}

	updated, err := s.articles.UpdateStatus(ctx, id, a.Status, to)
	if err != nil {
		return nil, apperr.Upstream(string(action)+" article", err)
	}
	if updated == nil {
		// Another writer moved the article first. Nothing was written and
		// nobody is notified.
		return nil, apperr.InvalidTransition(string(a.Status), string(action))
	}

	s.logger.Info("article transitioned",
		"action", action,
		"article_id", id,
		"actor_id", actor.ID,
		"from", a.Status,
		"to", updated.Status,
	)

	return &TransitionResult{
		Article:       updated,
		Notifications: s.fanOut(ctx, actor, updated),
	}, nil
}

func (s *Service) loadArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Upstream("find article", err)
	}
	if a == nil {
		return nil, apperr.NotFound("article")
	}
	return a, nil
}

func (s *Service) requireSection(ctx context.Context, slug string) error {
	sec, err := s.sections.FindBySlug(ctx, slug)
	if err != nil {
		return apperr.Upstream("find section", err)
	}
	if sec == nil {
		return apperr.Invalid("section_slug", "Choose an existing section.")
	}
	return nil
}

// complete reports the first missing field that blocks submission.
func complete(a *models.Article) error {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return apperr.Invalid("title", "Title is required.")
	case strings.TrimSpace(a.Body) == "":
		return apperr.Invalid("body", "Body is required.")
	case strings.TrimSpace(a.SectionSlug) == "":
		return apperr.Invalid("section_slug", "Section slug is required.")
	case strings.TrimSpace(a.CoverImageURL) == "":
		return apperr.Invalid("cover_image_url", "Add a cover image before submitting.")
	}
	return nil
}
