// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"newsdesk/internal/models"
)

var articleColumns = []string{
	"id", "title", "subtitle", "body", "section_slug", "cover_image_url", "featured",
	"author_id", "author_name", "author_email", "status", "published_at", "created_at", "updated_at",
}

const articleReturning = `id, title, subtitle, body, section_slug, cover_image_url, featured,
	author_id, author_name, author_email, status, published_at, created_at, updated_at`

// ArticleStore handles article persistence. Status changes are conditional
// writes so concurrent reviewers cannot both win the same transition.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Subtitle, &a.Body, &a.SectionSlug, &a.CoverImageURL, &a.Featured,
		&a.AuthorID, &a.AuthorName, &a.AuthorEmail, &a.Status, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// optional maps sql.ErrNoRows to (nil, nil).
func optional(a *models.Article, err error, op string) (*models.Article, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Create inserts a new article.
func (s *ArticleStore) Create(ctx context.Context, in *models.Article) (*models.Article, error) {
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	a, err := scanArticle(s.db.QueryRowContext(ctx, `
		INSERT INTO articles (title, subtitle, body, section_slug, cover_image_url,
			author_id, author_name, author_email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+articleReturning,
		in.Title, in.Subtitle, in.Body, in.SectionSlug, in.CoverImageURL,
		in.AuthorID, in.AuthorName, in.AuthorEmail, status,
	))
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return a, nil
}

// FindByID retrieves an article by id.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx,
		`SELECT `+articleReturning+` FROM articles WHERE id = $1`, id))
	return optional(a, err, "find article")
}

// UpdateContent rewrites the content fields while the article is still in
// the expected status.
func (s *ArticleStore) UpdateContent(ctx context.Context, in *models.Article, expected models.ArticleStatus) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, `
		UPDATE articles
		SET title = $1, subtitle = $2, body = $3, section_slug = $4, cover_image_url = $5, updated_at = NOW()
		WHERE id = $6 AND status = $7
		RETURNING `+articleReturning,
		in.Title, in.Subtitle, in.Body, in.SectionSlug, in.CoverImageURL, in.ID, expected,
	))
	return optional(a, err, "update article content")
}

// UpdateStatus moves an article from one status to another. It writes
// nothing and returns nil when the article is no longer in from.
// published_at records the first publication only.
func (s *ArticleStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ArticleStatus) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, `
		UPDATE articles
		SET status = $1,
		    published_at = CASE WHEN $1 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+articleReturning,
		to, id, from,
	))
	return optional(a, err, "update article status")
}

// SetFeatured sets the featured flag.
func (s *ArticleStore) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, `
		UPDATE articles SET featured = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+articleReturning,
		featured, id,
	))
	return optional(a, err, "set featured")
}

// List returns the articles matching f, newest first.
func (s *ArticleStore) List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error) {
	q := psql.Select(articleColumns...).From("articles")
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		q = q.Where(squirrel.Eq{"status": statuses})
	}
	if f.AuthorID != nil {
		q = q.Where(squirrel.Eq{"author_id": f.AuthorID.String()})
	}
	if f.SectionSlug != "" {
		q = q.Where(squirrel.Eq{"section_slug": f.SectionSlug})
	}
	if f.Featured != nil {
		q = q.Where(squirrel.Eq{"featured": *f.Featured})
	}
	if f.ByUpdated {
		q = q.OrderBy("updated_at DESC", "id DESC")
	} else {
		q = q.OrderBy("COALESCE(published_at, created_at) DESC", "id DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}
