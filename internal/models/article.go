// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the lifecycle state of an article.
type ArticleStatus string

const (
	StatusDraft       ArticleStatus = "draft"
	StatusSubmitted   ArticleStatus = "submitted"
	StatusPublished   ArticleStatus = "published"
	StatusDeactivated ArticleStatus = "deactivated"
)

// Statuses lists every lifecycle state in workflow order.
var Statuses = []ArticleStatus{StatusDraft, StatusSubmitted, StatusPublished, StatusDeactivated}

// ParseStatus converts a stored or submitted token into an ArticleStatus.
func ParseStatus(s string) (ArticleStatus, error) {
	switch ArticleStatus(s) {
	case StatusDraft, StatusSubmitted, StatusPublished, StatusDeactivated:
		return ArticleStatus(s), nil
	}
	return "", fmt.Errorf("unknown article status %q", s)
}

// Article is a single news item ("noticia").
type Article struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle,omitempty"`
	Body          string        `json:"body"`
	SectionSlug   string        `json:"section_slug"`
	CoverImageURL string        `json:"cover_image_url"`
	Featured      bool          `json:"featured"`
	AuthorID      uuid.UUID     `json:"author_id"`
	AuthorName    string        `json:"author_name"`
	AuthorEmail   string        `json:"author_email"`
	Status        ArticleStatus `json:"status"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsPublished returns true if the article is visible to anonymous readers.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// ArticleFilter narrows an article listing. Zero values mean "any".
type ArticleFilter struct {
	Statuses    []ArticleStatus
	AuthorID    *uuid.UUID
	SectionSlug string
	Featured    *bool
	// ByUpdated orders by last modification instead of publication date.
	ByUpdated bool
	Limit     int
	Offset    int
}
