// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editorial implements the newsroom workflow: the article lifecycle
// and its role guards, notification fan-out, section management and the
// read-side queries used by the HTTP layer.
//
// Every operation takes the acting user explicitly. Errors are classified
// with the apperr package so callers can map them to user-facing messages.
package editorial

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// Actor is the user performing an operation. The zero value is an
// anonymous reader.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  models.Role
}

// Anonymous is the actor used for public reads.
var Anonymous = Actor{}

// ActorFromUser builds an Actor from a stored user.
func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Name: u.DisplayName, Email: u.Email, Role: u.Role}
}

// Authenticated reports whether the actor is a signed-in user with a known role.
func (a Actor) Authenticated() bool {
	return a.ID != uuid.Nil && a.Role.Valid()
}

// ArticleRepository persists articles. Finders return (nil, nil) when the
// row does not exist. Conditional writes return (nil, nil) when the row is
// missing or no longer in the expected status.
type ArticleRepository interface {
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	UpdateContent(ctx context.Context, a *models.Article, expected models.ArticleStatus) (*models.Article, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ArticleStatus) (*models.Article, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Article, error)
	List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error)
}

// SectionRepository persists sections. A slug collision on Create or
// Update is reported as an apperr validation error on field "slug".
type SectionRepository interface {
	List(ctx context.Context) ([]models.Section, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Section, error)
	FindBySlug(ctx context.Context, slug string) (*models.Section, error)
	Create(ctx context.Context, s *models.Section) (*models.Section, error)
	Update(ctx context.Context, s *models.Section) (*models.Section, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepository is the read access the workflow needs to user records.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

// NotificationRepository persists the append-only notification log.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// ChangeFeed carries "your notifications changed" signals per recipient.
// Watch returns a channel that receives a value after each change and a
// cancel func that releases the watch and closes the channel.
type ChangeFeed interface {
	Publish(ctx context.Context, recipientID uuid.UUID) error
	Watch(ctx context.Context, recipientID uuid.UUID) (<-chan struct{}, func(), error)
}

// Deps groups the collaborators of a Service.
type Deps struct {
	Articles      ArticleRepository
	Sections      SectionRepository
	Users         UserRepository
	Notifications NotificationRepository
	Feed          ChangeFeed
	Logger        *slog.Logger
}

// Service runs editorial operations against the configured repositories.
type Service struct {
	articles      ArticleRepository
	sections      SectionRepository
	users         UserRepository
	notifications NotificationRepository
	feed          ChangeFeed
	logger        *slog.Logger
}

// NewService creates a Service. A nil Feed disables live signals and a nil
// Logger falls back to slog.Default().
func NewService(d Deps) *Service {
	s := &Service{
		articles:      d.Articles,
		sections:      d.Sections,
		users:         d.Users,
		notifications: d.Notifications,
		feed:          d.Feed,
		logger:        d.Logger,
	}
	if s.feed == nil {
		s.feed = silentFeed{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// silentFeed drops every signal. Its watches never fire and close on cancel.
type silentFeed struct{}

func (silentFeed) Publish(context.Context, uuid.UUID) error { return nil }

func (silentFeed) Watch(context.Context, uuid.UUID) (<-chan struct{}, func(), error) {
	ch := make(chan struct{})
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }, nil
}
