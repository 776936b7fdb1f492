// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory provides in-process implementations of the newsdesk
// repositories. They back STORE_DRIVER=memory and the service tests, and
// follow the same contracts as the PostgreSQL stores: finders return
// (nil, nil) when nothing matches and values are copied on the way in and
// out so callers never share state with the store.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

// ArticleStore keeps articles in a map.
type ArticleStore struct {
	mu       sync.RWMutex
	articles map[uuid.UUID]*models.Article
	seq      map[uuid.UUID]int
	rev      map[uuid.UUID]int
	next     int
	clock    int
}

// NewArticleStore returns an empty ArticleStore.
func NewArticleStore() *ArticleStore {
	return &ArticleStore{
		articles: make(map[uuid.UUID]*models.Article),
		seq:      make(map[uuid.UUID]int),
		rev:      make(map[uuid.UUID]int),
	}
}

// touch records a modification of id. Callers hold the write lock.
func (s *ArticleStore) touch(id uuid.UUID) {
	s.clock++
	s.rev[id] = s.clock
}

// Create stores a copy of a with a fresh id and timestamps.
func (s *ArticleStore) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	c := *a
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = models.StatusDraft
	}
	s.articles[c.ID] = &c
	s.next++
	s.seq[c.ID] = s.next
	s.touch(c.ID)

	out := c
	return &out, nil
}

// FindByID returns a copy of the article, or nil.
func (s *ArticleStore) FindByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

// UpdateContent rewrites the content fields if the article is still in
// the expected status.
func (s *ArticleStore) UpdateContent(_ context.Context, a *models.Article, expected models.ArticleStatus) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.articles[a.ID]
	if !ok || cur.Status != expected {
		return nil, nil
	}
	cur.Title = a.Title
	cur.Subtitle = a.Subtitle
	cur.Body = a.Body
	cur.SectionSlug = a.SectionSlug
	cur.CoverImageURL = a.CoverImageURL
	cur.UpdatedAt = time.Now().UTC()
	s.touch(cur.ID)

	out := *cur
	return &out, nil
}

// UpdateStatus moves the article from one status to another, only if it
// is currently in from.
func (s *ArticleStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to models.ArticleStatus) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.articles[id]
	if !ok || cur.Status != from {
		return nil, nil
	}
	now := time.Now().UTC()
	cur.Status = to
	cur.UpdatedAt = now
	s.touch(cur.ID)
	if to == models.StatusPublished && cur.PublishedAt == nil {
		cur.PublishedAt = &now
	}

	out := *cur
	return &out, nil
}

// SetFeatured sets the featured flag.
func (s *ArticleStore) SetFeatured(_ context.Context, id uuid.UUID, featured bool) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.articles[id]
	if !ok {
		return nil, nil
	}
	cur.Featured = featured
	cur.UpdatedAt = time.Now().UTC()
	s.touch(cur.ID)

	out := *cur
	return &out, nil
}

// List returns the articles matching f, newest first, or most recently
// modified first with f.ByUpdated.
func (s *ArticleStore) List(_ context.Context, f models.ArticleFilter) ([]models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Article
	for _, a := range s.articles {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, a.Status) {
			continue
		}
		if f.AuthorID != nil && a.AuthorID != *f.AuthorID {
			continue
		}
		if f.SectionSlug != "" && a.SectionSlug != f.SectionSlug {
			continue
		}
		if f.Featured != nil && a.Featured != *f.Featured {
			continue
		}
		out = append(out, *a)
	}

	if f.ByUpdated {
		slices.SortFunc(out, func(x, y models.Article) int {
			if c := y.UpdatedAt.Compare(x.UpdatedAt); c != 0 {
				return c
			}
			return s.rev[y.ID] - s.rev[x.ID]
		})
		return window(out, f.Offset, f.Limit), nil
	}

	slices.SortFunc(out, func(x, y models.Article) int {
		if c := sortTime(y).Compare(sortTime(x)); c != 0 {
			return c
		}
		return s.seq[y.ID] - s.seq[x.ID]
	})

	return window(out, f.Offset, f.Limit), nil
}

// sortTime mirrors COALESCE(published_at, created_at).
func sortTime(a models.Article) time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}

func window[T any](s []T, offset, limit int) []T {
	if offset >= len(s) {
		return nil
	}
	s = s[offset:]
	if limit > 0 && limit < len(s) {
		s = s[:limit]
	}
	return s
}

// SectionStore keeps sections in a map keyed by id.
type SectionStore struct {
	mu       sync.RWMutex
	sections map[uuid.UUID]*models.Section
}

// NewSectionStore returns an empty SectionStore.
func NewSectionStore() *SectionStore {
	return &SectionStore{sections: make(map[uuid.UUID]*models.Section)}
}

// List returns every section ordered by name.
func (s *SectionStore) List(_ context.Context) ([]models.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Section, 0, len(s.sections))
	for _, sec := range s.sections {
		out = append(out, *sec)
	}
	slices.SortFunc(out, func(a, b models.Section) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

// FindByID returns the section, or nil.
func (s *SectionStore) FindByID(_ context.Context, id uuid.UUID) (*models.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.sections[id]
	if !ok {
		return nil, nil
	}
	out := *sec
	return &out, nil
}

// FindBySlug returns the section with slug, or nil.
func (s *SectionStore) FindBySlug(_ context.Context, slug string) (*models.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sec := range s.sections {
		if sec.Slug == slug {
			out := *sec
			return &out, nil
		}
	}
	return nil, nil
}

// Create stores a new section. Slugs are unique.
func (s *SectionStore) Create(_ context.Context, sec *models.Section) (*models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTaken(sec.Slug, uuid.Nil) {
		return nil, errSlugTaken
	}
	now := time.Now().UTC()
	c := *sec
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.sections[c.ID] = &c

	out := c
	return &out, nil
}

// Update rewrites name, slug and color. Returns nil if the section is gone.
func (s *SectionStore) Update(_ context.Context, sec *models.Section) (*models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.sections[sec.ID]
	if !ok {
		return nil, nil
	}
	if s.slugTaken(sec.Slug, sec.ID) {
		return nil, errSlugTaken
	}
	cur.Name = sec.Name
	cur.Slug = sec.Slug
	cur.Color = sec.Color
	cur.UpdatedAt = time.Now().UTC()

	out := *cur
	return &out, nil
}

// Delete removes the section and reports whether it existed.
func (s *SectionStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sections[id]; !ok {
		return false, nil
	}
	delete(s.sections, id)
	return true, nil
}

func (s *SectionStore) slugTaken(slug string, self uuid.UUID) bool {
	for id, sec := range s.sections {
		if sec.Slug == slug && id != self {
			return true
		}
	}
	return false
}

var (
	errSlugTaken  = apperr.Invalid("slug", "Slug is already in use.")
	errEmailTaken = apperr.Invalid("email", "An account with this email already exists.")
)

// UserStore keeps users in a map keyed by id.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

// NewUserStore returns an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*models.User)}
}

// Create stores a user. Emails are unique, compared case-insensitively.
func (s *UserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return nil, errEmailTaken
		}
	}
	now := time.Now().UTC()
	c := *u
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.users[c.ID] = &c

	return copyUser(&c), nil
}

// FindByID returns the user, or nil.
func (s *UserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

// FindByEmail returns the user with email, or nil.
func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// ListByRole returns the users holding role, oldest first.
func (s *UserStore) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, *copyUser(u))
		}
	}
	slices.SortFunc(out, func(a, b models.User) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

// SetTOTPSecret stores the pending TOTP secret.
func (s *UserStore) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	return s.update(id, func(u *models.User) { u.TOTPSecret = &secret })
}

// EnableTOTP marks 2FA as active.
func (s *UserStore) EnableTOTP(_ context.Context, id uuid.UUID) error {
	return s.update(id, func(u *models.User) { u.TOTPEnabled = true })
}

// ResetTOTP clears the secret and disables 2FA.
func (s *UserStore) ResetTOTP(_ context.Context, id uuid.UUID) error {
	return s.update(id, func(u *models.User) {
		u.TOTPSecret = nil
		u.TOTPEnabled = false
	})
}

// UpdatePassword replaces the password hash.
func (s *UserStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return s.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (s *UserStore) update(id uuid.UUID, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return apperr.NotFound("user")
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.TOTPSecret != nil {
		secret := *u.TOTPSecret
		c.TOTPSecret = &secret
	}
	return &c
}

// NotificationStore keeps notifications in insertion order.
type NotificationStore struct {
	mu    sync.RWMutex
	items []*models.Notification
}

// NewNotificationStore returns an empty NotificationStore.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// Create appends an unread notification.
func (s *NotificationStore) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *n
	c.ID = uuid.New()
	c.Read = false
	c.CreatedAt = time.Now().UTC()
	s.items = append(s.items, &c)

	out := c
	return &out, nil
}

// ListByRecipient returns the recipient's notifications, newest first.
func (s *NotificationStore) ListByRecipient(_ context.Context, recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Notification{}
	for i := len(s.items) - 1; i >= 0; i-- {
		n := s.items[i]
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

// FindByIDs returns the notifications that exist among ids.
func (s *NotificationStore) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notification
	for _, n := range s.items {
		if slices.Contains(ids, n.ID) {
			out = append(out, *n)
		}
	}
	return out, nil
}

// MarkRead flips read on the recipient's notifications among ids and
// returns how many changed.
func (s *NotificationStore) MarkRead(_ context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	for _, n := range s.items {
		if n.RecipientID == recipientID && !n.Read && slices.Contains(ids, n.ID) {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}
