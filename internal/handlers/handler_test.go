// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: in-memory repositories, an in-process change feed and a miniredis
// instance standing in for Valkey.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/account"
	"newsdesk/internal/cache"
	"newsdesk/internal/editorial"
	"newsdesk/internal/events"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/session"
	"newsdesk/internal/store/memory"
)

// fakeCovers records uploaded objects in memory.
type fakeCovers struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeCovers() *fakeCovers {
	return &fakeCovers{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeCovers) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return "https://cdn.newsdesk.test/" + key, nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	mr       *miniredis.Miniredis
	sessions *session.Store
	accounts *account.Service
	svc      *editorial.Service
	users    *memory.UserStore
	articles *memory.ArticleStore
	sections *memory.SectionStore
	cache    *cache.ResponseCache
	covers   *fakeCovers
	uploads  *Uploads
	notifs   *Notifications
	router   chi.Router

	reporter *models.User
	other    *models.User
	editors  []*models.User
	admin    *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	e := &testEnv{
		mr:       mr,
		sessions: session.NewStore(rdb, false),
		users:    memory.NewUserStore(),
		articles: memory.NewArticleStore(),
		sections: memory.NewSectionStore(),
		cache:    cache.NewResponseCache(rdb, time.Minute),
		covers:   newFakeCovers(),
	}
	e.accounts = account.NewService(e.users, account.NewValkeyTokens(rdb), logger)
	e.svc = editorial.NewService(editorial.Deps{
		Articles:      e.articles,
		Sections:      e.sections,
		Users:         e.users,
		Notifications: memory.NewNotificationStore(),
		Feed:          events.NewLocal(),
		Logger:        logger,
	})

	user := func(name string, role models.Role) *models.User {
		u, err := e.users.Create(ctx, &models.User{
			Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@newsdesk.test",
			DisplayName: name,
			Role:        role,
		})
		require.NoError(t, err)
		return u
	}
	e.reporter = user("Rita Reporter", models.RoleReporter)
	e.other = user("Otto Reporter", models.RoleReporter)
	e.editors = []*models.User{user("Eva Editor", models.RoleEditor), user("Emil Editor", models.RoleEditor)}
	e.admin = user("Ada Admin", models.RoleAdmin)

	_, err := e.sections.Create(ctx, &models.Section{Name: "Tecnología", Slug: "tecnologia", Color: "#ffffff"})
	require.NoError(t, err)

	e.uploads = NewUploads(e.covers)
	e.router = e.routes()
	return e
}

// routes mounts every handler with the session middleware the production
// router uses. Role checks are left to the services.
func (e *testEnv) routes() chi.Router {
	auth := NewAuth(e.accounts, e.sessions, false)
	public := NewPublic(e.svc, e.cache)
	articles := NewArticles(e.svc, e.cache)
	sections := NewSections(e.svc, e.cache)
	notifications := NewNotifications(e.svc)
	e.notifs = notifications

	r := chi.NewRouter()
	r.Use(middleware.LoadSession(e.sessions))

	r.Get("/api/home", public.Home)
	r.Get("/api/sections", public.Sections)
	r.Get("/api/sections/{slug}", public.Section)
	r.Get("/api/sections/{slug}/articles", public.SectionArticles)
	r.Get("/api/articles", public.Articles)
	r.Get("/api/articles/{id}", public.Article)
	r.Get("/api/authors/{id}/articles", public.AuthorArticles)

	r.Post("/api/auth/register", auth.Register)
	r.Post("/api/auth/login", auth.Login)
	r.Post("/api/auth/logout", auth.Logout)
	r.Post("/api/auth/password/forgot", auth.ForgotPassword)
	r.Post("/api/auth/password/reset", auth.ResetPassword)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/api/auth/me", auth.Me)
		r.Post("/api/auth/2fa/verify", auth.TOTPVerify)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)
		r.Post("/api/auth/2fa/setup", auth.TOTPSetup)
		r.Post("/api/auth/2fa/confirm", auth.TOTPConfirm)
		r.Post("/api/auth/2fa/disable", auth.TOTPDisable)

		r.Get("/api/me/articles", articles.Mine)
		r.Post("/api/articles", articles.Create)
		r.Put("/api/articles/{id}", articles.Update)
		r.Post("/api/articles/{id}/submit", articles.Submit)
		r.Post("/api/articles/{id}/publish", articles.Publish)
		r.Post("/api/articles/{id}/deactivate", articles.Deactivate)
		r.Put("/api/articles/{id}/featured", articles.SetFeatured)
		r.Post("/api/uploads/cover", e.uploads.Cover)

		r.Get("/api/notifications", notifications.List)
		r.Post("/api/notifications/read", notifications.MarkRead)
		r.Get("/api/notifications/stream", notifications.Stream)

		r.Get("/api/panel/articles", articles.Panel)
		r.Post("/api/panel/sections", sections.Create)
		r.Put("/api/panel/sections/{id}", sections.Update)
		r.Delete("/api/panel/sections/{id}", sections.Delete)
	})
	return r
}

// sessionFor signs u in and returns the session cookie.
func (e *testEnv) sessionFor(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	_, err := e.sessions.Create(context.Background(), w, session.FromUser(u))
	require.NoError(t, err)
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

// do sends a request through the test router. body is JSON-encoded unless
// it is already an io.Reader; cookie may be nil for anonymous requests.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a JSON response body into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), "body: %s", rr.Body.String())
}

// apiError decodes the error envelope of rr.
func apiError(t *testing.T, rr *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	decode(t, rr, &body)
	return body.Error
}

func articleInput() editorial.ArticleInput {
	return editorial.ArticleInput{
		Title:         "Quantum chips reach the market",
		Subtitle:      "First units ship this spring",
		Body:          "Long body text.",
		SectionSlug:   "tecnologia",
		CoverImageURL: "https://cdn.newsdesk.test/covers/2026/10/chip.jpg",
	}
}

// seed stores an article by the env reporter directly in the given status.
func (e *testEnv) seed(t *testing.T, status models.ArticleStatus, featured bool) *models.Article {
	t.Helper()
	in := articleInput()
	a, err := e.articles.Create(context.Background(), &models.Article{
		Title:         in.Title,
		Body:          in.Body,
		SectionSlug:   in.SectionSlug,
		CoverImageURL: in.CoverImageURL,
		AuthorID:      e.reporter.ID,
		AuthorName:    e.reporter.DisplayName,
		AuthorEmail:   e.reporter.Email,
		Status:        status,
		Featured:      featured,
	})
	require.NoError(t, err)
	return a
}
