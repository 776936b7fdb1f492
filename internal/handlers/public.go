// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/cache"
	"newsdesk/internal/editorial"
	"newsdesk/internal/middleware"
)

// Public serves the read side of the newsroom: home, sections and
// published articles.
type Public struct {
	svc   *editorial.Service
	cache *cache.ResponseCache
}

// NewPublic creates the public handler group. A nil cache disables caching.
func NewPublic(svc *editorial.Service, rc *cache.ResponseCache) *Public {
	return &Public{svc: svc, cache: rc}
}

// serve writes the result of load, going through the response cache for
// anonymous readers. Signed-in readers may see their own unpublished work,
// so their responses are never cached.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, load func() (any, error)) {
	anonymous := !middleware.ActorFromCtx(r.Context()).Authenticated()
	key := cache.RequestKey(r)

	if anonymous {
		if body, ok := p.cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(body)
			return
		}
	}

	v, err := load()
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		writeError(w, r, err)
		return
	}
	if anonymous {
		p.cache.Set(r.Context(), key, buf.Bytes())
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// Home returns featured and regular published articles plus the sections.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func() (any, error) {
		return p.svc.Home(r.Context())
	})
}

// Sections lists every section.
func (p *Public) Sections(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func() (any, error) {
		return p.svc.ListSections(r.Context())
	})
}

// Section returns one section by slug.
func (p *Public) Section(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func() (any, error) {
		return p.svc.FindSectionBySlug(r.Context(), chi.URLParam(r, "slug"))
	})
}

// SectionArticles returns one page of a section's published articles.
func (p *Public) SectionArticles(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func() (any, error) {
		return p.svc.ListPublishedBySection(r.Context(), chi.URLParam(r, "slug"), pageParam(r))
	})
}

// Articles returns one page of published articles, newest first.
func (p *Public) Articles(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func() (any, error) {
		return p.svc.ListPublished(r.Context(), pageParam(r))
	})
}

// Article returns one article if the caller may see it.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func() (any, error) {
		id, err := pathID(r, "article")
		if err != nil {
			return nil, err
		}
		return p.svc.GetArticle(r.Context(), middleware.ActorFromCtx(r.Context()), id)
	})
}

// AuthorArticles returns one page of an author's articles as the caller
// may see them: published only, or everything for the author themself and
// for editors and admins.
func (p *Public) AuthorArticles(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func() (any, error) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			return nil, apperr.NotFound("author")
		}
		return p.svc.ListByAuthor(r.Context(), middleware.ActorFromCtx(r.Context()), id, pageParam(r))
	})
}
