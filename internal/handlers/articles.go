// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/cache"
	"newsdesk/internal/editorial"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
)

// Articles groups the authoring, lifecycle and editor panel handlers.
// Every successful write purges the public response cache.
type Articles struct {
	svc   *editorial.Service
	cache *cache.ResponseCache
}

// NewArticles creates the article handler group.
func NewArticles(svc *editorial.Service, rc *cache.ResponseCache) *Articles {
	return &Articles{svc: svc, cache: rc}
}

// Mine lists the caller's own articles in every status.
func (a *Articles) Mine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())
	list, err := a.svc.ListByAuthor(r.Context(), actor, actor.ID, pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create stores a new draft.
func (a *Articles) Create(w http.ResponseWriter, r *http.Request) {
	var in editorial.ArticleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	art, err := a.svc.CreateArticle(r.Context(), middleware.ActorFromCtx(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, art)
}

// Update replaces the content of a draft.
func (a *Articles) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in editorial.ArticleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	art, err := a.svc.UpdateArticle(r.Context(), middleware.ActorFromCtx(r.Context()), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.cache.Purge(r.Context())
	writeJSON(w, http.StatusOK, art)
}

// transitionFunc is the shape of Service.Submit, Publish and Deactivate.
type transitionFunc func(ctx context.Context, actor editorial.Actor, id uuid.UUID) (*editorial.TransitionResult, error)

func (a *Articles) transition(op transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "article")
		if err != nil {
			writeError(w, r, err)
			return
		}
		res, err := op(r.Context(), middleware.ActorFromCtx(r.Context()), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		a.cache.Purge(r.Context())
		writeJSON(w, http.StatusOK, res)
	}
}

// Submit marks a draft as finished and notifies the editors.
func (a *Articles) Submit(w http.ResponseWriter, r *http.Request) {
	a.transition(a.svc.Submit)(w, r)
}

// Publish publishes a submitted or deactivated article.
func (a *Articles) Publish(w http.ResponseWriter, r *http.Request) {
	a.transition(a.svc.Publish)(w, r)
}

// Deactivate takes a published article down.
func (a *Articles) Deactivate(w http.ResponseWriter, r *http.Request) {
	a.transition(a.svc.Deactivate)(w, r)
}

// SetFeatured toggles the featured flag. Body: {"featured": bool}.
func (a *Articles) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Featured *bool `json:"featured"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Featured == nil {
		writeError(w, r, apperr.Invalid("featured", "This field is required."))
		return
	}
	art, err := a.svc.SetFeatured(r.Context(), middleware.ActorFromCtx(r.Context()), id, *body.Featured)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.cache.Purge(r.Context())
	writeJSON(w, http.StatusOK, art)
}

// Panel is the editor listing: ?status=&author=&page=.
func (a *Articles) Panel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pf := editorial.PanelFilter{Page: pageParam(r)}

	if v := q.Get("status"); v != "" {
		st, err := models.ParseStatus(v)
		if err != nil {
			writeError(w, r, apperr.Invalid("status", "Unknown article status."))
			return
		}
		pf.Status = &st
	}
	if v := q.Get("author"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, r, apperr.Invalid("author", "Author must be a user id."))
			return
		}
		pf.AuthorID = &id
	}

	list, err := a.svc.ListAll(r.Context(), middleware.ActorFromCtx(r.Context()), pf)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
