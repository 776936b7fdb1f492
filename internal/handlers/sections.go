// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"newsdesk/internal/cache"
	"newsdesk/internal/editorial"
	"newsdesk/internal/middleware"
)

// Sections groups the section management handlers of the editor panel.
type Sections struct {
	svc   *editorial.Service
	cache *cache.ResponseCache
}

// NewSections creates the section handler group.
func NewSections(svc *editorial.Service, rc *cache.ResponseCache) *Sections {
	return &Sections{svc: svc, cache: rc}
}

// Create adds a section. The slug is derived from the name when omitted.
func (s *Sections) Create(w http.ResponseWriter, r *http.Request) {
	var in editorial.SectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sec, err := s.svc.CreateSection(r.Context(), middleware.ActorFromCtx(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.cache.Purge(r.Context())
	writeJSON(w, http.StatusCreated, sec)
}

// Update renames or recolors a section.
func (s *Sections) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "section")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in editorial.SectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sec, err := s.svc.UpdateSection(r.Context(), middleware.ActorFromCtx(r.Context()), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.cache.Purge(r.Context())
	writeJSON(w, http.StatusOK, sec)
}

// Delete removes a section. Articles keep their section slug.
func (s *Sections) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "section")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.DeleteSection(r.Context(), middleware.ActorFromCtx(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.cache.Purge(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
