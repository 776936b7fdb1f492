package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/editorial"
	"newsdesk/internal/models"
)

func TestSectionManagement(t *testing.T) {
	e := newTestEnv(t)
	editor := e.sessionFor(t, e.editors[0])

	rr := e.do(t, http.MethodPost, "/api/panel/sections", editorial.SectionInput{Name: "Política Exterior"}, editor)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var sec models.Section
	decode(t, rr, &sec)
	assert.Equal(t, "politica-exterior", sec.Slug)
	assert.Equal(t, models.DefaultSectionColor, sec.Color)

	rr = e.do(t, http.MethodPost, "/api/panel/sections", editorial.SectionInput{Name: "Politica exterior"}, editor)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "slug", apiError(t, rr).Field)

	path := "/api/panel/sections/" + sec.ID.String()
	rr = e.do(t, http.MethodPut, path, editorial.SectionInput{Name: "Internacional", Color: "#FF0000"}, editor)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &sec)
	assert.Equal(t, "internacional", sec.Slug)
	assert.Equal(t, "#ff0000", sec.Color)

	rr = e.do(t, http.MethodDelete, path, nil, editor)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = e.do(t, http.MethodDelete, path, nil, editor)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSectionManagementGuards(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, http.MethodPost, "/api/panel/sections", editorial.SectionInput{Name: "Deportes"}, e.sessionFor(t, e.reporter))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = e.do(t, http.MethodPut, "/api/panel/sections/"+uuid.NewString(), editorial.SectionInput{Name: "Deportes"}, e.sessionFor(t, e.admin))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/panel/sections", editorial.SectionInput{Name: "新闻"}, e.sessionFor(t, e.admin))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "slug", apiError(t, rr).Field)
}

func TestSectionWritePurgesCache(t *testing.T) {
	e := newTestEnv(t)

	require.Equal(t, "MISS", e.do(t, http.MethodGet, "/api/sections", nil, nil).Header().Get("X-Cache"))
	require.Equal(t, "HIT", e.do(t, http.MethodGet, "/api/sections", nil, nil).Header().Get("X-Cache"))

	rr := e.do(t, http.MethodPost, "/api/panel/sections", editorial.SectionInput{Name: "Deportes"}, e.sessionFor(t, e.editors[0]))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/sections", nil, nil)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	var list []models.Section
	decode(t, rr, &list)
	assert.Len(t, list, 2)
}
