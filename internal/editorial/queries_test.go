package editorial

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

func TestGetArticleVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft := f.seed(t, models.StatusDraft)

	_, err := f.svc.GetArticle(ctx, Anonymous, draft.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "public readers never see drafts")
	_, err = f.svc.GetArticle(ctx, f.other, draft.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	got, err := f.svc.GetArticle(ctx, f.reporter, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
	_, err = f.svc.GetArticle(ctx, f.editors[0], draft.ID)
	require.NoError(t, err)

	published := f.seed(t, models.StatusPublished)
	got, err = f.svc.GetArticle(ctx, Anonymous, published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)

	_, err = f.svc.GetArticle(ctx, Anonymous, uuid.New())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestVisible(t *testing.T) {
	author := Actor{ID: uuid.New(), Role: models.RoleReporter}
	for _, status := range models.Statuses {
		a := &models.Article{AuthorID: author.ID, Status: status}
		assert.Equal(t, status == models.StatusPublished, Visible(a, Anonymous), status)
		assert.Equal(t, status == models.StatusPublished, Visible(a, Actor{ID: uuid.New(), Role: models.RoleReporter}), status)
		assert.True(t, Visible(a, author), status)
		assert.True(t, Visible(a, Actor{ID: uuid.New(), Role: models.RoleEditor}), status)
		assert.True(t, Visible(a, Actor{ID: uuid.New(), Role: models.RoleAdmin}), status)
		assert.Equal(t, status == models.StatusPublished, Visible(a, Actor{ID: uuid.New(), Role: "intern"}), status)
	}
}

func TestHomeSplitsFeatured(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hero := f.seed(t, models.StatusPublished)
	_, err := f.articles.SetFeatured(ctx, hero.ID, true)
	require.NoError(t, err)
	f.seed(t, models.StatusPublished)
	f.seed(t, models.StatusDraft)
	hidden := f.seed(t, models.StatusDeactivated)
	_, err = f.articles.SetFeatured(ctx, hidden.ID, true)
	require.NoError(t, err)

	home, err := f.svc.Home(ctx)
	require.NoError(t, err)
	require.Len(t, home.Featured, 1)
	assert.Equal(t, hero.ID, home.Featured[0].ID)
	assert.Len(t, home.Regular, 1)
	require.Len(t, home.Sections, 1)
	assert.Equal(t, "tecnologia", home.Sections[0].Slug)
}

func TestListPublishedBySection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		f.seed(t, models.StatusPublished)
	}
	f.seed(t, models.StatusSubmitted)

	first, err := f.svc.ListPublishedBySection(ctx, "tecnologia", Page{})
	require.NoError(t, err)
	assert.Equal(t, "tecnologia", first.Section.Slug)
	assert.Len(t, first.Articles, DefaultPageSize)
	assert.True(t, first.HasMore)

	second, err := f.svc.ListPublishedBySection(ctx, "tecnologia", Page{Number: 2})
	require.NoError(t, err)
	assert.Len(t, second.Articles, 2)
	assert.False(t, second.HasMore)

	_, err = f.svc.ListPublishedBySection(ctx, "cocina", Page{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	all, err := f.svc.ListPublished(ctx, Page{Size: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, all.Size)
	assert.Len(t, all.Articles, 10)
}

func TestListByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, models.StatusDraft)
	f.seed(t, models.StatusSubmitted)
	f.seed(t, models.StatusPublished)

	own, err := f.svc.ListByAuthor(ctx, f.reporter, f.reporter.ID, Page{})
	require.NoError(t, err)
	assert.Len(t, own.Articles, 3)

	byEditor, err := f.svc.ListByAuthor(ctx, f.editors[0], f.reporter.ID, Page{})
	require.NoError(t, err)
	assert.Len(t, byEditor.Articles, 3)

	public, err := f.svc.ListByAuthor(ctx, Anonymous, f.reporter.ID, Page{})
	require.NoError(t, err)
	require.Len(t, public.Articles, 1)
	assert.Equal(t, models.StatusPublished, public.Articles[0].Status)

	peer, err := f.svc.ListByAuthor(ctx, f.other, f.reporter.ID, Page{})
	require.NoError(t, err)
	assert.Len(t, peer.Articles, 1)
}

func TestListAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, models.StatusDraft)
	f.seed(t, models.StatusSubmitted)
	f.seed(t, models.StatusSubmitted)

	_, err := f.svc.ListAll(ctx, f.reporter, PanelFilter{})
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	all, err := f.svc.ListAll(ctx, f.editors[0], PanelFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Articles, 3)

	submitted := models.StatusSubmitted
	pending, err := f.svc.ListAll(ctx, f.admin, PanelFilter{Status: &submitted})
	require.NoError(t, err)
	assert.Len(t, pending.Articles, 2)

	nobody := uuid.New()
	none, err := f.svc.ListAll(ctx, f.admin, PanelFilter{AuthorID: &nobody})
	require.NoError(t, err)
	assert.NotNil(t, none.Articles)
	assert.Empty(t, none.Articles)
}

func TestPanelOrderedByLastModification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	older := f.seed(t, models.StatusDraft)
	newer := f.seed(t, models.StatusDraft)

	_, err := f.svc.Submit(ctx, f.reporter, older.ID)
	require.NoError(t, err)

	all, err := f.svc.ListAll(ctx, f.editors[0], PanelFilter{})
	require.NoError(t, err)
	require.Len(t, all.Articles, 2)
	assert.Equal(t, older.ID, all.Articles[0].ID, "the just-submitted article comes first")
	assert.Equal(t, newer.ID, all.Articles[1].ID)

	own, err := f.svc.ListByAuthor(ctx, f.reporter, f.reporter.ID, Page{})
	require.NoError(t, err)
	require.Len(t, own.Articles, 2)
	assert.Equal(t, older.ID, own.Articles[0].ID)

	byEditor, err := f.svc.ListByAuthor(ctx, f.editors[0], f.reporter.ID, Page{})
	require.NoError(t, err)
	require.Len(t, byEditor.Articles, 2)
	assert.Equal(t, newer.ID, byEditor.Articles[0].ID, "other viewers keep publication order")
}
