package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/editorial"
	"newsdesk/internal/models"
)

func TestNotificationInbox(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	draft := e.seed(t, models.StatusDraft, false)
	_, err := e.svc.Submit(ctx, editorial.ActorFromUser(e.reporter), draft.ID)
	require.NoError(t, err)

	editor := e.sessionFor(t, e.editors[0])
	var inbox []models.Notification
	decode(t, e.do(t, http.MethodGet, "/api/notifications?unread=true", nil, editor), &inbox)
	require.Len(t, inbox, 1)
	n := inbox[0]
	assert.Equal(t, models.NotificationFinished, n.Type)
	assert.Equal(t, `Rita Reporter marked the article "Quantum chips reach the market" as finished.`, n.Message)

	rr := e.do(t, http.MethodPost, "/api/notifications/read", map[string]any{"ids": []uuid.UUID{n.ID}}, e.sessionFor(t, e.editors[1]))
	assert.Equal(t, http.StatusForbidden, rr.Code, "another editor cannot mark it read")

	rr = e.do(t, http.MethodPost, "/api/notifications/read", map[string]any{"ids": []uuid.UUID{n.ID}}, editor)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	decode(t, e.do(t, http.MethodGet, "/api/notifications?unread=true", nil, editor), &inbox)
	assert.Empty(t, inbox)
	decode(t, e.do(t, http.MethodGet, "/api/notifications", nil, editor), &inbox)
	require.Len(t, inbox, 1)
	assert.True(t, inbox[0].Read)

	rr = e.do(t, http.MethodPost, "/api/notifications/read", map[string]any{"ids": []uuid.UUID{uuid.New()}}, editor)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// readEvent reads one SSE event, skipping keep-alive comments.
func readEvent(t *testing.T, r *bufio.Reader) (string, editorial.Snapshot) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "" && event != "":
			var snap editorial.Snapshot
			require.NoError(t, json.Unmarshal([]byte(data), &snap))
			return event, snap
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestNotificationStream(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/notifications/stream", nil)
	require.NoError(t, err)
	req.AddCookie(e.sessionFor(t, e.editors[0]))

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := bufio.NewReader(resp.Body)
	event, snap := readEvent(t, body)
	assert.Equal(t, "unread", event)
	assert.Equal(t, 0, snap.Count)

	draft := e.seed(t, models.StatusDraft, false)
	_, err = e.svc.Submit(context.Background(), editorial.ActorFromUser(e.reporter), draft.ID)
	require.NoError(t, err)

	_, snap = readEvent(t, body)
	assert.Equal(t, 1, snap.Count)
	require.Len(t, snap.Unread, 1)
	assert.Equal(t, draft.ID, *snap.Unread[0].ArticleID)
}

func TestNotificationStreamEndsOnShutdown(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	open := func() *http.Response {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/notifications/stream", nil)
		require.NoError(t, err)
		req.AddCookie(e.sessionFor(t, e.editors[0]))
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := open()
	defer resp.Body.Close()
	body := bufio.NewReader(resp.Body)
	readEvent(t, body)

	e.notifs.Shutdown()
	e.notifs.Shutdown()

	_, err := io.ReadAll(body)
	require.NoError(t, err, "stream must end cleanly, not by client timeout")
	require.NoError(t, ctx.Err())

	again := open()
	defer again.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, again.StatusCode)
}

func TestNotificationStreamRequiresSession(t *testing.T) {
	e := newTestEnv(t)
	rr := e.do(t, http.MethodGet, "/api/notifications/stream", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
