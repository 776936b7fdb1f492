// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/editorial"
	"newsdesk/internal/middleware"
)

// streamKeepAlive is how often an idle event stream sends a comment line
// so proxies do not drop the connection.
const streamKeepAlive = 25 * time.Second

// Notifications groups the notification inbox handlers.
type Notifications struct {
	svc       *editorial.Service
	keepAlive time.Duration

	closing   chan struct{}
	closeOnce sync.Once
}

// NewNotifications creates the notification handler group.
func NewNotifications(svc *editorial.Service) *Notifications {
	return &Notifications{svc: svc, keepAlive: streamKeepAlive, closing: make(chan struct{})}
}

// Shutdown ends every open stream and refuses new ones. Register it with
// http.Server.RegisterOnShutdown: Shutdown does not cancel request contexts.
func (n *Notifications) Shutdown() {
	n.closeOnce.Do(func() { close(n.closing) })
}

// List returns the caller's notifications, newest first. ?unread=true
// limits the result to unread ones.
func (n *Notifications) List(w http.ResponseWriter, r *http.Request) {
	unread := r.URL.Query().Get("unread") == "true"
	list, err := n.svc.ListNotifications(r.Context(), middleware.ActorFromCtx(r.Context()), unread)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// MarkRead marks notifications as read. Body: {"ids": ["..."]}.
func (n *Notifications) MarkRead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := n.svc.MarkRead(r.Context(), middleware.ActorFromCtx(r.Context()), body.IDs); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stream serves the caller's unread notifications as Server-Sent Events.
// Each "unread" event carries a full snapshot; the stream ends when the
// client disconnects or the server shuts down.
func (n *Notifications) Stream(w http.ResponseWriter, r *http.Request) {
	select {
	case <-n.closing:
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: errorDetail{
			Kind:    "unavailable",
			Message: "The server is shutting down. Please reconnect in a moment.",
		}})
		return
	default:
	}

	sub, err := n.svc.SubscribeUnread(r.Context(), middleware.ActorFromCtx(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut the stream.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Warn("clear stream write deadline failed", "error", err)
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(n.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-n.closing:
			return
		case snap, ok := <-sub.Snapshots():
			if !ok {
				return
			}
			if err := writeEvent(w, "unread", snap); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// writeEvent writes one SSE event with a JSON payload.
func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
