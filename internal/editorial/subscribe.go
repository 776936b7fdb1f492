// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/metrics"
	"newsdesk/internal/models"
)

// Snapshot is the full set of a user's unread notifications at one moment.
type Snapshot struct {
	Unread []models.Notification `json:"unread"`
	Count  int                   `json:"count"`
	At     time.Time             `json:"at"`
}

// Subscription streams unread-notification snapshots to one user. The
// first snapshot is available immediately. Later ones follow every change;
// a consumer that falls behind only ever sees the most recent snapshot.
// Close must be called to release the underlying watch.
type Subscription struct {
	out       chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
}

// Snapshots returns the stream. It is closed once the subscription ends,
// either through Close or through cancellation of the subscribing context.
func (sub *Subscription) Snapshots() <-chan Snapshot {
	return sub.out
}

// Close ends the subscription and waits for its goroutine to exit. It is
// safe to call more than once.
func (sub *Subscription) Close() {
	sub.closeOnce.Do(func() { close(sub.done) })
	<-sub.stopped
}

// SubscribeUnread opens a live view of actor's unread notifications.
func (s *Service) SubscribeUnread(ctx context.Context, actor Actor) (*Subscription, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthorized("subscribe to notifications")
	}

	signals, cancel, err := s.feed.Watch(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Upstream("watch notifications", err)
	}

	first, err := s.unreadSnapshot(ctx, actor.ID)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		out:     make(chan Snapshot, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	sub.out <- first

	metrics.LiveSubscriptions.Inc()
	go func() {
		defer close(sub.stopped)
		defer close(sub.out)
		defer metrics.LiveSubscriptions.Dec()
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.done:
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				snap, err := s.unreadSnapshot(ctx, actor.ID)
				if err != nil {
					s.logger.Warn("refresh unread notifications", "user_id", actor.ID, "error", err)
					continue
				}
				sub.replace(snap)
			}
		}
	}()

	return sub, nil
}

// replace publishes snap, discarding a snapshot the consumer has not read yet.
func (sub *Subscription) replace(snap Snapshot) {
	for {
		select {
		case sub.out <- snap:
			return
		default:
		}
		select {
		case <-sub.out:
		default:
		}
	}
}

func (s *Service) unreadSnapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	list, err := s.notifications.ListByRecipient(ctx, userID, true)
	if err != nil {
		return Snapshot{}, apperr.Upstream("list unread notifications", err)
	}
	return Snapshot{Unread: list, Count: len(list), At: time.Now()}, nil
}
