// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events carries per-user "notifications changed" signals between
// writers and live subscribers. Local works inside a single process; Valkey
// uses pub/sub so every replica's subscribers hear about every write.
// Signals carry no payload, and a burst of them may reach a slow watcher
// as a single wake-up.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces pub/sub channels in Valkey.
const channelPrefix = "notifications:"

// Local is an in-process broker.
type Local struct {
	mu       sync.Mutex
	watchers map[uuid.UUID]map[chan struct{}]struct{}
}

// NewLocal returns an empty Local broker.
func NewLocal() *Local {
	return &Local{watchers: make(map[uuid.UUID]map[chan struct{}]struct{})}
}

// Publish wakes every watcher of recipientID without blocking.
func (l *Local) Publish(_ context.Context, recipientID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ch := range l.watchers[recipientID] {
		wake(ch)
	}
	return nil
}

// Watch registers a watcher for recipientID.
func (l *Local) Watch(_ context.Context, recipientID uuid.UUID) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	l.mu.Lock()
	set, ok := l.watchers[recipientID]
	if !ok {
		set = make(map[chan struct{}]struct{})
		l.watchers[recipientID] = set
	}
	set[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.watchers[recipientID], ch)
			if len(l.watchers[recipientID]) == 0 {
				delete(l.watchers, recipientID)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Watchers returns the number of open watches for recipientID.
func (l *Local) Watchers(recipientID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.watchers[recipientID])
}

// Valkey is a broker backed by Valkey pub/sub.
type Valkey struct {
	client *redis.Client
}

// NewValkey creates a broker on the given client.
func NewValkey(client *redis.Client) *Valkey {
	return &Valkey{client: client}
}

// Publish announces a change for recipientID on its channel.
func (v *Valkey) Publish(ctx context.Context, recipientID uuid.UUID) error {
	if err := v.client.Publish(ctx, channel(recipientID), "changed").Err(); err != nil {
		return fmt.Errorf("publish notification signal: %w", err)
	}
	return nil
}

// Watch subscribes to recipientID's channel. The subscription is confirmed
// before Watch returns, so no signal published afterwards is missed.
func (v *Valkey) Watch(ctx context.Context, recipientID uuid.UUID) (<-chan struct{}, func(), error) {
	ps := v.client.Subscribe(ctx, channel(recipientID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe notification signals: %w", err)
	}

	ch := make(chan struct{}, 1)
	msgs := ps.Channel()
	go func() {
		defer close(ch)
		for range msgs {
			wake(ch)
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() { _ = ps.Close() })
	}
	return ch, cancel, nil
}

func channel(id uuid.UUID) string {
	return channelPrefix + id.String()
}

// wake performs a non-blocking send; a pending wake-up already covers this one.
func wake(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
