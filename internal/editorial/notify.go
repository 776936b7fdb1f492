// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/metrics"
	"newsdesk/internal/models"
)

// fanOut writes the notifications triggered by a's new status. Recipients
// are resolved once, here. A failed write is logged and counted but never
// undoes the transition.
func (s *Service) fanOut(ctx context.Context, actor Actor, a *models.Article) []models.Notification {
	var (
		kind       models.NotificationType
		recipients []uuid.UUID
	)

	switch a.Status {
	case models.StatusSubmitted:
		kind = models.NotificationFinished
		editors, err := s.users.ListByRole(ctx, models.RoleEditor)
		if err != nil {
			metrics.NotificationsFailed.WithLabelValues(string(kind)).Inc()
			s.logger.Error("notification fan-out: list editors", "article_id", a.ID, "error", err)
			return nil
		}
		for _, e := range editors {
			recipients = append(recipients, e.ID)
		}
	case models.StatusPublished:
		kind = models.NotificationPublished
		recipients = []uuid.UUID{a.AuthorID}
	case models.StatusDeactivated:
		kind = models.NotificationDeactivated
		recipients = []uuid.UUID{a.AuthorID}
	default:
		return nil
	}

	articleID := a.ID
	message := notificationMessage(kind, actor.Name, a.Title)
	created := make([]models.Notification, 0, len(recipients))

	for _, rid := range recipients {
		n, err := s.notifications.Create(ctx, &models.Notification{
			RecipientID: rid,
			ActorID:     actor.ID,
			ActorName:   actor.Name,
			ActorRole:   actor.Role,
			Type:        kind,
			ArticleID:   &articleID,
			Message:     message,
		})
		if err != nil {
			metrics.NotificationsFailed.WithLabelValues(string(kind)).Inc()
			s.logger.Error("notification fan-out: create",
				"type", kind,
				"recipient_id", rid,
				"article_id", a.ID,
				"error", err,
			)
			continue
		}
		metrics.NotificationsCreated.WithLabelValues(string(kind)).Inc()
		created = append(created, *n)
		s.signal(ctx, rid)
	}
	return created
}

// notificationMessage renders the text shown in the recipient's list. It
// always quotes the article title.
func notificationMessage(kind models.NotificationType, actorName, title string) string {
	switch kind {
	case models.NotificationFinished:
		if actorName == "" {
			actorName = "A reporter"
		}
		return fmt.Sprintf("%s marked the article \"%s\" as finished.", actorName, title)
	case models.NotificationPublished:
		if actorName == "" {
			actorName = "An editor"
		}
		return fmt.Sprintf("%s published your article \"%s\".", actorName, title)
	case models.NotificationDeactivated:
		if actorName == "" {
			actorName = "An editor"
		}
		return fmt.Sprintf("%s deactivated your article \"%s\".", actorName, title)
	}
	return fmt.Sprintf("Article \"%s\" changed.", title)
}

// ListNotifications returns the actor's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, actor Actor, unreadOnly bool) ([]models.Notification, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthorized("list notifications")
	}
	list, err := s.notifications.ListByRecipient(ctx, actor.ID, unreadOnly)
	if err != nil {
		return nil, apperr.Upstream("list notifications", err)
	}
	return list, nil
}

// MarkRead flips the read flag on the given notifications. Every id must
// exist and belong to actor, otherwise nothing is changed. Marking an
// already-read notification again is a no-op.
func (s *Service) MarkRead(ctx context.Context, actor Actor, ids []uuid.UUID) error {
	if !actor.Authenticated() {
		return apperr.Unauthorized("mark notifications read")
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}

	found, err := s.notifications.FindByIDs(ctx, ids)
	if err != nil {
		return apperr.Upstream("find notifications", err)
	}
	if len(found) != len(ids) {
		return apperr.NotFound("notification")
	}
	for _, n := range found {
		if n.RecipientID != actor.ID {
			return apperr.Unauthorized("mark notifications read")
		}
	}

	changed, err := s.notifications.MarkRead(ctx, actor.ID, ids)
	if err != nil {
		return apperr.Upstream("mark notifications read", err)
	}
	if changed > 0 {
		s.signal(ctx, actor.ID)
	}
	return nil
}

func (s *Service) signal(ctx context.Context, recipientID uuid.UUID) {
	if err := s.feed.Publish(ctx, recipientID); err != nil {
		s.logger.Warn("notification signal failed", "recipient_id", recipientID, "error", err)
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
