// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the lifecycle event a notification reports.
type NotificationType string

const (
	NotificationPublished   NotificationType = "PUBLISHED"
	NotificationDeactivated NotificationType = "DEACTIVATED"
	NotificationFinished    NotificationType = "FINISHED"
)

// Notification is an append-only record addressed to one user. Only the
// Read flag ever changes after creation.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	ActorID     uuid.UUID        `json:"actor_id"`
	ActorName   string           `json:"actor_name"`
	ActorRole   Role             `json:"actor_role"`
	Type        NotificationType `json:"type"`
	ArticleID   *uuid.UUID       `json:"article_id,omitempty"`
	Message     string           `json:"message"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
