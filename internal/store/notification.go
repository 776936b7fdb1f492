// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"newsdesk/internal/models"
)

const notificationColumns = `id, recipient_id, actor_id, actor_name, actor_role, type, article_id, message, read, created_at`

// NotificationStore persists the notification log. Rows are only ever
// inserted or have their read flag set.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	n := &models.Notification{}
	err := row.Scan(
		&n.ID, &n.RecipientID, &n.ActorID, &n.ActorName, &n.ActorRole,
		&n.Type, &n.ArticleID, &n.Message, &n.Read, &n.CreatedAt,
	)
	return n, err
}

// Create inserts an unread notification.
func (s *NotificationStore) Create(ctx context.Context, in *models.Notification) (*models.Notification, error) {
	n, err := scanNotification(s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (recipient_id, actor_id, actor_name, actor_role, type, article_id, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+notificationColumns,
		in.RecipientID, in.ActorID, in.ActorName, in.ActorRole, in.Type, in.ArticleID, in.Message,
	))
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// ListByRecipient returns a user's notifications, newest first.
func (s *NotificationStore) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	q := psql.Select(notificationColumns).From("notifications").
		Where(squirrel.Eq{"recipient_id": recipientID.String()})
	if unreadOnly {
		q = q.Where(squirrel.Eq{"read": false})
	}
	return s.query(ctx, "list notifications", q.OrderBy("created_at DESC", "id DESC"))
}

// FindByIDs returns the notifications that exist among ids.
func (s *NotificationStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Notification, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.query(ctx, "find notifications",
		psql.Select(notificationColumns).From("notifications").Where(squirrel.Eq{"id": uuidStrings(ids)}))
}

// MarkRead sets read on the recipient's unread notifications among ids and
// returns how many rows changed.
func (s *NotificationStore) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := psql.Update("notifications").
		Set("read", true).
		Where(squirrel.Eq{"recipient_id": recipientID.String(), "id": uuidStrings(ids), "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark read: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return res.RowsAffected()
}

func (s *NotificationStore) query(ctx context.Context, op string, q squirrel.SelectBuilder) ([]models.Notification, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

// uuidStrings converts ids for squirrel, which would otherwise expand each
// uuid.UUID byte array into its own IN list.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
