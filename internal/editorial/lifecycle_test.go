package editorial

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

func TestPlan(t *testing.T) {
	author := Actor{ID: uuid.New(), Name: "R", Role: models.RoleReporter}
	editor := Actor{ID: uuid.New(), Name: "E", Role: models.RoleEditor}

	tests := []struct {
		name   string
		status models.ArticleStatus
		actor  Actor
		action Action
		want   models.ArticleStatus
		err    error
	}{
		{"author submits draft", models.StatusDraft, author, ActionSubmit, models.StatusSubmitted, nil},
		{"author edits draft", models.StatusDraft, author, ActionEdit, models.StatusDraft, nil},
		{"author resubmits", models.StatusSubmitted, author, ActionSubmit, "", apperr.ErrInvalidTransition},
		{"author edits submitted", models.StatusSubmitted, author, ActionEdit, "", apperr.ErrInvalidTransition},
		{"editor submits", models.StatusDraft, editor, ActionSubmit, "", apperr.ErrUnauthorized},
		{"editor publishes draft", models.StatusDraft, editor, ActionPublish, "", apperr.ErrInvalidTransition},
		{"editor publishes submitted", models.StatusSubmitted, editor, ActionPublish, models.StatusPublished, nil},
		{"editor republishes", models.StatusDeactivated, editor, ActionPublish, models.StatusPublished, nil},
		{"editor publishes twice", models.StatusPublished, editor, ActionPublish, "", apperr.ErrInvalidTransition},
		{"editor deactivates", models.StatusPublished, editor, ActionDeactivate, models.StatusDeactivated, nil},
		{"editor deactivates submitted", models.StatusSubmitted, editor, ActionDeactivate, "", apperr.ErrInvalidTransition},
		{"reporter deactivates", models.StatusPublished, author, ActionDeactivate, "", apperr.ErrUnauthorized},
		{"unknown action", models.StatusDraft, editor, Action("archive"), "", apperr.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &models.Article{AuthorID: author.ID, Status: tt.status}
			got, err := Plan(a, tt.actor, tt.action)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("Plan() error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Plan() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Plan() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotificationMessage(t *testing.T) {
	tests := []struct {
		kind  models.NotificationType
		actor string
		want  string
	}{
		{models.NotificationFinished, "Rita", `Rita marked the article "Budget" as finished.`},
		{models.NotificationFinished, "", `A reporter marked the article "Budget" as finished.`},
		{models.NotificationPublished, "Eva", `Eva published your article "Budget".`},
		{models.NotificationDeactivated, "", `An editor deactivated your article "Budget".`},
	}
	for _, tt := range tests {
		if got := notificationMessage(tt.kind, tt.actor, "Budget"); got != tt.want {
			t.Errorf("notificationMessage(%s, %q) = %q, want %q", tt.kind, tt.actor, got, tt.want)
		}
	}
}
