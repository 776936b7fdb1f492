// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editorial

import (
	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

// Action names an operation that is gated on the article's status.
type Action string

const (
	ActionSubmit     Action = "submit"
	ActionPublish    Action = "publish"
	ActionDeactivate Action = "deactivate"
	ActionEdit       Action = "edit"
)

// Plan decides whether actor may apply action to a and returns the status
// the article ends up in. Role and ownership guards are checked before the
// status edge, so a caller without the right gets Unauthorized regardless
// of the article's state. Edits keep the article in draft.
//
//	draft       -> submitted   author (reporter)
//	submitted   -> published   editor, admin
//	published   -> deactivated editor, admin
//	deactivated -> published   editor, admin
func Plan(a *models.Article, actor Actor, action Action) (models.ArticleStatus, error) {
	switch action {
	case ActionSubmit, ActionEdit:
		if !isAuthor(a, actor) {
			return "", apperr.Unauthorized(string(action) + " article")
		}
		if a.Status != models.StatusDraft {
			return "", apperr.InvalidTransition(string(a.Status), string(action))
		}
		if action == ActionEdit {
			return models.StatusDraft, nil
		}
		return models.StatusSubmitted, nil

	case ActionPublish:
		if !actor.Authenticated() || !actor.Role.CanReview() {
			return "", apperr.Unauthorized("publish article")
		}
		switch a.Status {
		case models.StatusSubmitted, models.StatusDeactivated:
			return models.StatusPublished, nil
		}
		return "", apperr.InvalidTransition(string(a.Status), string(action))

	case ActionDeactivate:
		if !actor.Authenticated() || !actor.Role.CanReview() {
			return "", apperr.Unauthorized("deactivate article")
		}
		if a.Status == models.StatusPublished {
			return models.StatusDeactivated, nil
		}
		return "", apperr.InvalidTransition(string(a.Status), string(action))
	}
	return "", apperr.InvalidTransition(string(a.Status), string(action))
}

// Visible reports whether viewer may read a. Published articles are public;
// everything else is limited to the author and to reviewers.
func Visible(a *models.Article, viewer Actor) bool {
	if a.Status == models.StatusPublished {
		return true
	}
	if !viewer.Authenticated() {
		return false
	}
	return viewer.ID == a.AuthorID || viewer.Role.CanReview()
}

func isAuthor(a *models.Article, actor Actor) bool {
	return actor.Authenticated() && actor.Role.CanAuthor() && actor.ID == a.AuthorID
}
