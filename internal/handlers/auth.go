// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"newsdesk/internal/account"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/session"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	accounts *account.Service
	sessions *session.Store
	// logResetTokens writes password reset tokens to the log. Development
	// only: there is no mail delivery.
	logResetTokens bool
}

// NewAuth creates a new Auth handler group.
func NewAuth(accounts *account.Service, sessions *session.Store, logResetTokens bool) *Auth {
	return &Auth{
		accounts:       accounts,
		sessions:       sessions,
		logResetTokens: logResetTokens,
	}
}

// meResponse describes the signed-in user and their role chrome.
type meResponse struct {
	User              *models.User `json:"user"`
	AccentColor       string       `json:"accent_color"`
	PanelPath         string       `json:"panel_path"`
	CanManageSections bool         `json:"can_manage_sections"`
	TwoFAPending      bool         `json:"two_fa_pending"`
	CSRFToken         string       `json:"csrf_token,omitempty"`
}

func newMe(u *models.User, sess *session.Data) meResponse {
	return meResponse{
		User:              u,
		AccentColor:       u.Role.AccentColor(),
		PanelPath:         u.Role.PanelPath(),
		CanManageSections: u.Role.CanReview(),
		TwoFAPending:      sess != nil && !sess.TwoFADone,
	}
}

// Register creates an account and signs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in account.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess := session.FromUser(u)
	if _, err := a.sessions.Create(r.Context(), w, sess); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newMe(u, sess))
}

// Login checks credentials and starts a session. Users with 2FA enabled
// get a pending session until they pass Verify.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := a.accounts.Authenticate(r.Context(), body.Email, body.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{
			Kind:    "invalid_credentials",
			Message: "Invalid email or password.",
		}})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess := session.FromUser(u)
	if _, err := a.sessions.Create(r.Context(), w, sess); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, r, err)
		return
	}
	slog.Info("user signed in", "user_id", u.ID, "two_fa_pending", !sess.TwoFADone)
	writeJSON(w, http.StatusOK, newMe(u, sess))
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user, including a session still owing its
// second factor.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	u, err := a.accounts.User(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	me := newMe(u, sess)
	me.CSRFToken = middleware.GetCSRFToken(r)
	writeJSON(w, http.StatusOK, me)
}

// TOTPSetup generates a new TOTP secret and its QR code.
func (a *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	setup, err := a.accounts.BeginTOTP(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setup)
}

// TOTPConfirm enables 2FA after checking a code for the pending secret.
func (a *Auth) TOTPConfirm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.accounts.ConfirmTOTP(r.Context(), sess.UserID, body.Code); err != nil {
		writeError(w, r, err)
		return
	}
	sess.TOTPEnabled = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Warn("session update failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// TOTPDisable turns 2FA off after checking a current code.
func (a *Auth) TOTPDisable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.accounts.VerifyTOTP(r.Context(), sess.UserID, body.Code); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.accounts.DisableTOTP(r.Context(), sess.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	sess.TOTPEnabled = false
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Warn("session update failed", "error", err)
	}
	slog.Info("two-factor disabled", "user_id", sess.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// TOTPVerify completes a pending login with a TOTP code.
func (a *Auth) TOTPVerify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.accounts.VerifyTOTP(r.Context(), sess.UserID, body.Code); err != nil {
		writeError(w, r, err)
		return
	}
	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, r, err)
		return
	}
	u, err := a.accounts.User(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMe(u, sess))
}

// ForgotPassword issues a reset token. The response is the same whether
// or not the email belongs to an account.
func (a *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	token, err := a.accounts.RequestPasswordReset(r.Context(), body.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if token != "" && a.logResetTokens {
		slog.Info("password reset token issued", "email", body.Email, "token", token)
	}
	w.WriteHeader(http.StatusAccepted)
}

// ResetPassword consumes a reset token and sets a new password.
func (a *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.accounts.ResetPassword(r.Context(), body.Token, body.Password); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
