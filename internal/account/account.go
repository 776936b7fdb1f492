// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package account handles registration, password and TOTP authentication,
// and password resets. Sessions themselves live in the session package.
package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
	"newsdesk/internal/validate"
)

const (
	// Issuer is the label authenticator apps show next to the account.
	Issuer = "Newsdesk"

	// ResetTokenTTL is how long a password reset link stays valid.
	ResetTokenTTL = time.Hour

	resetTokenBytes = 32
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or
// a wrong password. The two cases are indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository is the user persistence the account flows need.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, id uuid.UUID) error
	ResetTOTP(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

// TokenStore keeps single-use reset tokens. Take deletes the token it returns.
type TokenStore interface {
	Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Take(ctx context.Context, token string) (uuid.UUID, bool, error)
}

// Service runs the account flows.
type Service struct {
	users  UserRepository
	tokens TokenStore
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(users UserRepository, tokens TokenStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput is the sign-up form. An empty role means reporter.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"display_name" validate:"required,max=120"`
	Role        string `json:"role"`
}

// Register creates an account. Only the reporter and editor roles can be
// chosen at sign-up; admins are provisioned out of band.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}

	role := models.RoleReporter
	if in.Role != "" {
		r, err := models.ParseRole(in.Role)
		if err != nil || !r.Registrable() {
			return nil, apperr.Invalid("role", "Choose either reporter or editor.")
		}
		role = r
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Upstream("find user", err)
	}
	if existing != nil {
		return nil, apperr.Invalid("email", "An account with this email already exists.")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return nil, err
		}
		return nil, apperr.Upstream("create user", err)
	}
	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Authenticate checks an email and password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperr.Upstream("find user", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// User returns the account with id.
func (s *Service) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Upstream("find user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user")
	}
	return u, nil
}

// TOTPSetup is what the client needs to enrol an authenticator app.
type TOTPSetup struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qr_code"` // base64 PNG
}

// BeginTOTP generates and stores a fresh TOTP secret. 2FA stays disabled
// until ConfirmTOTP accepts a code for it.
func (s *Service) BeginTOTP(ctx context.Context, userID uuid.UUID) (*TOTPSetup, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: u.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}
	if err := s.users.SetTOTPSecret(ctx, u.ID, key.Secret()); err != nil {
		return nil, apperr.Upstream("save totp secret", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return &TOTPSetup{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// ConfirmTOTP enables 2FA once the user proves their app produces codes
// for the pending secret.
func (s *Service) ConfirmTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	u, err := s.User(ctx, userID)
	if err != nil {
		return err
	}
	if u.TOTPSecret == nil {
		return apperr.Invalid("code", "Start two-factor setup first.")
	}
	if !totp.Validate(strings.TrimSpace(code), *u.TOTPSecret) {
		return apperr.Invalid("code", "Invalid code. Please try again.")
	}
	if u.TOTPEnabled {
		return nil
	}
	if err := s.users.EnableTOTP(ctx, u.ID); err != nil {
		return apperr.Upstream("enable totp", err)
	}
	s.logger.Info("two-factor enabled", "user_id", u.ID)
	return nil
}

// VerifyTOTP checks a login code for a user with 2FA enabled.
func (s *Service) VerifyTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	u, err := s.User(ctx, userID)
	if err != nil {
		return err
	}
	if !u.Needs2FA() {
		return apperr.Invalid("code", "Two-factor authentication is not enabled.")
	}
	if !totp.Validate(strings.TrimSpace(code), *u.TOTPSecret) {
		return apperr.Invalid("code", "Invalid code. Please try again.")
	}
	return nil
}

// DisableTOTP clears the user's secret.
func (s *Service) DisableTOTP(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.ResetTOTP(ctx, userID); err != nil {
		return apperr.Upstream("reset totp", err)
	}
	return nil
}

// RequestPasswordReset issues a reset token for email. An unknown email
// yields an empty token and no error so callers cannot enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", apperr.Upstream("find user", err)
	}
	if u == nil {
		return "", nil
	}

	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reset token: %w", err)
	}
	token := hex.EncodeToString(b)
	if err := s.tokens.Put(ctx, token, u.ID, ResetTokenTTL); err != nil {
		return "", apperr.Upstream("store reset token", err)
	}
	s.logger.Info("password reset requested", "user_id", u.ID)
	return token, nil
}

// ResetPassword consumes token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	form := struct {
		Password string `json:"password" validate:"required,min=6,max=72"`
	}{Password: password}
	if err := validate.Struct(&form); err != nil {
		return err
	}
	// A rejected password must not consume the token.
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	userID, ok, err := s.tokens.Take(ctx, strings.TrimSpace(token))
	if err != nil {
		return apperr.Upstream("read reset token", err)
	}
	if !ok {
		return apperr.Invalid("token", "This reset link is invalid or has expired.")
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Upstream("update password", err)
	}
	s.logger.Info("password reset", "user_id", userID)
	return nil
}

// hashPassword bcrypts password. bcrypt reads at most 72 bytes, which a
// shorter password of multibyte characters can exceed.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Invalid("password", "Password is too long. Accented letters and symbols count double.")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
