// Package service implements sign-in, token refresh and password-reset flows
// for sales reps.
package service

import (
	"context"
	"strings"
	"time"

	"educater_backend/internal/auth/password"
	"educater_backend/internal/auth/repository"
	"educater_backend/internal/auth/token"
	"educater_backend/internal/email"
	schooldomain "educater_backend/internal/schools/domain"
	"educater_backend/platform/apperr"
	"educater_backend/platform/config"
	"educater_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenType   = "access"
	resetTokenTTL     = time.Hour
	msgBadCredentials = "invalid email or password"
)

// Config combines the config interfaces the auth service needs.
type Config interface {
	config.AuthServiceConfig
	config.AppConfig
}

// SweepRunner repairs rep assignments across the school pipeline. The schools
// module provides the implementation; running it on every admin sign-in keeps
// the data clean without a standing cron.
type SweepRunner interface {
	Reconcile(ctx context.Context) (int, error)
}

// TokenPair is an access token plus its refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service provides authentication operations.
type Service struct {
	repo  repository.Repository
	cfg   Config
	mail  email.Sender
	log   *logger.Logger
	sweep SweepRunner
}

// New creates a new auth service.
func New(repo repository.Repository, cfg Config, mail email.Sender, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, mail: mail, log: log}
}

// SetSweepRunner wires the reconcile sweep to run after admin sign-in.
func (s *Service) SetSweepRunner(sweep SweepRunner) {
	s.sweep = sweep
}

// EnsureBootstrapAdmin provisions the built-in admin's credentials from
// BOOTSTRAP_ADMIN_EMAIL / BOOTSTRAP_ADMIN_PASSWORD. A fresh database has no
// sign-in-capable account and rep creation is admin-only, so without this a
// new deployment has no way in. When the variables are unset the seeded
// admin row stays login-disabled.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context) error {
	emailAddr := strings.TrimSpace(s.cfg.GetBootstrapAdminEmail())
	plain := s.cfg.GetBootstrapAdminPassword()
	if emailAddr == "" || plain == "" {
		s.log.Warn("bootstrap admin credentials not configured, built-in admin sign-in disabled")
		return nil
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to hash bootstrap admin password", err)
	}
	if err := s.repo.UpsertAdminAccount(ctx, schooldomain.LegacyAdminID, schooldomain.CanonicalAdminName, emailAddr, hash); err != nil {
		return err
	}
	s.log.Info("bootstrap admin ensured", "email", emailAddr)
	return nil
}

// SignIn authenticates a rep by email and password.
func (s *Service) SignIn(ctx context.Context, emailAddr, plainPassword string) (repository.Account, TokenPair, error) {
	account, err := s.repo.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		s.log.AuthEvent("sign_in", emailAddr, false, "unknown account")
		return repository.Account{}, TokenPair{}, apperr.Unauthorized(msgBadCredentials)
	}

	if err := password.Compare(account.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", account.Email, false, "bad password")
		return repository.Account{}, TokenPair{}, apperr.Unauthorized(msgBadCredentials)
	}

	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return repository.Account{}, TokenPair{}, err
	}

	s.log.AuthEvent("sign_in", account.Email, true, "")

	if account.Role == "admin" && s.sweep != nil {
		go s.runSweep(context.WithoutCancel(ctx))
	}

	return account, pair, nil
}

// runSweep executes the assignment sweep in the background after an admin
// signs in.
func (s *Service) runSweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	corrected, err := s.sweep.Reconcile(ctx)
	if err != nil {
		s.log.Error("post-login assignment sweep failed", "error", err)
		return
	}
	if corrected > 0 {
		s.log.Info("post-login assignment sweep corrected records", "count", corrected)
	}
}

// Refresh rotates a refresh token and issues a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (repository.Account, TokenPair, error) {
	hash := token.HashSHA256(refreshToken)
	repID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return repository.Account{}, TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return repository.Account{}, TokenPair{}, apperr.Unauthorized("refresh token expired")
	}

	account, err := s.repo.GetAccountByID(ctx, repID)
	if err != nil {
		return repository.Account{}, TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return repository.Account{}, TokenPair{}, err
	}

	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return repository.Account{}, TokenPair{}, err
	}
	return account, pair, nil
}

// SignOut revokes a refresh token.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	hash := token.HashSHA256(refreshToken)
	return s.repo.RevokeRefreshToken(ctx, hash)
}

// ForgotPassword sends a reset link when the email is known. It reports
// success either way so the endpoint cannot be used to probe for accounts.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	account, err := s.repo.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		return nil
	}

	resetToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return err
	}

	resetHash := token.HashSHA256(resetToken)
	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.repo.CreateAuthToken(ctx, account.ID, resetHash, repository.TokenTypePasswordReset, expiresAt); err != nil {
		return err
	}

	resetURL := s.buildURL("/reset-password", resetToken)
	return s.mail.SendPasswordResetEmail(ctx, account.Email, resetURL)
}

// ResetPassword sets a new password from a reset token and revokes every
// outstanding session.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	hash := token.HashSHA256(rawToken)
	repID, expiresAt, err := s.repo.GetAuthToken(ctx, hash, repository.TokenTypePasswordReset)
	if err != nil {
		return apperr.Unauthorized("invalid reset token")
	}

	if time.Now().After(expiresAt) {
		return apperr.Unauthorized("reset token expired")
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, repID, passwordHash); err != nil {
		return err
	}

	_ = s.repo.UseAuthToken(ctx, hash, repository.TokenTypePasswordReset)
	_ = s.repo.RevokeAllRefreshTokens(ctx, repID)

	return nil
}

func (s *Service) issueTokens(ctx context.Context, account repository.Account) (TokenPair, error) {
	accessToken, err := s.signJWT(account)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return TokenPair{}, err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, account.ID, hash, expiresAt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signJWT(account repository.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  account.ID,
		"name": account.Name,
		"role": account.Role,
		"type": accessTokenType,
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func (s *Service) buildURL(path, tokenValue string) string {
	base := strings.TrimRight(s.cfg.GetAppBaseURL(), "/")
	return base + path + "?token=" + tokenValue
}
