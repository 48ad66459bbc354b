package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"saas-platform-backend/internal/config"
	apperrors "saas-platform-backend/internal/errors"
	"saas-platform-backend/internal/logger"
	"saas-platform-backend/internal/mailer"
	"saas-platform-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordResetService handles the reset-token lifecycle: a user has either
// no pending reset or one issued token, which is consumed on redemption or
// invalidated by its expiry.
type PasswordResetService struct {
	userRepo repository.UserRepositoryInterface
	sender   mailer.Sender
	config   *config.Config
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(userRepo repository.UserRepositoryInterface, sender mailer.Sender, cfg *config.Config) *PasswordResetService {
	return &PasswordResetService{
		userRepo: userRepo,
		sender:   sender,
		config:   cfg,
	}
}

// ForgotPasswordRequest represents the request to start a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request to redeem a reset token
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// Request issues a reset token for the address and dispatches it out of
// band. Unknown addresses report success without any state change, so the
// endpoint leaks nothing about which emails are registered. A dispatch
// failure is logged but likewise not surfaced.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(s.config.ResetTokenTTL())
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.sender.SendPasswordReset(user.Email, token); err != nil {
		logger.WithContext(ctx).WithError(err).Error("failed to dispatch password reset mail")
	}
	return nil
}

// Reset redeems a token and sets the new password. The repository clears
// the token in the same conditional update that matches it, so a token is
// accepted exactly once and an expired token never.
func (s *PasswordResetService) Reset(ctx context.Context, req *ResetPasswordRequest) error {
	if req.Token == "" {
		return apperrors.ErrInvalidResetToken
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.NewValidationError("confirmPassword", "passwords do not match")
	}
	if len(req.NewPassword) < s.config.MinPasswordLength {
		return apperrors.NewValidationError("newPassword",
			fmt.Sprintf("must be at least %d characters", s.config.MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	redeemed, err := s.userRepo.RedeemResetToken(ctx, req.Token, string(hash))
	if err != nil {
		return fmt.Errorf("failed to redeem reset token: %w", err)
	}
	if !redeemed {
		return apperrors.ErrInvalidResetToken
	}
	return nil
}

// generateResetToken returns 32 random bytes, base64-encoded
func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
