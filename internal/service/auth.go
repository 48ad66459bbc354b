package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"saas-platform-backend/internal/auth"
	"saas-platform-backend/internal/config"
	"saas-platform-backend/internal/database/models"
	apperrors "saas-platform-backend/internal/errors"
	"saas-platform-backend/internal/logger"
	"saas-platform-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration, login and token refresh
type AuthService struct {
	tenantRepo repository.TenantRepositoryInterface
	userRepo   repository.UserRepositoryInterface
	tokens     *auth.TokenService
	config     *config.Config
	validator  *validator.Validate
}

// NewAuthService creates a new auth service
func NewAuthService(
	tenantRepo repository.TenantRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	tokens *auth.TokenService,
	cfg *config.Config,
	validator *validator.Validate,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		tokens:     tokens,
		config:     cfg,
		validator:  validator,
	}
}

// RegisterRequest represents the request to register a new tenant and its
// first user
type RegisterRequest struct {
	Email             string `json:"email" validate:"required,email,max=255"`
	Password          string `json:"password" validate:"required"`
	FirstName         string `json:"firstName" validate:"required,max=100"`
	LastName          string `json:"lastName" validate:"required,max=100"`
	CompanyName       string `json:"companyName" validate:"required,min=1,max=100"`
	CompanyIdentifier string `json:"companyIdentifier" validate:"required,min=1,max=100"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request to rotate a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserInfo represents the user payload embedded in auth responses
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	TenantID  uuid.UUID `json:"tenantId"`
}

// AuthResponse represents the token payload returned on register, login and
// refresh
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         UserInfo  `json:"user"`
}

// MeResponse represents the current user and their tenant
type MeResponse struct {
	User   UserInfo        `json:"user"`
	Tenant *TenantResponse `json:"tenant,omitempty"`
}

// Register creates a tenant and its first user atomically and issues tokens.
// Email and identifier uniqueness are both checked before any write.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.CompanyIdentifier = strings.ToLower(strings.TrimSpace(req.CompanyIdentifier))
	req.CompanyName = strings.TrimSpace(req.CompanyName)

	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}
	if err := s.checkPasswordPolicy(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrUserEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	exists, err := s.tenantRepo.IdentifierExists(ctx, req.CompanyIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to check tenant identifier: %w", err)
	}
	if exists {
		return nil, apperrors.ErrTenantIdentifierExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tenant := &models.Tenant{
		Name:       req.CompanyName,
		Identifier: req.CompanyIdentifier,
		IsActive:   true,
	}
	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.tenantRepo.CreateWithOwner(ctx, tenant, user); err != nil {
		return nil, fmt.Errorf("failed to register tenant: %w", err)
	}

	return s.issueTokens(user)
}

// Login verifies credentials and issues tokens. Unknown email and wrong
// password produce the same error; lockout and inactive tenant are reported
// distinctly but still as authentication failures.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.LockedUntil != nil {
		if time.Now().Before(*user.LockedUntil) {
			return nil, apperrors.ErrAccountLocked
		}
		// The lock has lapsed; the next failure starts a fresh count.
		if err := s.userRepo.ResetLoginFailures(ctx, user.ID); err != nil {
			logger.WithContext(ctx).WithError(err).Error("failed to reset login failures")
		}
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		if err := s.userRepo.RecordFailedLogin(ctx, user.ID, s.config.MaxFailedLogins, s.config.LockoutDuration()); err != nil {
			logger.WithContext(ctx).WithError(err).Error("failed to record login failure")
		}
		// Report lockout as soon as this failure crosses the limit.
		if user.FailedLoginAttempts+1 >= s.config.MaxFailedLogins {
			return nil, apperrors.ErrAccountLocked
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantInactive
		}
		return nil, fmt.Errorf("failed to look up tenant: %w", err)
	}
	if !tenant.IsActive {
		return nil, apperrors.ErrTenantInactive
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.userRepo.ResetLoginFailures(ctx, user.ID); err != nil {
			logger.WithContext(ctx).WithError(err).Error("failed to reset login failures")
		}
	}

	return s.issueTokens(user)
}

// Refresh rotates a refresh token and issues a new access token
func (s *AuthService) Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	userID, newRefreshToken, err := s.tokens.RotateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    expiresAt,
		User:         toUserInfo(user),
	}, nil
}

// Logout revokes every refresh token issued to the user. Outstanding access
// tokens stay valid until their expiry.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	s.tokens.RevokeRefreshTokens(userID)
	return nil
}

// Me returns the current user and tenant for the given user id
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*MeResponse, error) {
	user, err := s.userRepo.GetWithTenant(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	resp := &MeResponse{User: toUserInfo(user)}
	if user.Tenant != nil {
		resp.Tenant = &TenantResponse{
			ID:                    user.Tenant.ID,
			Name:                  user.Tenant.Name,
			Identifier:            user.Tenant.Identifier,
			IsActive:              user.Tenant.IsActive,
			SubscriptionExpiresAt: user.Tenant.SubscriptionExpiresAt,
			CreatedAt:             user.Tenant.CreatedAt.Format(time.RFC3339),
			UpdatedAt:             user.Tenant.UpdatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         toUserInfo(user),
	}, nil
}

func (s *AuthService) checkPasswordPolicy(password string) error {
	if len(password) < s.config.MinPasswordLength {
		return apperrors.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", s.config.MinPasswordLength))
	}
	return nil
}

func toUserInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		TenantID:  user.TenantID,
	}
}
