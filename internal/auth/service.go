package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"saas-platform-backend/internal/config"
	"saas-platform-backend/internal/database/models"
	apperrors "saas-platform-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT access token claims. The tenant_id claim is the
// contract between token issuance and the tenant-scoping read filter: the
// data-access layer restricts tenant-owned reads to exactly this value.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// RefreshTokenData stores server-side state for an opaque refresh token
type RefreshTokenData struct {
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenService issues and validates access and refresh tokens
type TokenService struct {
	config        *config.Config
	refreshTokens map[string]*RefreshTokenData // In-memory store for refresh tokens
	tokenMutex    sync.RWMutex                 // Protect the refresh token store
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		config:        cfg,
		refreshTokens: make(map[string]*RefreshTokenData),
	}
}

// GenerateAccessToken creates a signed JWT for the user
func (s *TokenService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL())
	claims := &Claims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Name:     user.FullName(),
		TenantID: user.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    s.config.JWTIssuer,
			Audience:  jwt.ClaimStrings{s.config.JWTAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// GenerateRefreshToken issues an opaque refresh token for the user and
// stores it server-side until it expires or is rotated.
func (s *TokenService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	token, err := generateRandomString(64)
	if err != nil {
		return "", err
	}

	now := time.Now()
	s.tokenMutex.Lock()
	s.refreshTokens[token] = &RefreshTokenData{
		UserID:    userID,
		ExpiresAt: now.Add(s.config.RefreshTokenTTL()),
		CreatedAt: now,
	}
	s.tokenMutex.Unlock()

	return token, nil
}

// RotateRefreshToken invalidates the presented refresh token and returns the
// owning user id together with a replacement token.
func (s *TokenService) RotateRefreshToken(refreshToken string) (uuid.UUID, string, error) {
	s.tokenMutex.Lock()
	tokenData, exists := s.refreshTokens[refreshToken]
	if exists {
		delete(s.refreshTokens, refreshToken)
	}
	s.tokenMutex.Unlock()

	if !exists {
		return uuid.Nil, "", apperrors.ErrInvalidRefreshToken
	}
	if time.Now().After(tokenData.ExpiresAt) {
		return uuid.Nil, "", apperrors.ErrRefreshTokenExpired
	}

	newToken, err := s.GenerateRefreshToken(tokenData.UserID)
	if err != nil {
		return uuid.Nil, "", err
	}
	return tokenData.UserID, newToken, nil
}

// RevokeRefreshTokens drops all refresh tokens belonging to the user
func (s *TokenService) RevokeRefreshTokens(userID uuid.UUID) {
	s.tokenMutex.Lock()
	defer s.tokenMutex.Unlock()
	for token, data := range s.refreshTokens {
		if data.UserID == userID {
			delete(s.refreshTokens, token)
		}
	}
}

// ValidateToken validates and parses a JWT access token
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

// generateRandomString generates a random base64 encoded string
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
