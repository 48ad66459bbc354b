package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"saas-platform-backend/internal/config"
	"saas-platform-backend/internal/database/models"
	apperrors "saas-platform-backend/internal/errors"
	"saas-platform-backend/internal/tenancy"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:          "test",
		JWTSecret:            "test-signing-key-for-token-operations",
		JWTIssuer:            "saas-platform-backend",
		JWTAudience:          "saas-platform",
		AccessTokenTTLMin:    60,
		RefreshTokenTTLHours: 720,
	}
}

func testUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		TenantID:  uuid.New(),
		Email:     "jane.doe@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestGenerateAccessToken(t *testing.T) {
	service := NewTokenService(testConfig())
	user := testUser()

	t.Run("token round trip", func(t *testing.T) {
		token, expiresAt, err := service.GenerateAccessToken(user)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, "Jane Doe", claims.Name)
		assert.Equal(t, user.TenantID.String(), claims.TenantID)
		assert.Equal(t, user.ID.String(), claims.Subject)
		assert.Equal(t, "saas-platform-backend", claims.Issuer)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("unique token ids", func(t *testing.T) {
		token1, _, err := service.GenerateAccessToken(user)
		require.NoError(t, err)
		token2, _, err := service.GenerateAccessToken(user)
		require.NoError(t, err)

		claims1, err := service.ValidateToken(token1)
		require.NoError(t, err)
		claims2, err := service.ValidateToken(token2)
		require.NoError(t, err)
		assert.NotEqual(t, claims1.ID, claims2.ID)
	})
}

func TestValidateToken(t *testing.T) {
	cfg := testConfig()
	service := NewTokenService(cfg)
	user := testUser()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("rejects wrong signing key", func(t *testing.T) {
		otherCfg := testConfig()
		otherCfg.JWTSecret = "a-different-signing-key"
		other := NewTokenService(otherCfg)

		token, _, err := other.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		claims := &Claims{
			UserID:   user.ID.String(),
			TenantID: user.TenantID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)

		_, err = service.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("rejects unsigned token", func(t *testing.T) {
		claims := &Claims{UserID: user.ID.String()}
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(signed)
		assert.Error(t, err)
	})
}

func TestRefreshTokens(t *testing.T) {
	service := NewTokenService(testConfig())
	userID := uuid.New()

	t.Run("rotate valid token", func(t *testing.T) {
		token, err := service.GenerateRefreshToken(userID)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		gotUserID, newToken, err := service.RotateRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, gotUserID)
		assert.NotEqual(t, token, newToken)
	})

	t.Run("rotation invalidates old token", func(t *testing.T) {
		token, err := service.GenerateRefreshToken(userID)
		require.NoError(t, err)

		_, _, err = service.RotateRefreshToken(token)
		require.NoError(t, err)

		_, _, err = service.RotateRefreshToken(token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, _, err := service.RotateRefreshToken("unknown-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("revoke drops all user tokens", func(t *testing.T) {
		token1, err := service.GenerateRefreshToken(userID)
		require.NoError(t, err)
		token2, err := service.GenerateRefreshToken(userID)
		require.NoError(t, err)

		service.RevokeRefreshTokens(userID)

		_, _, err = service.RotateRefreshToken(token1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		_, _, err = service.RotateRefreshToken(token2)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service := NewTokenService(testConfig())
	middleware := NewAuthMiddleware(service)
	user := testUser()

	setupRouter := func(handler gin.HandlerFunc) *gin.Engine {
		router := gin.New()
		router.GET("/protected", middleware.RequireAuth(), handler)
		return router
	}

	t.Run("missing header", func(t *testing.T) {
		router := setupRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest("GET", "/protected", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		router := setupRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		router := setupRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid token threads identity into request context", func(t *testing.T) {
		token, _, err := service.GenerateAccessToken(user)
		require.NoError(t, err)

		var gotActor string
		var gotTenant uuid.UUID
		var gotScoped bool

		router := setupRouter(func(c *gin.Context) {
			gotActor = tenancy.ActorID(c.Request.Context())
			gotTenant, gotScoped = tenancy.TenantID(c.Request.Context())

			userID, ok := GetUserID(c)
			assert.True(t, ok)
			assert.Equal(t, user.ID, userID)

			tenantID, ok := GetTenantID(c)
			assert.True(t, ok)
			assert.Equal(t, user.TenantID, tenantID)

			claims, ok := GetAuthClaims(c)
			assert.True(t, ok)
			assert.Equal(t, user.Email, claims.Email)

			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, user.ID.String(), gotActor)
		assert.True(t, gotScoped)
		assert.Equal(t, user.TenantID, gotTenant)
	})
}
