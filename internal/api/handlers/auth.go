package handlers

import (
	"errors"
	"net/http"

	"saas-platform-backend/internal/auth"
	apperrors "saas-platform-backend/internal/errors"
	"saas-platform-backend/internal/metrics"
	"saas-platform-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for registration, login and password
// reset
type AuthHandler struct {
	service      service.AuthServiceInterface
	resetService service.PasswordResetServiceInterface
	development  bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service service.AuthServiceInterface, resetService service.PasswordResetServiceInterface, development bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		resetService: resetService,
		development:  development,
	}
}

// Register handles POST /api/v1/auth/register
// @Summary Register a new tenant
// @Description Register a new tenant together with its first user and receive tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body service.RegisterRequest true "Registration data"
// @Success 201 {object} service.AuthResponse "Successfully registered"
// @Failure 400 {object} ErrorResponse "Invalid request body or password policy violation"
// @Failure 409 {object} ErrorResponse "Email or company identifier already taken"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	metrics.RegisterCounter.Inc()
	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if apperrors.IsAlreadyExists(err) {
			metrics.RecordAuthError("registration_conflict")
		}
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Verify credentials and receive access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body service.LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResponse "Successfully logged in"
// @Failure 401 {object} ErrorResponse "Bad credentials, locked account or inactive tenant"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrInvalidCredentials.Error()})
		return
	}

	metrics.LoginCounter.Inc()
	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAccountLocked):
			metrics.RecordAuthError("account_locked")
		case errors.Is(err, apperrors.ErrTenantInactive):
			metrics.RecordAuthError("tenant_inactive")
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			metrics.RecordAuthError("invalid_credentials")
		}
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/v1/auth/refresh
// @Summary Refresh tokens
// @Description Rotate a refresh token and receive a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param token body service.RefreshRequest true "Refresh token"
// @Success 200 {object} service.AuthResponse "New token pair"
// @Failure 401 {object} ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req service.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrInvalidRefreshToken.Error()})
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRefreshToken) || errors.Is(err, apperrors.ErrRefreshTokenExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
// @Summary Current user
// @Description Get the authenticated user and their tenant
// @Tags auth
// @Produce json
// @Success 200 {object} service.MeResponse "Current user and tenant"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	resp, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/v1/auth/logout
// @Summary Log out
// @Description Revoke all refresh tokens of the authenticated user. Issued access tokens stay valid until they expire.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
// @Summary Request a password reset
// @Description Send a password reset token to the given address if it is registered. Always reports success.
// @Tags auth
// @Accept json
// @Produce json
// @Param email body service.ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]string "Generic confirmation"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req service.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Same generic answer as for unknown addresses.
		c.JSON(http.StatusOK, gin.H{"message": "If the address is registered, a reset link has been sent"})
		return
	}

	metrics.PasswordResetRequestCounter.Inc()
	if err := h.resetService.Request(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the address is registered, a reset link has been sent"})
}

// ResetPassword handles POST /api/v1/auth/reset-password
// @Summary Redeem a password reset token
// @Description Set a new password using a reset token. Tokens are single-use and expire after one hour.
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body service.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} map[string]string "Password changed"
// @Failure 400 {object} ErrorResponse "Invalid or expired token, or password policy violation"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrInvalidResetToken.Error()})
		return
	}

	if err := h.resetService.Reset(c.Request.Context(), &req); err != nil {
		if errors.Is(err, apperrors.ErrInvalidResetToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
