package handlers

import (
	"net/http"
	"strconv"

	"saas-platform-backend/internal/metrics"
	"saas-platform-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler handles HTTP requests for tenants
type TenantHandler struct {
	service     service.TenantServiceInterface
	development bool
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(service service.TenantServiceInterface, development bool) *TenantHandler {
	return &TenantHandler{service: service, development: development}
}

// CreateTenant handles POST /api/v1/tenants
// @Summary Create a new tenant
// @Description Create a new tenant with the provided name and identifier
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body service.CreateTenantRequest true "Tenant data"
// @Success 201 {object} service.TenantResponse "Successfully created tenant"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 409 {object} ErrorResponse "Identifier already taken"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req service.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	metrics.RecordTenantOperation("create")
	tenant, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusCreated, tenant)
}

// GetTenant handles GET /api/v1/tenants/:id
// @Summary Get tenant by ID
// @Description Get a specific tenant by its UUID
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID (UUID)"
// @Success 200 {object} service.TenantResponse "Successfully retrieved tenant"
// @Failure 400 {object} ErrorResponse "Invalid tenant ID"
// @Failure 404 {object} ErrorResponse "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID: invalid UUID format"})
		return
	}

	metrics.RecordTenantOperation("get")
	tenant, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// GetTenantByIdentifier handles GET /api/v1/tenants/by-identifier/:identifier
// @Summary Get tenant by identifier
// @Description Get a specific tenant by its identifier slug (case-insensitive)
// @Tags tenants
// @Produce json
// @Param identifier path string true "Tenant identifier"
// @Success 200 {object} service.TenantResponse "Successfully retrieved tenant"
// @Failure 404 {object} ErrorResponse "Tenant not found"
// @Security BearerAuth
// @Router /tenants/by-identifier/{identifier} [get]
func (h *TenantHandler) GetTenantByIdentifier(c *gin.Context) {
	identifier := c.Param("identifier")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant identifier is required"})
		return
	}

	tenant, err := h.service.GetByIdentifier(c.Request.Context(), identifier)
	if err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// ListTenants handles GET /api/v1/tenants
// @Summary List tenants
// @Description Get a paginated list of tenants
// @Tags tenants
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(10)
// @Success 200 {object} service.TenantListResponse "Paginated tenant list"
// @Security BearerAuth
// @Router /tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	metrics.RecordTenantOperation("list")
	resp, err := h.service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateTenant handles PUT /api/v1/tenants/:id
// @Summary Update a tenant
// @Description Update a tenant's name, active flag and subscription expiry
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID (UUID)"
// @Param tenant body service.UpdateTenantRequest true "Tenant data"
// @Success 200 {object} service.TenantResponse "Successfully updated tenant"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 404 {object} ErrorResponse "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID: invalid UUID format"})
		return
	}

	var req service.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	metrics.RecordTenantOperation("update")
	tenant, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// DeleteTenant handles DELETE /api/v1/tenants/:id
// @Summary Delete a tenant
// @Description Soft-delete a tenant; its users are retained
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID (UUID)"
// @Success 204 "Tenant deleted"
// @Failure 404 {object} ErrorResponse "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID: invalid UUID format"})
		return
	}

	metrics.RecordTenantOperation("delete")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, h.development)
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckIdentifier handles GET /api/v1/tenants/identifier-available
// @Summary Check identifier availability
// @Description Report whether a tenant identifier is still available (case-insensitive)
// @Tags tenants
// @Produce json
// @Param identifier query string true "Identifier to check"
// @Success 200 {object} map[string]bool "Availability flag"
// @Failure 400 {object} ErrorResponse "Missing identifier"
// @Security BearerAuth
// @Router /tenants/identifier-available [get]
func (h *TenantHandler) CheckIdentifier(c *gin.Context) {
	identifier := c.Query("identifier")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier query parameter is required"})
		return
	}

	exists, err := h.service.IdentifierExists(c.Request.Context(), identifier)
	if err != nil {
		respondError(c, err, h.development)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": !exists})
}
