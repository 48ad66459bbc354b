package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"saas-platform-backend/internal/database/models"
	apperrors "saas-platform-backend/internal/errors"
	"saas-platform-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantService handles business logic for tenants
type TenantService struct {
	repo      repository.TenantRepositoryInterface
	validator *validator.Validate
}

// NewTenantService creates a new tenant service
func NewTenantService(repo repository.TenantRepositoryInterface, validator *validator.Validate) *TenantService {
	return &TenantService{
		repo:      repo,
		validator: validator,
	}
}

// CreateTenantRequest represents the request to create a tenant
type CreateTenantRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Identifier string `json:"identifier" validate:"required,min=1,max=100"`
}

// UpdateTenantRequest represents the request to update a tenant. Only the
// listed fields can change; the identifier is immutable.
type UpdateTenantRequest struct {
	Name                  string     `json:"name" validate:"required,min=1,max=100"`
	IsActive              bool       `json:"isActive"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`
}

// TenantResponse represents the response for tenant operations
type TenantResponse struct {
	ID                    uuid.UUID  `json:"id"`
	Name                  string     `json:"name"`
	Identifier            string     `json:"identifier"`
	IsActive              bool       `json:"isActive"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`
	CreatedAt             string     `json:"createdAt"`
	UpdatedAt             string     `json:"updatedAt"`
}

// TenantListResponse represents a paginated list of tenants
type TenantListResponse struct {
	Tenants  []TenantResponse `json:"tenants"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// Create creates a new tenant. The identifier is normalized to lowercase
// before the uniqueness check, so collisions are case-insensitive.
func (s *TenantService) Create(ctx context.Context, req *CreateTenantRequest) (*TenantResponse, error) {
	req.Identifier = strings.ToLower(strings.TrimSpace(req.Identifier))
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	exists, err := s.repo.IdentifierExists(ctx, req.Identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing tenant identifier: %w", err)
	}
	if exists {
		return nil, apperrors.ErrTenantIdentifierExists
	}

	tenant := &models.Tenant{
		Name:       req.Name,
		Identifier: req.Identifier,
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return s.toResponse(tenant), nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return s.toResponse(tenant), nil
}

// GetByName retrieves a tenant by name
func (s *TenantService) GetByName(ctx context.Context, name string) (*TenantResponse, error) {
	tenant, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return s.toResponse(tenant), nil
}

// GetByIdentifier retrieves a tenant by its identifier slug
func (s *TenantService) GetByIdentifier(ctx context.Context, identifier string) (*TenantResponse, error) {
	tenant, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return s.toResponse(tenant), nil
}

// GetAll retrieves all tenants without pagination
func (s *TenantService) GetAll(ctx context.Context) ([]TenantResponse, error) {
	tenants, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	responses := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		responses = append(responses, *s.toResponse(&tenants[i]))
	}
	return responses, nil
}

// List retrieves tenants with pagination. Page defaults to 1; a page size
// above 100 is clamped to 100, one below 1 falls back to the default of 10.
func (s *TenantService) List(ctx context.Context, page, pageSize int) (*TenantListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}
	if pageSize < 1 {
		pageSize = 10
	}

	offset := (page - 1) * pageSize
	tenants, total, err := s.repo.GetPaged(ctx, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	responses := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		responses = append(responses, *s.toResponse(&tenants[i]))
	}

	return &TenantListResponse{
		Tenants:  responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates the whitelisted tenant fields
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, req *UpdateTenantRequest) (*TenantResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	updates := map[string]interface{}{
		"name":                    req.Name,
		"is_active":               req.IsActive,
		"subscription_expires_at": req.SubscriptionExpiresAt,
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete soft-deletes a tenant
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTenantNotFound
		}
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}

// IdentifierExists reports whether a tenant identifier is already taken,
// case-insensitively
func (s *TenantService) IdentifierExists(ctx context.Context, identifier string) (bool, error) {
	exists, err := s.repo.IdentifierExists(ctx, identifier)
	if err != nil {
		return false, fmt.Errorf("failed to check tenant identifier: %w", err)
	}
	return exists, nil
}

func (s *TenantService) toResponse(tenant *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:                    tenant.ID,
		Name:                  tenant.Name,
		Identifier:            tenant.Identifier,
		IsActive:              tenant.IsActive,
		SubscriptionExpiresAt: tenant.SubscriptionExpiresAt,
		CreatedAt:             tenant.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             tenant.UpdatedAt.Format(time.RFC3339),
	}
}
