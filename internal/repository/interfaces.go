package repository

import (
	"context"
	"time"

	"saas-platform-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// TenantRepositoryInterface defines the interface for tenant repository operations
type TenantRepositoryInterface interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	CreateWithOwner(ctx context.Context, tenant *models.Tenant, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByName(ctx context.Context, name string) (*models.Tenant, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Tenant, error)
	GetAll(ctx context.Context) ([]models.Tenant, error)
	GetPaged(ctx context.Context, limit, offset int) ([]models.Tenant, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	IdentifierExists(ctx context.Context, identifier string) (bool, error)
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetWithTenant(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByTenantID(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	RecordFailedLogin(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) error
	ResetLoginFailures(ctx context.Context, id uuid.UUID) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	RedeemResetToken(ctx context.Context, token, passwordHash string) (bool, error)
}
