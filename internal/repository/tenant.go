package repository

import (
	"context"
	"strings"

	"saas-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantRepository handles database operations for tenants
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	stampCreate(ctx, &tenant.BaseModel)
	return r.db.WithContext(ctx).Create(tenant).Error
}

// CreateWithOwner creates a tenant and its first user in one transaction.
// If the user insert fails the tenant insert is rolled back, so a failed
// registration never leaves an orphaned tenant behind.
func (r *TenantRepository) CreateWithOwner(ctx context.Context, tenant *models.Tenant, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stampCreate(ctx, &tenant.BaseModel)
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		user.TenantID = tenant.ID
		stampCreate(ctx, &user.BaseModel)
		return tx.Create(user).Error
	})
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Scopes(readScope(ctx, &tenant)).First(&tenant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByName retrieves a tenant by name
func (r *TenantRepository) GetByName(ctx context.Context, name string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Scopes(readScope(ctx, &tenant)).First(&tenant, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByIdentifier retrieves a tenant by its identifier slug. Identifiers are
// stored lowercase; the lookup is case-insensitive.
func (r *TenantRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Scopes(readScope(ctx, &tenant)).
		First(&tenant, "identifier = ?", strings.ToLower(identifier)).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetAll retrieves all tenants
func (r *TenantRepository) GetAll(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.WithContext(ctx).Scopes(readScope(ctx, &models.Tenant{})).
		Order("created_at").Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// GetPaged retrieves tenants with pagination
func (r *TenantRepository) GetPaged(ctx context.Context, limit, offset int) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	// Get total count
	if err := r.db.WithContext(ctx).Model(&models.Tenant{}).
		Scopes(readScope(ctx, &models.Tenant{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	err := r.db.WithContext(ctx).Scopes(readScope(ctx, &models.Tenant{})).
		Order("created_at").Limit(limit).Offset(offset).Find(&tenants).Error
	if err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// Update applies a whitelisted column set to a tenant. Creation metadata is
// stripped by the write path and cannot be modified here.
func (r *TenantRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Tenant{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(stampUpdate(ctx, updates))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes a tenant
func (r *TenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return softDelete(ctx, r.db, &models.Tenant{}, id)
}

// IdentifierExists reports whether a live tenant already uses the identifier,
// case-insensitively.
func (r *TenantRepository) IdentifierExists(ctx context.Context, identifier string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tenant{}).
		Scopes(readScope(ctx, &models.Tenant{})).
		Where("identifier = ?", strings.ToLower(identifier)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
