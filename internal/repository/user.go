package repository

import (
	"context"
	"time"

	"saas-platform-backend/internal/database/models"
	"saas-platform-backend/internal/tenancy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	stampCreate(ctx, &user.BaseModel)
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Scopes(readScope(ctx, &user)).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Scopes(readScope(ctx, &user)).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetWithTenant retrieves a user together with its tenant. The preload runs
// its own query, so the soft-delete filter has to be repeated there; a
// deleted tenant leaves the Tenant field nil.
func (r *UserRepository) GetWithTenant(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Scopes(readScope(ctx, &user)).
		Preload("Tenant", "is_deleted = ?", false).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByTenantID retrieves users of a tenant with pagination
func (r *UserRepository) GetByTenantID(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{}).
		Scopes(readScope(ctx, &models.User{})).
		Where("tenant_id = ?", tenantID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at").Limit(limit).Offset(offset).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update applies a whitelisted column set to a user. tenant_id and creation
// metadata are immutable and stripped by the write path.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
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

// RecordFailedLogin increments the failure counter and, once the limit is
// reached, sets the lockout deadline in the same statement.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE WHEN failed_login_attempts + 1 >= ? THEN ? ELSE locked_until END,
		    updated_at = ?
		WHERE id = ? AND is_deleted = FALSE`,
		maxAttempts, now.Add(lockFor), now, id).Error
}

// ResetLoginFailures clears the failure counter and lockout after a
// successful login.
func (r *UserRepository) ResetLoginFailures(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"failed_login_attempts": 0,
			"locked_until":          nil,
			"updated_at":            time.Now().UTC(),
		}).Error
}

// SetResetToken stores a pending password-reset token and its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"reset_token":            token,
			"reset_token_expires_at": expiresAt,
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RedeemResetToken sets the new password hash and clears the stored token in
// one conditional UPDATE. The WHERE clause matches only an unexpired token,
// and the rows-affected check makes redemption single-use even under
// concurrent attempts with the same token.
func (r *UserRepository) RedeemResetToken(ctx context.Context, token, passwordHash string) (bool, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token = ? AND reset_token_expires_at > ? AND is_deleted = ?", token, now, false).
		Updates(map[string]interface{}{
			"password_hash":          passwordHash,
			"reset_token":            nil,
			"reset_token_expires_at": nil,
			"failed_login_attempts":  0,
			"locked_until":           nil,
			"updated_at":             now,
			"updated_by":             tenancy.ActorID(ctx),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
