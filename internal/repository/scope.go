package repository

import (
	"context"
	"time"

	"saas-platform-backend/internal/database/models"
	"saas-platform-backend/internal/tenancy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantOwned is implemented by models whose rows belong to a single tenant
// and must be filtered by the caller's tenant context on every read.
type TenantOwned interface {
	TenantScopeColumn() string
}

// readScope returns the standing predicates applied to every query a
// repository issues: soft-deleted rows are always excluded, and tenant-owned
// models are restricted to the caller's tenant when the context carries one.
// Platform-level callers (no tenant in context) read unrestricted. The scope
// narrows result sets only; it introduces no new error kinds.
func readScope(ctx context.Context, model interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_deleted = ?", false)
		if owned, ok := model.(TenantOwned); ok {
			if tenantID, scoped := tenancy.TenantID(ctx); scoped {
				db = db.Where(owned.TenantScopeColumn()+" = ?", tenantID)
			}
		}
		return db
	}
}

// stampCreate assigns the identifier and creation metadata before an insert.
// CreatedBy stays empty for unauthenticated or system callers.
func stampCreate(ctx context.Context, base *models.BaseModel) {
	now := time.Now().UTC()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	base.CreatedAt = now
	base.UpdatedAt = now
	base.CreatedBy = tenancy.ActorID(ctx)
	base.UpdatedBy = base.CreatedBy
}

// stampUpdate prepares an update column set: it stamps the update metadata
// and strips creation metadata and other immutable columns, so creation
// fields can never be modified after insert regardless of what a caller
// passes in.
func stampUpdate(ctx context.Context, updates map[string]interface{}) map[string]interface{} {
	for _, immutable := range []string{"id", "created_at", "created_by", "tenant_id", "is_deleted", "deleted_at", "deleted_by"} {
		delete(updates, immutable)
	}
	updates["updated_at"] = time.Now().UTC()
	updates["updated_by"] = tenancy.ActorID(ctx)
	return updates
}

// softDelete converts a delete into an update that flips the soft-delete
// flag and stamps the deletion metadata. The physical row is retained.
func softDelete(ctx context.Context, db *gorm.DB, model interface{}, id uuid.UUID) error {
	now := time.Now().UTC()
	actor := tenancy.ActorID(ctx)
	result := db.WithContext(ctx).Model(model).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"deleted_by": actor,
			"updated_at": now,
			"updated_by": actor,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
