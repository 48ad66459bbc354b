package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that belongs to exactly one tenant. TenantID is
// assigned at registration and immutable afterwards.
type User struct {
	BaseModel
	TenantID  uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index" validate:"required"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	// Bcrypt hash, never serialized.
	PasswordHash string `json:"-" gorm:"not null;size:255"`
	FirstName    string `json:"first_name" gorm:"not null;size:100" validate:"required,max=100"`
	LastName     string `json:"last_name" gorm:"not null;size:100" validate:"required,max=100"`

	// Lockout bookkeeping for the login policy.
	FailedLoginAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil         *time.Time `json:"-"`

	// Pending password-reset token, single use.
	ResetToken          *string    `json:"-" gorm:"index;size:64"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// TenantScopeColumn marks User as a tenant-owned model for the read filter.
func (User) TenantScopeColumn() string {
	return "tenant_id"
}

// FullName returns the display name used in token claims.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
