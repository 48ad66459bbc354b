package models

import (
	"time"
)

// Tenant represents the root entity for multi-tenancy. The Identifier is a
// lowercase slug unique across the platform and is the value customers use
// in URLs and support requests.
type Tenant struct {
	BaseModel
	Name                  string     `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Identifier            string     `json:"identifier" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	IsActive              bool       `json:"is_active" gorm:"not null;default:true"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`

	// Relationships. Users are never cascade-deleted with their tenant.
	Users []User `json:"users,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}
