package testutils

import (
	"fmt"
	"time"

	"saas-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TenantFactory provides methods to create test Tenant data
type TenantFactory struct{}

// NewTenantFactory creates a new TenantFactory
func NewTenantFactory() *TenantFactory {
	return &TenantFactory{}
}

// Create creates a test Tenant with default values
func (f *TenantFactory) Create() *models.Tenant {
	id := uuid.New()
	return &models.Tenant{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:       "Test Tenant",
		Identifier: "test-tenant-" + id.String()[:8],
		IsActive:   true,
	}
}

// WithName sets a custom name for the tenant
func (f *TenantFactory) WithName(name string) *models.Tenant {
	tenant := f.Create()
	tenant.Name = name
	return tenant
}

// WithIdentifier sets a custom identifier for the tenant
func (f *TenantFactory) WithIdentifier(identifier string) *models.Tenant {
	tenant := f.Create()
	tenant.Identifier = identifier
	return tenant
}

// Inactive creates a deactivated tenant
func (f *TenantFactory) Inactive() *models.Tenant {
	tenant := f.Create()
	tenant.IsActive = false
	return tenant
}

// WithSubscriptionExpiry sets the subscription expiry for the tenant
func (f *TenantFactory) WithSubscriptionExpiry(at time.Time) *models.Tenant {
	tenant := f.Create()
	tenant.SubscriptionExpiresAt = &at
	return tenant
}

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// DefaultPassword is the plaintext behind every factory-made password hash.
const DefaultPassword = "correct-horse-battery"

// Create creates a test User with default values
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TenantID:     uuid.New(),
		Email:        fmt.Sprintf("user-%s@test.com", id.String()[:8]),
		PasswordHash: string(hash),
		FirstName:    "Jane",
		LastName:     "Doe",
	}
}

// WithTenant sets the tenant ID for the user
func (f *UserFactory) WithTenant(tenantID uuid.UUID) *models.User {
	user := f.Create()
	user.TenantID = tenantID
	return user
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// Locked creates a user whose account is currently locked
func (f *UserFactory) Locked(until time.Time) *models.User {
	user := f.Create()
	user.FailedLoginAttempts = 5
	user.LockedUntil = &until
	return user
}

// WithResetToken sets a pending password-reset token on the user
func (f *UserFactory) WithResetToken(token string, expiresAt time.Time) *models.User {
	user := f.Create()
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiresAt
	return user
}

// FactorySet provides access to all factories
type FactorySet struct {
	Tenant *TenantFactory
	User   *UserFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Tenant: NewTenantFactory(),
		User:   NewUserFactory(),
	}
}

// CreateTenantWithUser creates a tenant and a user belonging to it
func (fs *FactorySet) CreateTenantWithUser() (*models.Tenant, *models.User) {
	tenant := fs.Tenant.Create()
	user := fs.User.WithTenant(tenant.ID)
	return tenant, user
}
