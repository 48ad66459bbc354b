//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"saas-platform-backend/internal/database/models"
	"saas-platform-backend/internal/tenancy"
	"saas-platform-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UserRepositoryTestSuite tests the UserRepository
type UserRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *UserRepository
	tenantRepo    *TenantRepository
	factories     *testutils.FactorySet
	ctx           context.Context
}

// SetupSuite runs before all tests in the suite
func (suite *UserRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())

	suite.repo = NewUserRepository(suite.baseTestSuite.DB)
	suite.tenantRepo = NewTenantRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
	suite.ctx = context.Background()
}

// TearDownSuite runs after all tests in the suite
func (suite *UserRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *UserRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// createUser persists a tenant and a user belonging to it
func (suite *UserRepositoryTestSuite) createUser() *models.User {
	tenant := suite.factories.Tenant.Create()
	suite.Require().NoError(suite.tenantRepo.Create(suite.ctx, tenant))

	user := suite.factories.User.WithTenant(tenant.ID)
	suite.Require().NoError(suite.repo.Create(suite.ctx, user))
	return user
}

// TestCreateAndGetByEmail tests the basic round trip
func (suite *UserRepositoryTestSuite) TestCreateAndGetByEmail() {
	user := suite.createUser()

	retrieved, err := suite.repo.GetByEmail(suite.ctx, user.Email)

	suite.NoError(err)
	suite.Equal(user.ID, retrieved.ID)
	suite.Equal(user.TenantID, retrieved.TenantID)
}

// TestTenantScoping tests that a tenant-scoped context never sees another
// tenant's users, while platform-level reads are unrestricted
func (suite *UserRepositoryTestSuite) TestTenantScoping() {
	userA := suite.createUser()
	userB := suite.createUser()

	scopedToA := tenancy.WithTenant(suite.ctx, userA.TenantID)

	// Own rows are visible.
	retrieved, err := suite.repo.GetByID(scopedToA, userA.ID)
	suite.NoError(err)
	suite.Equal(userA.ID, retrieved.ID)

	// Another tenant's rows are indistinguishable from missing ones.
	_, err = suite.repo.GetByID(scopedToA, userB.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = suite.repo.GetByEmail(scopedToA, userB.Email)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	// Platform-level context reads across tenants.
	retrieved, err = suite.repo.GetByID(suite.ctx, userB.ID)
	suite.NoError(err)
	suite.Equal(userB.ID, retrieved.ID)
}

// TestGetWithTenant tests preloading the owning tenant
func (suite *UserRepositoryTestSuite) TestGetWithTenant() {
	user := suite.createUser()

	retrieved, err := suite.repo.GetWithTenant(suite.ctx, user.ID)

	suite.NoError(err)
	suite.Require().NotNil(retrieved.Tenant)
	suite.Equal(user.TenantID, retrieved.Tenant.ID)
}

// TestGetWithTenantExcludesDeletedTenant tests that the preload applies the
// soft-delete filter; a user of a deleted tenant comes back without one
func (suite *UserRepositoryTestSuite) TestGetWithTenantExcludesDeletedTenant() {
	user := suite.createUser()
	suite.Require().NoError(suite.tenantRepo.Delete(suite.ctx, user.TenantID))

	retrieved, err := suite.repo.GetWithTenant(suite.ctx, user.ID)

	suite.NoError(err)
	suite.Equal(user.ID, retrieved.ID)
	suite.Nil(retrieved.Tenant)
}

// TestGetByTenantID tests the per-tenant listing
func (suite *UserRepositoryTestSuite) TestGetByTenantID() {
	tenant := suite.factories.Tenant.Create()
	suite.Require().NoError(suite.tenantRepo.Create(suite.ctx, tenant))
	for i := 0; i < 3; i++ {
		suite.Require().NoError(suite.repo.Create(suite.ctx, suite.factories.User.WithTenant(tenant.ID)))
	}
	other := suite.createUser()

	users, total, err := suite.repo.GetByTenantID(suite.ctx, tenant.ID, 10, 0)

	suite.NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(users, 3)
	for _, u := range users {
		suite.NotEqual(other.ID, u.ID)
	}
}

// TestUpdateStripsTenantID tests that a user cannot be moved between tenants
// through the update path
func (suite *UserRepositoryTestSuite) TestUpdateStripsTenantID() {
	user := suite.createUser()
	originalTenant := user.TenantID

	err := suite.repo.Update(suite.ctx, user.ID, map[string]interface{}{
		"first_name": "Renamed",
		"tenant_id":  uuid.New(),
	})
	suite.NoError(err)

	retrieved, err := suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal("Renamed", retrieved.FirstName)
	suite.Equal(originalTenant, retrieved.TenantID)
}

// TestRecordFailedLogin tests the failure counter and lockout threshold
func (suite *UserRepositoryTestSuite) TestRecordFailedLogin() {
	user := suite.createUser()

	for i := 0; i < 4; i++ {
		suite.NoError(suite.repo.RecordFailedLogin(suite.ctx, user.ID, 5, 5*time.Minute))
	}

	retrieved, err := suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal(4, retrieved.FailedLoginAttempts)
	suite.Nil(retrieved.LockedUntil)

	// The fifth failure locks the account.
	suite.NoError(suite.repo.RecordFailedLogin(suite.ctx, user.ID, 5, 5*time.Minute))

	retrieved, err = suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal(5, retrieved.FailedLoginAttempts)
	suite.Require().NotNil(retrieved.LockedUntil)
	suite.True(retrieved.LockedUntil.After(time.Now()))
}

// TestResetLoginFailures tests clearing the counters
func (suite *UserRepositoryTestSuite) TestResetLoginFailures() {
	user := suite.createUser()
	for i := 0; i < 5; i++ {
		suite.NoError(suite.repo.RecordFailedLogin(suite.ctx, user.ID, 5, 5*time.Minute))
	}

	suite.NoError(suite.repo.ResetLoginFailures(suite.ctx, user.ID))

	retrieved, err := suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal(0, retrieved.FailedLoginAttempts)
	suite.Nil(retrieved.LockedUntil)
}

// TestRedeemResetToken tests that a reset token is accepted exactly once
func (suite *UserRepositoryTestSuite) TestRedeemResetToken() {
	user := suite.createUser()
	expiresAt := time.Now().UTC().Add(time.Hour)
	suite.Require().NoError(suite.repo.SetResetToken(suite.ctx, user.ID, "the-token", expiresAt))

	ok, err := suite.repo.RedeemResetToken(suite.ctx, "the-token", "new-hash")
	suite.NoError(err)
	suite.True(ok)

	retrieved, err := suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal("new-hash", retrieved.PasswordHash)
	suite.Nil(retrieved.ResetToken)
	suite.Nil(retrieved.ResetTokenExpiresAt)

	// The token was consumed by the first redemption.
	ok, err = suite.repo.RedeemResetToken(suite.ctx, "the-token", "another-hash")
	suite.NoError(err)
	suite.False(ok)
}

// TestRedeemExpiredResetToken tests that an expired token is never accepted
func (suite *UserRepositoryTestSuite) TestRedeemExpiredResetToken() {
	user := suite.createUser()
	expiresAt := time.Now().UTC().Add(-time.Minute)
	suite.Require().NoError(suite.repo.SetResetToken(suite.ctx, user.ID, "stale-token", expiresAt))

	ok, err := suite.repo.RedeemResetToken(suite.ctx, "stale-token", "new-hash")
	suite.NoError(err)
	suite.False(ok)

	retrieved, err := suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.NotEqual("new-hash", retrieved.PasswordHash)
}

// TestRedeemResetTokenClearsLockout tests that a successful reset also
// clears the failure counters
func (suite *UserRepositoryTestSuite) TestRedeemResetTokenClearsLockout() {
	user := suite.createUser()
	for i := 0; i < 5; i++ {
		suite.NoError(suite.repo.RecordFailedLogin(suite.ctx, user.ID, 5, 5*time.Minute))
	}
	suite.Require().NoError(suite.repo.SetResetToken(suite.ctx, user.ID, "the-token", time.Now().UTC().Add(time.Hour)))

	ok, err := suite.repo.RedeemResetToken(suite.ctx, "the-token", "new-hash")
	suite.NoError(err)
	suite.True(ok)

	retrieved, err := suite.repo.GetByID(suite.ctx, user.ID)
	suite.NoError(err)
	suite.Equal(0, retrieved.FailedLoginAttempts)
	suite.Nil(retrieved.LockedUntil)
}

// TestSoftDeletedUserInvisible tests that soft-deleted users vanish from
// every read path, including token redemption
func (suite *UserRepositoryTestSuite) TestSoftDeletedUserInvisible() {
	user := suite.createUser()
	suite.Require().NoError(suite.repo.SetResetToken(suite.ctx, user.ID, "the-token", time.Now().UTC().Add(time.Hour)))

	err := softDelete(suite.ctx, suite.baseTestSuite.DB, &models.User{}, user.ID)
	suite.NoError(err)

	_, err = suite.repo.GetByEmail(suite.ctx, user.Email)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	ok, err := suite.repo.RedeemResetToken(suite.ctx, "the-token", "new-hash")
	suite.NoError(err)
	suite.False(ok)
}

// TestUserRepositoryTestSuite runs the test suite
func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
