//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"

	"saas-platform-backend/internal/tenancy"
	"saas-platform-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// TenantRepositoryTestSuite tests the TenantRepository
type TenantRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *TenantRepository
	userRepo      *UserRepository
	factories     *testutils.FactorySet
	ctx           context.Context
}

// SetupSuite runs before all tests in the suite
func (suite *TenantRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())

	suite.repo = NewTenantRepository(suite.baseTestSuite.DB)
	suite.userRepo = NewUserRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
	suite.ctx = context.Background()
}

// TearDownSuite runs after all tests in the suite
func (suite *TenantRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *TenantRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *TenantRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestCreate tests creating a tenant
func (suite *TenantRepositoryTestSuite) TestCreate() {
	tenant := suite.factories.Tenant.Create()

	err := suite.repo.Create(suite.ctx, tenant)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, tenant.ID)
	suite.NotZero(tenant.CreatedAt)
	suite.NotZero(tenant.UpdatedAt)
	suite.False(tenant.IsDeleted)
}

// TestCreateStampsActor tests that the acting user is recorded on insert
func (suite *TenantRepositoryTestSuite) TestCreateStampsActor() {
	actorID := uuid.NewString()
	ctx := tenancy.WithActor(suite.ctx, actorID)

	tenant := suite.factories.Tenant.Create()
	err := suite.repo.Create(ctx, tenant)

	suite.NoError(err)
	suite.Equal(actorID, tenant.CreatedBy)
	suite.Equal(actorID, tenant.UpdatedBy)
}

// TestCreateWithOwner tests the atomic tenant+user registration write
func (suite *TenantRepositoryTestSuite) TestCreateWithOwner() {
	tenant := suite.factories.Tenant.Create()
	user := suite.factories.User.Create()

	err := suite.repo.CreateWithOwner(suite.ctx, tenant, user)

	suite.NoError(err)
	suite.Equal(tenant.ID, user.TenantID)

	retrieved, err := suite.userRepo.GetByEmail(suite.ctx, user.Email)
	suite.NoError(err)
	suite.Equal(tenant.ID, retrieved.TenantID)
}

// TestCreateWithOwnerRollsBack tests that a failing user insert leaves no
// orphaned tenant behind
func (suite *TenantRepositoryTestSuite) TestCreateWithOwnerRollsBack() {
	existing := suite.factories.User.Create()
	existingTenant := suite.factories.Tenant.Create()
	suite.NoError(suite.repo.CreateWithOwner(suite.ctx, existingTenant, existing))

	tenant := suite.factories.Tenant.Create()
	user := suite.factories.User.WithEmail(existing.Email) // duplicate email

	err := suite.repo.CreateWithOwner(suite.ctx, tenant, user)
	suite.Error(err)

	_, err = suite.repo.GetByIdentifier(suite.ctx, tenant.Identifier)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestGetByID tests retrieving a tenant by ID
func (suite *TenantRepositoryTestSuite) TestGetByID() {
	tenant := suite.factories.Tenant.Create()
	suite.NoError(suite.repo.Create(suite.ctx, tenant))

	retrieved, err := suite.repo.GetByID(suite.ctx, tenant.ID)

	suite.NoError(err)
	suite.Equal(tenant.ID, retrieved.ID)
	suite.Equal(tenant.Identifier, retrieved.Identifier)
}

// TestGetByIDNotFound tests retrieving a non-existent tenant
func (suite *TenantRepositoryTestSuite) TestGetByIDNotFound() {
	_, err := suite.repo.GetByID(suite.ctx, uuid.New())
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestGetByIdentifierCaseInsensitive tests the case-insensitive identifier
// lookup
func (suite *TenantRepositoryTestSuite) TestGetByIdentifierCaseInsensitive() {
	tenant := suite.factories.Tenant.WithIdentifier("acme")
	suite.NoError(suite.repo.Create(suite.ctx, tenant))

	retrieved, err := suite.repo.GetByIdentifier(suite.ctx, "ACME")

	suite.NoError(err)
	suite.Equal(tenant.ID, retrieved.ID)
}

// TestIdentifierExists tests the availability check
func (suite *TenantRepositoryTestSuite) TestIdentifierExists() {
	tenant := suite.factories.Tenant.WithIdentifier("acme")
	suite.NoError(suite.repo.Create(suite.ctx, tenant))

	exists, err := suite.repo.IdentifierExists(suite.ctx, "AcMe")
	suite.NoError(err)
	suite.True(exists)

	exists, err = suite.repo.IdentifierExists(suite.ctx, "other")
	suite.NoError(err)
	suite.False(exists)
}

// TestUpdate tests applying a column set
func (suite *TenantRepositoryTestSuite) TestUpdate() {
	tenant := suite.factories.Tenant.Create()
	suite.NoError(suite.repo.Create(suite.ctx, tenant))

	actorID := uuid.NewString()
	ctx := tenancy.WithActor(suite.ctx, actorID)

	err := suite.repo.Update(ctx, tenant.ID, map[string]interface{}{
		"name":      "Renamed",
		"is_active": false,
	})
	suite.NoError(err)

	retrieved, err := suite.repo.GetByID(suite.ctx, tenant.ID)
	suite.NoError(err)
	suite.Equal("Renamed", retrieved.Name)
	suite.False(retrieved.IsActive)
	suite.Equal(actorID, retrieved.UpdatedBy)
}

// TestUpdateStripsImmutableColumns tests that creation metadata cannot be
// overwritten through the update path
func (suite *TenantRepositoryTestSuite) TestUpdateStripsImmutableColumns() {
	ctx := tenancy.WithActor(suite.ctx, "creator")
	tenant := suite.factories.Tenant.Create()
	suite.NoError(suite.repo.Create(ctx, tenant))

	err := suite.repo.Update(suite.ctx, tenant.ID, map[string]interface{}{
		"name":       "Renamed",
		"created_by": "forged",
		"is_deleted": true,
	})
	suite.NoError(err)

	retrieved, err := suite.repo.GetByID(suite.ctx, tenant.ID)
	suite.NoError(err)
	suite.Equal("Renamed", retrieved.Name)
	suite.Equal("creator", retrieved.CreatedBy)
	suite.False(retrieved.IsDeleted)
}

// TestUpdateNotFound tests updating a missing tenant
func (suite *TenantRepositoryTestSuite) TestUpdateNotFound() {
	err := suite.repo.Update(suite.ctx, uuid.New(), map[string]interface{}{"name": "x"})
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// TestDelete tests that deletion is a soft delete invisible to reads
func (suite *TenantRepositoryTestSuite) TestDelete() {
	actorID := uuid.NewString()
	ctx := tenancy.WithActor(suite.ctx, actorID)

	tenant := suite.factories.Tenant.WithIdentifier("doomed")
	suite.NoError(suite.repo.Create(suite.ctx, tenant))

	suite.NoError(suite.repo.Delete(ctx, tenant.ID))

	// Reads no longer see the row.
	_, err := suite.repo.GetByID(suite.ctx, tenant.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	exists, err := suite.repo.IdentifierExists(suite.ctx, "doomed")
	suite.NoError(err)
	suite.False(exists)

	// The physical row is retained with deletion metadata.
	var raw struct {
		IsDeleted bool
		DeletedBy string
	}
	err = suite.baseTestSuite.DB.Table("tenants").
		Select("is_deleted, deleted_by").
		Where("id = ?", tenant.ID).
		Scan(&raw).Error
	suite.NoError(err)
	suite.True(raw.IsDeleted)
	suite.Equal(actorID, raw.DeletedBy)
}

// TestDeleteTwice tests that a second delete reports not found
func (suite *TenantRepositoryTestSuite) TestDeleteTwice() {
	tenant := suite.factories.Tenant.Create()
	suite.NoError(suite.repo.Create(suite.ctx, tenant))

	suite.NoError(suite.repo.Delete(suite.ctx, tenant.ID))
	suite.ErrorIs(suite.repo.Delete(suite.ctx, tenant.ID), gorm.ErrRecordNotFound)
}

// TestGetPaged tests pagination
func (suite *TenantRepositoryTestSuite) TestGetPaged() {
	for i := 0; i < 5; i++ {
		suite.NoError(suite.repo.Create(suite.ctx, suite.factories.Tenant.Create()))
	}

	tenants, total, err := suite.repo.GetPaged(suite.ctx, 2, 2)

	suite.NoError(err)
	suite.Equal(int64(5), total)
	suite.Len(tenants, 2)
}

// TestTenantRepositoryTestSuite runs the test suite
func TestTenantRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRepositoryTestSuite))
}
