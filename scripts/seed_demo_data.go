package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"saas-platform-backend/internal/config"
	"saas-platform-backend/internal/database"
	"saas-platform-backend/internal/database/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Simple structures that directly match the YAML fixtures
type TenantData struct {
	Name                  string     `yaml:"name"`
	Identifier            string     `yaml:"identifier"`
	IsActive              *bool      `yaml:"is_active,omitempty"`
	SubscriptionExpiresAt *time.Time `yaml:"subscription_expires_at,omitempty"`
}

type UserData struct {
	TenantIdentifier string `yaml:"tenant_identifier"`
	Email            string `yaml:"email"`
	Password         string `yaml:"password"`
	FirstName        string `yaml:"first_name"`
	LastName         string `yaml:"last_name"`
}

type TenantsFile struct {
	Tenants []TenantData `yaml:"tenants"`
}

type UsersFile struct {
	Users []UserData `yaml:"users"`
}

func main() {
	log.Println("Loading demo data from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect with retry so the script works against a dockerized Postgres
	// that is still starting up.
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := loadDataFromYAMLFiles(db, "scripts/data"); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Demo data loaded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string) error {
	tenants, err := loadTenants(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load tenants: %w", err)
	}

	users, err := loadUsers(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	tenantMap := make(map[string]*models.Tenant)
	tenantsCreated := 0
	for _, tenantData := range tenants {
		tenant, created, err := createTenant(db, tenantData)
		if err != nil {
			return fmt.Errorf("failed to create tenant %s: %w", tenantData.Identifier, err)
		}
		tenantMap[tenant.Identifier] = tenant
		if created {
			tenantsCreated++
		}
	}
	log.Printf("Tenants: %d created, %d total", tenantsCreated, len(tenants))

	usersCreated := 0
	for _, userData := range users {
		_, created, err := createUser(db, userData, tenantMap)
		if err != nil {
			log.Printf("Warning: failed to create user %s: %v", userData.Email, err)
			continue
		}
		if created {
			usersCreated++
		}
	}
	log.Printf("Users: %d created, %d total", usersCreated, len(users))

	return nil
}

func loadTenants(dataDir string) ([]TenantData, error) {
	var allTenants []TenantData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "tenants") {
			var file TenantsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allTenants = append(allTenants, file.Tenants...)
		}
		return nil
	})

	return allTenants, err
}

func loadUsers(dataDir string) ([]UserData, error) {
	var allUsers []UserData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "users") {
			var file UsersFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allUsers = append(allUsers, file.Users...)
		}
		return nil
	})

	return allUsers, err
}

func createTenant(db *gorm.DB, tenantData TenantData) (*models.Tenant, bool, error) {
	identifier := strings.ToLower(strings.TrimSpace(tenantData.Identifier))

	var tenant models.Tenant
	if err := db.Where("identifier = ?", identifier).First(&tenant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			isActive := true
			if tenantData.IsActive != nil {
				isActive = *tenantData.IsActive
			}

			tenant = models.Tenant{
				Name:                  tenantData.Name,
				Identifier:            identifier,
				IsActive:              isActive,
				SubscriptionExpiresAt: tenantData.SubscriptionExpiresAt,
			}

			if err := db.Create(&tenant).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create tenant: %w", err)
			}
			return &tenant, true, nil
		}
		return nil, false, fmt.Errorf("failed to query tenant: %w", err)
	}

	return &tenant, false, nil
}

func createUser(db *gorm.DB, userData UserData, tenantMap map[string]*models.Tenant) (*models.User, bool, error) {
	tenant := tenantMap[strings.ToLower(userData.TenantIdentifier)]
	if tenant == nil {
		return nil, false, fmt.Errorf("tenant %s not found for user %s", userData.TenantIdentifier, userData.Email)
	}

	email := strings.ToLower(strings.TrimSpace(userData.Email))

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			hash, err := bcrypt.GenerateFromPassword([]byte(userData.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, false, fmt.Errorf("failed to hash password: %w", err)
			}

			user = models.User{
				TenantID:     tenant.ID,
				Email:        email,
				PasswordHash: string(hash),
				FirstName:    userData.FirstName,
				LastName:     userData.LastName,
			}

			if err := db.Create(&user).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create user: %w", err)
			}
			return &user, true, nil
		}
		return nil, false, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, false, nil
}
