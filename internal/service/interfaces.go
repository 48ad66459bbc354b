package service

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// TenantServiceInterface defines the interface for tenant service
type TenantServiceInterface interface {
	Create(ctx context.Context, req *CreateTenantRequest) (*TenantResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error)
	GetByName(ctx context.Context, name string) (*TenantResponse, error)
	GetByIdentifier(ctx context.Context, identifier string) (*TenantResponse, error)
	GetAll(ctx context.Context) ([]TenantResponse, error)
	List(ctx context.Context, page, pageSize int) (*TenantListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateTenantRequest) (*TenantResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IdentifierExists(ctx context.Context, identifier string) (bool, error)
}

// AuthServiceInterface defines the interface for the auth service
type AuthServiceInterface interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*MeResponse, error)
}

// PasswordResetServiceInterface defines the interface for the password
// reset service
type PasswordResetServiceInterface interface {
	Request(ctx context.Context, email string) error
	Reset(ctx context.Context, req *ResetPasswordRequest) error
}
