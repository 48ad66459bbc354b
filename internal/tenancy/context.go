// Package tenancy carries the request identity through context.Context so
// that the data-access layer can stamp audit fields and scope reads without
// any ambient global state. The tenant id stored here originates from the
// tenant_id claim of the caller's access token.
package tenancy

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	actorKey contextKey = iota
	tenantKey
)

// WithActor returns a context carrying the acting user's id. An empty actor
// id means an unauthenticated or system caller.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// ActorID returns the acting user's id, or "" when none is set.
func ActorID(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey).(string); ok {
		return v
	}
	return ""
}

// WithTenant returns a context scoped to a tenant. Callers without a tenant
// context (platform-level operations) should not call this.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey, tenantID)
}

// TenantID returns the tenant the request is scoped to. The second return
// value is false for platform-level callers, whose reads are unrestricted.
func TenantID(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(tenantKey).(uuid.UUID)
	if !ok || v == uuid.Nil {
		return uuid.Nil, false
	}
	return v, true
}
