package cavaauth

import (
	"context"
	"io"

	internalaudit "github.com/thiagomes07/cava-auth/internal/audit"
	"github.com/thiagomes07/cava-auth/routes"
)

// Role identifies one of the four platform surfaces a session can belong to.
//
// Role instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Role string

const (
	// RoleSuperAdmin is an exported constant or variable used by the session engine.
	RoleSuperAdmin Role = routes.RoleSuperAdmin
	// RoleAdminIndustria is an exported constant or variable used by the session engine.
	RoleAdminIndustria Role = routes.RoleAdminIndustria
	// RoleVendedorInterno is an exported constant or variable used by the session engine.
	RoleVendedorInterno Role = routes.RoleVendedorInterno
	// RoleBroker is an exported constant or variable used by the session engine.
	RoleBroker Role = routes.RoleBroker
)

// Known reports whether r is one of the four platform roles.
func (r Role) Known() bool {
	switch r {
	case RoleSuperAdmin, RoleAdminIndustria, RoleVendedorInterno, RoleBroker:
		return true
	default:
		return false
	}
}

// RequiresIndustry reports whether sessions under r are scoped to an industry
// tenant and must carry an industry slug.
func (r Role) RequiresIndustry() bool {
	return r == RoleAdminIndustria || r == RoleVendedorInterno
}

// User is the authenticated identity held by the session store.
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	ID           string `json:"id"`
	Role         Role   `json:"role"`
	IndustrySlug string `json:"industry_slug,omitempty"`
}

// Validate rejects users the store must never accept: unknown roles and
// industry-scoped roles without a tenant slug.
func (u *User) Validate() error {
	if u == nil || u.ID == "" {
		return ErrNotAuthenticated
	}
	if !u.Role.Known() {
		return ErrUnknownRole
	}
	if u.Role.RequiresIndustry() && u.IndustrySlug == "" {
		return ErrIncompleteSession
	}
	return nil
}

// State is a point-in-time snapshot of the session store.
//
// State instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type State struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
}

// Refresher revalidates the ambient session against the authentication
// backend and returns the identity it resolves to.
type Refresher interface {
	Refresh(ctx context.Context) (User, error)
}

// Invalidator tears down the ambient session on the authentication backend.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// AuthClient is the collaborator the session store drives. Implementations
// ship for HTTP endpoints ([HTTPAuthClient]) and for an in-cluster Redis
// session registry ([RedisAuthClient]).
type AuthClient interface {
	Refresher
	Invalidator
}

// AuditEvent is a structured audit record emitted by the session store.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the store's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
