package routes

import (
	"errors"
	"strings"
	"sync"
)

// Canonical role names as stored in the user_role cookie and session records.
const (
	RoleSuperAdmin      = "SUPER_ADMIN"
	RoleAdminIndustria  = "ADMIN_INDUSTRIA"
	RoleVendedorInterno = "VENDEDOR_INTERNO"
	RoleBroker          = "BROKER"
)

// Route targets issued by redirect decisions.
const (
	PathLanding   = "/landing"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathAdmin     = "/admin"
)

// Matrix maps a role to the ordered set of route prefixes it may reach.
//
// Matrix instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Matrix struct {
	mu       sync.RWMutex
	prefixes map[string][]string
	frozen   bool
}

// NewMatrix returns an empty, unfrozen permission matrix.
func NewMatrix() *Matrix {
	return &Matrix{
		prefixes: make(map[string][]string),
	}
}

// RegisterRole assigns the accessible route prefixes for a role. Prefixes must
// be rooted ("/dashboard") and the role must not already be registered.
func (m *Matrix) RegisterRole(role string, prefixes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frozen {
		return errors.New("matrix frozen")
	}
	if role == "" {
		return errors.New("role name empty")
	}
	if _, exists := m.prefixes[role]; exists {
		return errors.New("role already registered: " + role)
	}
	if len(prefixes) == 0 {
		return errors.New("role has no route prefixes: " + role)
	}

	owned := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if !strings.HasPrefix(p, "/") || p == "/" {
			return errors.New("invalid route prefix: " + p)
		}
		owned = append(owned, strings.TrimSuffix(p, "/"))
	}

	m.prefixes[role] = owned
	return nil
}

// Freeze seals the matrix. Registration after Freeze fails.
func (m *Matrix) Freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frozen = true
}

// CanAccess reports whether role may reach path. A path is authorized iff it
// equals one of the role's prefixes or is nested under one with a "/"
// separator. Unknown roles get no routes.
func (m *Matrix) CanAccess(role, path string) bool {
	m.mu.RLock()
	prefixes, ok := m.prefixes[role]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Prefixes returns a copy of the prefix set registered for role.
func (m *Matrix) Prefixes(role string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src, ok := m.prefixes[role]
	if !ok {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// DefaultRouteFor returns the surface a role lands on after authentication.
// It is total: unknown roles resolve to the login path.
func DefaultRouteFor(role string) string {
	switch role {
	case RoleSuperAdmin:
		return PathAdmin
	case RoleAdminIndustria, RoleVendedorInterno, RoleBroker:
		return PathDashboard
	default:
		return PathLogin
	}
}

// StripTenant removes a leading "/{slug}" segment from path when slug is
// non-empty and actually present. Guards use it so tenant-scoped paths check
// against the tenant-neutral matrix prefixes.
func StripTenant(path, slug string) string {
	if slug == "" {
		return path
	}
	prefix := "/" + slug
	if path == prefix {
		return "/"
	}
	if strings.HasPrefix(path, prefix+"/") {
		return path[len(prefix):]
	}
	return path
}

var (
	defaultOnce   sync.Once
	defaultMatrix *Matrix
)

// Default returns the platform permission matrix. The returned matrix is
// frozen and shared; callers must not attempt registration on it.
func Default() *Matrix {
	defaultOnce.Do(func() {
		m := NewMatrix()

		register := func(role string, prefixes ...string) {
			if err := m.RegisterRole(role, prefixes); err != nil {
				panic(err)
			}
		}

		register(RoleAdminIndustria,
			PathDashboard, "/catalog", "/inventory", "/brokers", "/sales", "/team", "/links", "/clientes")
		register(RoleVendedorInterno,
			PathDashboard, "/inventory", "/sales", "/links", "/clientes")
		register(RoleBroker,
			PathDashboard, "/shared-inventory", "/links", "/clientes")
		register(RoleSuperAdmin, PathAdmin)

		m.Freeze()
		defaultMatrix = m
	})
	return defaultMatrix
}
