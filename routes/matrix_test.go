package routes

import "testing"

func TestCanAccessPrefixAndNesting(t *testing.T) {
	m := Default()

	cases := []struct {
		role string
		path string
		want bool
	}{
		{RoleAdminIndustria, "/dashboard", true},
		{RoleAdminIndustria, "/dashboard/overview", true},
		{RoleAdminIndustria, "/catalog", true},
		{RoleAdminIndustria, "/team/members/42", true},
		{RoleAdminIndustria, "/dashboardx", false},
		{RoleAdminIndustria, "/admin", false},
		{RoleAdminIndustria, "/shared-inventory", false},

		{RoleVendedorInterno, "/inventory", true},
		{RoleVendedorInterno, "/sales/quotes", true},
		{RoleVendedorInterno, "/catalog", false},
		{RoleVendedorInterno, "/team", false},

		{RoleBroker, "/shared-inventory", true},
		{RoleBroker, "/shared-inventory/slabs", true},
		{RoleBroker, "/clientes", true},
		{RoleBroker, "/inventory", false},

		{RoleSuperAdmin, "/admin", true},
		{RoleSuperAdmin, "/admin/industrias", true},
		{RoleSuperAdmin, "/dashboard", false},
	}

	for _, tc := range cases {
		if got := m.CanAccess(tc.role, tc.path); got != tc.want {
			t.Errorf("CanAccess(%s, %s) = %v, want %v", tc.role, tc.path, got, tc.want)
		}
	}
}

func TestCanAccessUnknownRoleFailsClosed(t *testing.T) {
	m := Default()

	for _, role := range []string{"", "GERENTE", "super_admin", "ADMIN"} {
		if m.CanAccess(role, "/dashboard") {
			t.Errorf("unmapped role %q was granted /dashboard", role)
		}
	}
}

func TestDefaultRouteForIsTotal(t *testing.T) {
	cases := []struct {
		role string
		want string
	}{
		{RoleSuperAdmin, PathAdmin},
		{RoleAdminIndustria, PathDashboard},
		{RoleVendedorInterno, PathDashboard},
		{RoleBroker, PathDashboard},
		{"", PathLogin},
		{"VISITOR", PathLogin},
	}

	for _, tc := range cases {
		if got := DefaultRouteFor(tc.role); got != tc.want {
			t.Errorf("DefaultRouteFor(%q) = %s, want %s", tc.role, got, tc.want)
		}
	}
}

func TestRegisterRoleValidation(t *testing.T) {
	m := NewMatrix()

	if err := m.RegisterRole("", []string{"/x"}); err == nil {
		t.Fatal("empty role accepted")
	}
	if err := m.RegisterRole("R", nil); err == nil {
		t.Fatal("role without prefixes accepted")
	}
	if err := m.RegisterRole("R", []string{"no-slash"}); err == nil {
		t.Fatal("unrooted prefix accepted")
	}
	if err := m.RegisterRole("R", []string{"/ok"}); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}
	if err := m.RegisterRole("R", []string{"/other"}); err == nil {
		t.Fatal("duplicate role accepted")
	}

	m.Freeze()
	if err := m.RegisterRole("S", []string{"/x"}); err == nil {
		t.Fatal("registration after Freeze accepted")
	}
}

func TestStripTenant(t *testing.T) {
	cases := []struct {
		path, slug, want string
	}{
		{"/acme/dashboard", "acme", "/dashboard"},
		{"/acme", "acme", "/"},
		{"/acme/sales/quotes", "acme", "/sales/quotes"},
		{"/other/dashboard", "acme", "/other/dashboard"},
		{"/dashboard", "", "/dashboard"},
		{"/acmecorp/dashboard", "acme", "/acmecorp/dashboard"},
	}

	for _, tc := range cases {
		if got := StripTenant(tc.path, tc.slug); got != tc.want {
			t.Errorf("StripTenant(%s, %s) = %s, want %s", tc.path, tc.slug, got, tc.want)
		}
	}
}
