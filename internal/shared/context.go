package shared

import "context"

// Role enumerates the closed set of principal roles.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleBranchManager Role = "BRANCH_MANAGER"
	RoleEmployee      Role = "EMPLOYEE"
	RoleVendor        Role = "VENDOR"
)

// Principal is the authenticated actor handed over by the identity provider.
// The core trusts it verbatim and never verifies credentials itself.
type Principal struct {
	ID         string
	EmployeeID string
	Role       Role
}

type contextKey string

const principalKey contextKey = "principal"

// ContextWithPrincipal stores the principal in the context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal or nil when absent.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
