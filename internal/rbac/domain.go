package rbac

import "github.com/quillbooks/quillbooks/internal/shared"

// Permission represents an atomic capability.
type Permission string

const (
	PermAccountView   Permission = "account:view"
	PermAccountCreate Permission = "account:create"
	PermAccountUpdate Permission = "account:update"
	PermAccountDelete Permission = "account:delete"

	PermTxnView   Permission = "transaction:view"
	PermTxnCreate Permission = "transaction:create"
	PermTxnUpdate Permission = "transaction:update"
	PermTxnDelete Permission = "transaction:delete"

	PermTxnApprove Permission = "transaction:approve"
	PermTxnReject  Permission = "transaction:reject"

	PermReportView    Permission = "report:view"
	PermReportViewAll Permission = "report:view-all"
)

// AllPermissions lists every defined permission.
var AllPermissions = []Permission{
	PermAccountView, PermAccountCreate, PermAccountUpdate, PermAccountDelete,
	PermTxnView, PermTxnCreate, PermTxnUpdate, PermTxnDelete,
	PermTxnApprove, PermTxnReject,
	PermReportView, PermReportViewAll,
}

// Matrix maps each role to the permissions it grants. Immutable after load.
type Matrix map[shared.Role]map[Permission]struct{}

// DefaultMatrix returns the static role/permission table. It is built once
// at startup and injected; nothing mutates it at runtime.
func DefaultMatrix() Matrix {
	grant := func(perms ...Permission) map[Permission]struct{} {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		return set
	}
	return Matrix{
		shared.RoleAdmin: grant(AllPermissions...),
		shared.RoleBranchManager: grant(
			PermAccountView, PermAccountCreate, PermAccountUpdate,
			PermTxnView, PermTxnCreate, PermTxnUpdate,
			PermTxnApprove, PermTxnReject,
			PermReportView, PermReportViewAll,
		),
		shared.RoleEmployee: grant(
			PermAccountView,
			PermTxnView, PermTxnCreate,
			PermReportView,
		),
		shared.RoleVendor: grant(
			PermTxnView,
			PermReportView,
		),
	}
}

// roleRank orders roles from least to most privileged.
var roleRank = map[shared.Role]int{
	shared.RoleVendor:        0,
	shared.RoleEmployee:      1,
	shared.RoleBranchManager: 2,
	shared.RoleAdmin:         3,
}

// IsRoleHigher reports whether a outranks b. Unknown roles never outrank.
func IsRoleHigher(a, b shared.Role) bool {
	ra, ok := roleRank[a]
	if !ok {
		return false
	}
	rb, ok := roleRank[b]
	if !ok {
		return false
	}
	return ra > rb
}

// Resource exposes the identifying fields ownership checks compare against.
type Resource interface {
	OwnerUserID() string
	OwnerEmployeeID() string
}
