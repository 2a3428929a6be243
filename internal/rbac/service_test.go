package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillbooks/quillbooks/internal/shared"
)

type ownedResource struct {
	userID     string
	employeeID string
}

func (r ownedResource) OwnerUserID() string     { return r.userID }
func (r ownedResource) OwnerEmployeeID() string { return r.employeeID }

func TestAdminHoldsEveryPermission(t *testing.T) {
	e := NewEvaluator(DefaultMatrix())
	admin := &shared.Principal{ID: "u1", Role: shared.RoleAdmin}
	for _, perm := range AllPermissions {
		require.True(t, e.IsAuthorized(admin, perm), "admin should hold %s", perm)
	}
}

func TestVendorNeverMutates(t *testing.T) {
	e := NewEvaluator(DefaultMatrix())
	vendor := &shared.Principal{ID: "u2", Role: shared.RoleVendor}
	denied := []Permission{
		PermAccountCreate, PermAccountUpdate, PermAccountDelete,
		PermTxnCreate, PermTxnUpdate, PermTxnDelete,
	}
	for _, perm := range denied {
		require.False(t, e.IsAuthorized(vendor, perm), "vendor should not hold %s", perm)
	}
}

func TestUnknownRoleAndPermissionDenied(t *testing.T) {
	e := NewEvaluator(DefaultMatrix())
	require.False(t, e.IsAuthorized(nil, PermAccountView))
	require.False(t, e.IsAuthorized(&shared.Principal{ID: "u3", Role: "INTERN"}, PermAccountView))
	require.False(t, e.IsAuthorized(&shared.Principal{ID: "u4", Role: shared.RoleAdmin}, Permission("cosmic:ray")))
}

func TestIsRoleHigherFollowsRanking(t *testing.T) {
	order := []shared.Role{shared.RoleVendor, shared.RoleEmployee, shared.RoleBranchManager, shared.RoleAdmin}
	for i, a := range order {
		for j, b := range order {
			require.Equal(t, i > j, IsRoleHigher(a, b), "%s vs %s", a, b)
		}
	}
	require.False(t, IsRoleHigher("INTERN", shared.RoleVendor))
	require.False(t, IsRoleHigher(shared.RoleAdmin, "INTERN"))
}

func TestIsOwnerMatchesEitherID(t *testing.T) {
	e := NewEvaluator(DefaultMatrix())
	p := &shared.Principal{ID: "u5", EmployeeID: "e5", Role: shared.RoleEmployee}

	require.True(t, e.IsOwner(p, ownedResource{userID: "u5"}))
	require.True(t, e.IsOwner(p, ownedResource{employeeID: "e5"}))
	require.False(t, e.IsOwner(p, ownedResource{userID: "u6"}))
	require.False(t, e.IsOwner(p, ownedResource{}))
	require.False(t, e.IsOwner(nil, ownedResource{userID: "u5"}))
}

func TestIsManager(t *testing.T) {
	e := NewEvaluator(DefaultMatrix())
	manager := &shared.Principal{ID: "u7", EmployeeID: "m1", Role: shared.RoleBranchManager}
	admin := &shared.Principal{ID: "u8", Role: shared.RoleAdmin}

	require.True(t, e.IsManager(manager, "m1"))
	require.False(t, e.IsManager(manager, "m2"))
	require.True(t, e.IsManager(admin, "anyone"))
	require.False(t, e.IsManager(nil, "m1"))
}

func TestAuthorizeChainShortCircuits(t *testing.T) {
	e := NewEvaluator(DefaultMatrix())
	employee := &shared.Principal{ID: "u9", EmployeeID: "e9", Role: shared.RoleEmployee}

	err := e.Authorize(nil, PermTxnView)
	require.ErrorIs(t, err, ErrNoPrincipal)
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	err = e.Authorize(employee, PermTxnApprove)
	require.ErrorIs(t, err, ErrPermissionDenied)
	require.ErrorIs(t, err, shared.ErrForbidden)

	err = e.Authorize(employee, PermTxnView, e.OwnerCheck(employee, ownedResource{employeeID: "other"}))
	require.ErrorIs(t, err, ErrNotOwner)

	err = e.Authorize(employee, PermTxnView, e.ManagerCheck(employee, "someone-else"))
	require.ErrorIs(t, err, ErrNotManager)

	ownerErr := e.Authorize(employee, PermTxnView,
		e.OwnerCheck(employee, ownedResource{employeeID: "other"}),
		e.ManagerCheck(employee, "someone-else"))
	require.ErrorIs(t, ownerErr, ErrNotOwner, "first failing check wins")
	require.NotErrorIs(t, ownerErr, ErrNotManager)

	require.NoError(t, e.Authorize(employee, PermTxnView, e.OwnerCheck(employee, ownedResource{employeeID: "e9"})))
}

func TestAuthorizeDistinctErrors(t *testing.T) {
	require.False(t, errors.Is(ErrNotOwner, ErrNotManager))
	require.False(t, errors.Is(ErrPermissionDenied, ErrNotOwner))
}
