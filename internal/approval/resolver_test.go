package approval

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/shared"
)

type memoryDirectory struct {
	employees map[string]directory.Employee
}

func (d *memoryDirectory) GetEmployee(ctx context.Context, id string) (directory.Employee, error) {
	emp, ok := d.employees[id]
	if !ok {
		return directory.Employee{}, fmt.Errorf("%w: employee %s", shared.ErrNotFound, id)
	}
	return emp, nil
}

func newTestResolver() *Resolver {
	return NewResolver(&memoryDirectory{employees: map[string]directory.Employee{
		"e1": {ID: "e1", Name: "Worker", ManagerID: "m1"},
		"m1": {ID: "m1", Name: "Manager", ManagerID: "g1"},
		"g1": {ID: "g1", Name: "Grand Manager"},
		"m2": {ID: "m2", Name: "Other Manager"},
	}})
}

func employeeRef(id string) *directory.EntityRef {
	return &directory.EntityRef{Kind: directory.KindEmployee, ID: id}
}

func TestGetApproverOneHop(t *testing.T) {
	r := newTestResolver()
	approver, err := r.GetApprover(context.Background(), "e1")
	require.NoError(t, err)
	require.Equal(t, "m1", approver.ID)
}

func TestGetApproverNoManager(t *testing.T) {
	r := newTestResolver()
	_, err := r.GetApprover(context.Background(), "g1")
	require.ErrorIs(t, err, ErrNoApprover)
}

func TestCanApproveDirectManager(t *testing.T) {
	r := newTestResolver()
	manager := &shared.Principal{ID: "u-m1", EmployeeID: "m1", Role: shared.RoleBranchManager}

	ok, err := r.CanApprove(context.Background(), manager, employeeRef("e1"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCanApproveUnrelatedManagerDenied(t *testing.T) {
	r := newTestResolver()
	other := &shared.Principal{ID: "u-m2", EmployeeID: "m2", Role: shared.RoleBranchManager}

	ok, err := r.CanApprove(context.Background(), other, employeeRef("e1"))
	require.NoError(t, err)
	require.False(t, ok)
}

// Authority is direct-report-only: a manager's manager has no standing even
// though they sit above the originator in the hierarchy.
func TestCanApproveSkipsGrandManager(t *testing.T) {
	r := newTestResolver()
	grand := &shared.Principal{ID: "u-g1", EmployeeID: "g1", Role: shared.RoleBranchManager}

	ok, err := r.CanApprove(context.Background(), grand, employeeRef("e1"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanApproveAdminBypassesHierarchy(t *testing.T) {
	r := newTestResolver()
	admin := &shared.Principal{ID: "u-a", EmployeeID: "m2", Role: shared.RoleAdmin}

	ok, err := r.CanApprove(context.Background(), admin, employeeRef("e1"))
	require.NoError(t, err)
	require.True(t, ok)

	// Admin standing does not depend on the reference at all.
	ok, err = r.CanApprove(context.Background(), admin, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCanApproveNonEmployeeReference(t *testing.T) {
	r := newTestResolver()
	manager := &shared.Principal{ID: "u-m1", EmployeeID: "m1", Role: shared.RoleBranchManager}

	ok, err := r.CanApprove(context.Background(), manager, &directory.EntityRef{Kind: directory.KindVendor, ID: "v1"})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = r.CanApprove(context.Background(), manager, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanApproveUnknownOriginator(t *testing.T) {
	r := newTestResolver()
	manager := &shared.Principal{ID: "u-m1", EmployeeID: "m1", Role: shared.RoleBranchManager}

	ok, err := r.CanApprove(context.Background(), manager, employeeRef("ghost"))
	require.NoError(t, err)
	require.False(t, ok)
}
