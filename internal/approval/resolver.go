// Package approval resolves which principals may decide pending
// transactions: the Admin role bypasses the hierarchy, everyone else must
// be the originating employee's immediate manager.
package approval

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// ErrNoApprover indicates the employee has no manager to route to.
var ErrNoApprover = fmt.Errorf("approval: no approver: %w", shared.ErrNotFound)

// Directory is the slice of the organizational directory the resolver reads.
type Directory interface {
	GetEmployee(ctx context.Context, id string) (directory.Employee, error)
}

// Resolver answers authority questions over the employee hierarchy.
type Resolver struct {
	dir Directory
}

// NewResolver constructs a Resolver.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// GetApprover returns the employee's immediate manager. It walks exactly
// one hop; multi-level escalation is out of scope.
func (r *Resolver) GetApprover(ctx context.Context, employeeID string) (directory.Employee, error) {
	emp, err := r.dir.GetEmployee(ctx, employeeID)
	if err != nil {
		return directory.Employee{}, err
	}
	if emp.ManagerID == "" {
		return directory.Employee{}, fmt.Errorf("%w: employee %s has no manager", ErrNoApprover, employeeID)
	}
	return r.dir.GetEmployee(ctx, emp.ManagerID)
}

// CanApprove reports whether the principal may decide a transaction
// originated by the referenced entity. Admin always may. Otherwise the
// reference must be an employee whose immediate manager is the principal.
func (r *Resolver) CanApprove(ctx context.Context, p *shared.Principal, originator *directory.EntityRef) (bool, error) {
	if p == nil {
		return false, nil
	}
	if p.Role == shared.RoleAdmin {
		return true, nil
	}
	if originator == nil || originator.Kind != directory.KindEmployee {
		return false, nil
	}
	if p.EmployeeID == "" {
		return false, nil
	}
	emp, err := r.dir.GetEmployee(ctx, originator.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return emp.ManagerID != "" && emp.ManagerID == p.EmployeeID, nil
}
