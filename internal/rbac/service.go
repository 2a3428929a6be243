package rbac

import (
	"fmt"

	"github.com/quillbooks/quillbooks/internal/shared"
)

// Classified authorization failures. All satisfy errors.Is(err, shared.ErrForbidden)
// so the HTTP layer maps them uniformly, while callers can still tell which
// gate rejected the request.
var (
	ErrPermissionDenied = fmt.Errorf("rbac: permission denied: %w", shared.ErrForbidden)
	ErrNotOwner         = fmt.Errorf("rbac: not resource owner: %w", shared.ErrForbidden)
	ErrNotManager       = fmt.Errorf("rbac: not manager: %w", shared.ErrForbidden)
	ErrNoPrincipal      = fmt.Errorf("rbac: no principal: %w", shared.ErrUnauthorized)
)

// Evaluator answers authorization questions against an immutable matrix.
type Evaluator struct {
	matrix Matrix
}

// NewEvaluator constructs an Evaluator. The matrix is not copied; callers
// must not mutate it after handing it over.
func NewEvaluator(matrix Matrix) *Evaluator {
	return &Evaluator{matrix: matrix}
}

// IsAuthorized reports whether the principal's role grants the permission.
// Absent principal, unknown role, and unknown permission all answer false.
func (e *Evaluator) IsAuthorized(p *shared.Principal, perm Permission) bool {
	if p == nil {
		return false
	}
	grants, ok := e.matrix[p.Role]
	if !ok {
		return false
	}
	_, ok = grants[perm]
	return ok
}

// IsOwner reports whether the principal owns the resource, matching on
// user id or employee id. Empty ids on either side never match.
func (e *Evaluator) IsOwner(p *shared.Principal, res Resource) bool {
	if p == nil || res == nil {
		return false
	}
	if uid := res.OwnerUserID(); uid != "" && uid == p.ID {
		return true
	}
	if eid := res.OwnerEmployeeID(); eid != "" && eid == p.EmployeeID {
		return true
	}
	return false
}

// IsManager reports whether the principal manages an employee whose manager
// id is managerID. Admin passes unconditionally.
func (e *Evaluator) IsManager(p *shared.Principal, managerID string) bool {
	if p == nil {
		return false
	}
	if p.Role == shared.RoleAdmin {
		return true
	}
	return p.EmployeeID != "" && p.EmployeeID == managerID
}

// Check is one link in an authorization gate chain.
type Check func() error

// OwnerCheck builds a Check asserting the principal owns the resource.
func (e *Evaluator) OwnerCheck(p *shared.Principal, res Resource) Check {
	return func() error {
		if !e.IsOwner(p, res) {
			return ErrNotOwner
		}
		return nil
	}
}

// ManagerCheck builds a Check asserting the principal manages the employee.
func (e *Evaluator) ManagerCheck(p *shared.Principal, managerID string) Check {
	return func() error {
		if !e.IsManager(p, managerID) {
			return ErrNotManager
		}
		return nil
	}
}

// Authorize gates a call: permission first, then any extra checks in order,
// short-circuiting on the first failure.
func (e *Evaluator) Authorize(p *shared.Principal, perm Permission, checks ...Check) error {
	if p == nil || p.Role == "" {
		return ErrNoPrincipal
	}
	if !e.IsAuthorized(p, perm) {
		return fmt.Errorf("%w: role %s lacks %s", ErrPermissionDenied, p.Role, perm)
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
