// Package directory exposes the organizational reference records the core
// reads: employees and their manager links, branches, vendors, and
// organizations. CRUD over these records lives upstream; this view is
// read-only apart from seeding.
package directory

// EntityKind tags which directory record a reference points at.
type EntityKind string

const (
	KindEmployee     EntityKind = "EMPLOYEE"
	KindBranch       EntityKind = "BRANCH"
	KindVendor       EntityKind = "VENDOR"
	KindOrganization EntityKind = "ORGANIZATION"
)

// EntityRef points at a directory record.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

// Employee is the read model for an employee. ManagerID is the explicit
// parent pointer used for authority resolution; at most one manager.
type Employee struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	BranchID  string `json:"branch_id"`
	ManagerID string `json:"manager_id"`
}

// Branch is the read model for a branch office.
type Branch struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
}

// Vendor is the read model for an external vendor.
type Vendor struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Organization is the read model for a legal entity.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
