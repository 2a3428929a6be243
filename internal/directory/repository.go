package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/quillbooks/quillbooks/internal/shared"
)

const (
	employeeKeyPrefix     = "dir:employee:"
	branchKeyPrefix       = "dir:branch:"
	vendorKeyPrefix       = "dir:vendor:"
	organizationKeyPrefix = "dir:org:"
)

// Repository reads directory records from the document store.
type Repository struct {
	client *redis.Client
}

// NewRepository constructs a Repository.
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) get(ctx context.Context, key string, target any) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return shared.ErrNotFound
		}
		return fmt.Errorf("directory: get %s: %w", key, err)
	}
	return json.Unmarshal(raw, target)
}

func (r *Repository) put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("directory: marshal %s: %w", key, err)
	}
	return r.client.Set(ctx, key, raw, 0).Err()
}

// GetEmployee fetches an employee by id.
func (r *Repository) GetEmployee(ctx context.Context, id string) (Employee, error) {
	var emp Employee
	if err := r.get(ctx, employeeKeyPrefix+id, &emp); err != nil {
		if err == shared.ErrNotFound {
			return Employee{}, fmt.Errorf("directory: employee %s: %w", id, shared.ErrNotFound)
		}
		return Employee{}, err
	}
	return emp, nil
}

// GetBranch fetches a branch by id.
func (r *Repository) GetBranch(ctx context.Context, id string) (Branch, error) {
	var b Branch
	if err := r.get(ctx, branchKeyPrefix+id, &b); err != nil {
		if err == shared.ErrNotFound {
			return Branch{}, fmt.Errorf("directory: branch %s: %w", id, shared.ErrNotFound)
		}
		return Branch{}, err
	}
	return b, nil
}

// GetVendor fetches a vendor by id.
func (r *Repository) GetVendor(ctx context.Context, id string) (Vendor, error) {
	var v Vendor
	if err := r.get(ctx, vendorKeyPrefix+id, &v); err != nil {
		if err == shared.ErrNotFound {
			return Vendor{}, fmt.Errorf("directory: vendor %s: %w", id, shared.ErrNotFound)
		}
		return Vendor{}, err
	}
	return v, nil
}

// GetOrganization fetches an organization by id.
func (r *Repository) GetOrganization(ctx context.Context, id string) (Organization, error) {
	var org Organization
	if err := r.get(ctx, organizationKeyPrefix+id, &org); err != nil {
		if err == shared.ErrNotFound {
			return Organization{}, fmt.Errorf("directory: organization %s: %w", id, shared.ErrNotFound)
		}
		return Organization{}, err
	}
	return org, nil
}

// PutEmployee stores an employee record. Used by seeding and sync, not by
// the core's request paths.
func (r *Repository) PutEmployee(ctx context.Context, emp Employee) error {
	return r.put(ctx, employeeKeyPrefix+emp.ID, emp)
}

// PutBranch stores a branch record.
func (r *Repository) PutBranch(ctx context.Context, b Branch) error {
	return r.put(ctx, branchKeyPrefix+b.ID, b)
}

// PutVendor stores a vendor record.
func (r *Repository) PutVendor(ctx context.Context, v Vendor) error {
	return r.put(ctx, vendorKeyPrefix+v.ID, v)
}

// PutOrganization stores an organization record.
func (r *Repository) PutOrganization(ctx context.Context, org Organization) error {
	return r.put(ctx, organizationKeyPrefix+org.ID, org)
}
