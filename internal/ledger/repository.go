package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// Repository abstracts account persistence. The store must provide
// per-record atomic balance increments; read-modify-write in application
// code is not acceptable for the posting path.
type Repository interface {
	Create(ctx context.Context, account Account) error
	Get(ctx context.Context, id string) (Account, error)
	GetByCode(ctx context.Context, code string) (Account, error)
	AddBalance(ctx context.Context, id string, delta int64) (int64, error)
	All(ctx context.Context) ([]Account, error)
	ListByOrganization(ctx context.Context, orgID string) ([]Account, error)
}

const (
	accountKeyPrefix = "acct:"
	accountCodeIndex = "acct:code:"
	accountAllSet    = "acct:all"
	accountOrgPrefix = "acct:org:"
)

// RedisRepository stores accounts as redis hashes so the balance field can
// be incremented atomically with HINCRBY.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository constructs a RedisRepository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Create inserts a new account. The code index claim (SETNX) is the
// uniqueness gate; losing it means the code is taken.
func (r *RedisRepository) Create(ctx context.Context, account Account) error {
	claimed, err := r.client.SetNX(ctx, accountCodeIndex+account.Code, account.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("ledger: claim code %s: %w", account.Code, err)
	}
	if !claimed {
		return fmt.Errorf("%w: account code %s already exists", shared.ErrConflict, account.Code)
	}
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, accountKeyPrefix+account.ID, accountToFields(account))
	pipe.SAdd(ctx, accountAllSet, account.ID)
	if account.OrganizationID != "" {
		pipe.SAdd(ctx, accountOrgPrefix+account.OrganizationID, account.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ledger: store account %s: %w", account.ID, err)
	}
	return nil
}

// Get fetches an account by id.
func (r *RedisRepository) Get(ctx context.Context, id string) (Account, error) {
	fields, err := r.client.HGetAll(ctx, accountKeyPrefix+id).Result()
	if err != nil {
		return Account{}, fmt.Errorf("ledger: get account %s: %w", id, err)
	}
	if len(fields) == 0 {
		return Account{}, fmt.Errorf("%w: account %s", shared.ErrNotFound, id)
	}
	return accountFromFields(id, fields)
}

// GetByCode fetches an account through the code index.
func (r *RedisRepository) GetByCode(ctx context.Context, code string) (Account, error) {
	id, err := r.client.Get(ctx, accountCodeIndex+code).Result()
	if err != nil {
		if err == redis.Nil {
			return Account{}, fmt.Errorf("%w: account code %s", shared.ErrNotFound, code)
		}
		return Account{}, fmt.Errorf("ledger: resolve code %s: %w", code, err)
	}
	return r.Get(ctx, id)
}

// AddBalance applies a signed delta to the stored balance atomically and
// returns the new value.
func (r *RedisRepository) AddBalance(ctx context.Context, id string, delta int64) (int64, error) {
	key := accountKeyPrefix + id
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ledger: check account %s: %w", id, err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("%w: account %s", shared.ErrNotFound, id)
	}
	balance, err := r.client.HIncrBy(ctx, key, "balance", delta).Result()
	if err != nil {
		return 0, fmt.Errorf("ledger: post to account %s: %w", id, err)
	}
	r.client.HSet(ctx, key, "updated_at", time.Now().UTC().Format(time.RFC3339Nano))
	return balance, nil
}

// All returns every account in the chart.
func (r *RedisRepository) All(ctx context.Context) ([]Account, error) {
	return r.bySet(ctx, accountAllSet)
}

// ListByOrganization returns accounts scoped to an organization.
func (r *RedisRepository) ListByOrganization(ctx context.Context, orgID string) ([]Account, error) {
	return r.bySet(ctx, accountOrgPrefix+orgID)
}

func (r *RedisRepository) bySet(ctx context.Context, key string) ([]Account, error) {
	ids, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("ledger: list %s: %w", key, err)
	}
	accounts := make([]Account, 0, len(ids))
	for _, id := range ids {
		account, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func accountToFields(a Account) map[string]any {
	fields := map[string]any{
		"code":       a.Code,
		"name":       a.Name,
		"type":       string(a.Type),
		"parent_id":  a.ParentID,
		"org_id":     a.OrganizationID,
		"balance":    strconv.FormatInt(a.Balance, 10),
		"created_at": a.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if a.Owner != nil {
		fields["owner_kind"] = string(a.Owner.Kind)
		fields["owner_id"] = a.Owner.ID
	}
	return fields
}

func accountFromFields(id string, fields map[string]string) (Account, error) {
	balance, err := strconv.ParseInt(fields["balance"], 10, 64)
	if err != nil {
		return Account{}, fmt.Errorf("ledger: account %s balance corrupt: %w", id, err)
	}
	account := Account{
		ID:             id,
		Code:           fields["code"],
		Name:           fields["name"],
		Type:           AccountType(fields["type"]),
		ParentID:       fields["parent_id"],
		OrganizationID: fields["org_id"],
		Balance:        balance,
	}
	if kind := fields["owner_kind"]; kind != "" {
		account.Owner = &directory.EntityRef{Kind: directory.EntityKind(kind), ID: fields["owner_id"]}
	}
	if raw := fields["created_at"]; raw != "" {
		account.CreatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	if raw := fields["updated_at"]; raw != "" {
		account.UpdatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	return account, nil
}
