package txn

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// Repository abstracts transaction persistence. Decide must be a
// conditional update: it succeeds only while the stored status is PENDING,
// so exactly one of two racing decisions wins.
type Repository interface {
	Create(ctx context.Context, t Transaction) error
	Get(ctx context.Context, id string) (Transaction, error)
	Decide(ctx context.Context, id string, status Status, approverID string, metadata map[string]string, at time.Time) (bool, error)
	ListByAccount(ctx context.Context, accountID string, from, to time.Time) ([]Transaction, error)
	All(ctx context.Context) ([]Transaction, error)
}

const (
	txnKeyPrefix    = "txn:"
	txnAllSet       = "txn:all"
	txnAcctPrefix   = "txn:acct:"
	fieldStatus     = "status"
	fieldApproverID = "approver_id"
	fieldMetadata   = "metadata"
	fieldUpdatedAt  = "updated_at"
)

// decideScript transitions a pending transaction to a terminal status.
// The status check and the write are one atomic step inside redis.
var decideScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'status')
if status == false then return -1 end
if status ~= 'PENDING' then return 0 end
redis.call('HSET', KEYS[1], 'status', ARGV[1], 'approver_id', ARGV[2], 'metadata', ARGV[3], 'updated_at', ARGV[4])
return 1
`)

// RedisRepository stores transactions as redis hashes with per-account
// time-ordered indexes.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository constructs a RedisRepository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Create stores a transaction and indexes it under both accounts.
func (r *RedisRepository) Create(ctx context.Context, t Transaction) error {
	fields, err := txnToFields(t)
	if err != nil {
		return err
	}
	score := float64(t.CreatedAt.UnixNano())
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, txnKeyPrefix+t.ID, fields)
	pipe.SAdd(ctx, txnAllSet, t.ID)
	pipe.ZAdd(ctx, txnAcctPrefix+t.DebitAccountID, redis.Z{Score: score, Member: t.ID})
	pipe.ZAdd(ctx, txnAcctPrefix+t.CreditAccountID, redis.Z{Score: score, Member: t.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("txn: store %s: %w", t.ID, err)
	}
	return nil
}

// Get fetches a transaction by id.
func (r *RedisRepository) Get(ctx context.Context, id string) (Transaction, error) {
	fields, err := r.client.HGetAll(ctx, txnKeyPrefix+id).Result()
	if err != nil {
		return Transaction{}, fmt.Errorf("txn: get %s: %w", id, err)
	}
	if len(fields) == 0 {
		return Transaction{}, fmt.Errorf("%w: transaction %s", shared.ErrNotFound, id)
	}
	return txnFromFields(id, fields)
}

// Decide conditionally transitions PENDING to the given terminal status.
// Returns false when the transaction was already decided.
func (r *RedisRepository) Decide(ctx context.Context, id string, status Status, approverID string, metadata map[string]string, at time.Time) (bool, error) {
	metaJSON := "{}"
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return false, fmt.Errorf("txn: marshal metadata: %w", err)
		}
		metaJSON = string(raw)
	}
	res, err := decideScript.Run(ctx, r.client,
		[]string{txnKeyPrefix + id},
		string(status), approverID, metaJSON, at.UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return false, fmt.Errorf("txn: decide %s: %w", id, err)
	}
	switch res {
	case -1:
		return false, fmt.Errorf("%w: transaction %s", shared.ErrNotFound, id)
	case 0:
		return false, nil
	}
	return true, nil
}

// ListByAccount returns transactions touching the account within the date
// range, newest first. Zero range bounds mean unbounded.
func (r *RedisRepository) ListByAccount(ctx context.Context, accountID string, from, to time.Time) ([]Transaction, error) {
	min, max := "-inf", "+inf"
	if !from.IsZero() {
		min = strconv.FormatInt(from.UnixNano(), 10)
	}
	if !to.IsZero() {
		max = strconv.FormatInt(to.UnixNano(), 10)
	}
	ids, err := r.client.ZRevRangeByScore(ctx, txnAcctPrefix+accountID, &redis.ZRangeBy{Min: min, Max: max}).Result()
	if err != nil {
		return nil, fmt.Errorf("txn: ledger for %s: %w", accountID, err)
	}
	txns := make([]Transaction, 0, len(ids))
	for _, id := range ids {
		t, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// All returns every stored transaction. Used by reconciliation sweeps.
func (r *RedisRepository) All(ctx context.Context) ([]Transaction, error) {
	ids, err := r.client.SMembers(ctx, txnAllSet).Result()
	if err != nil {
		return nil, fmt.Errorf("txn: list all: %w", err)
	}
	txns := make([]Transaction, 0, len(ids))
	for _, id := range ids {
		t, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func txnToFields(t Transaction) (map[string]any, error) {
	metaJSON := "{}"
	if len(t.Metadata) > 0 {
		raw, err := json.Marshal(t.Metadata)
		if err != nil {
			return nil, fmt.Errorf("txn: marshal metadata: %w", err)
		}
		metaJSON = string(raw)
	}
	fields := map[string]any{
		"amount":        strconv.FormatInt(t.Amount, 10),
		"type":          string(t.Type),
		"debit_acct":    t.DebitAccountID,
		"credit_acct":   t.CreditAccountID,
		"description":   t.Description,
		fieldStatus:     string(t.Status),
		fieldApproverID: t.ApproverID,
		fieldMetadata:   metaJSON,
		"created_at":    t.CreatedAt.UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt:  t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if t.Reference != nil {
		fields["ref_kind"] = string(t.Reference.Kind)
		fields["ref_id"] = t.Reference.ID
	}
	return fields, nil
}

func txnFromFields(id string, fields map[string]string) (Transaction, error) {
	amount, err := strconv.ParseInt(fields["amount"], 10, 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("txn: %s amount corrupt: %w", id, err)
	}
	t := Transaction{
		ID:              id,
		Amount:          amount,
		Type:            Type(fields["type"]),
		DebitAccountID:  fields["debit_acct"],
		CreditAccountID: fields["credit_acct"],
		Description:     fields["description"],
		Status:          Status(fields[fieldStatus]),
		ApproverID:      fields[fieldApproverID],
	}
	if kind := fields["ref_kind"]; kind != "" {
		t.Reference = &directory.EntityRef{Kind: directory.EntityKind(kind), ID: fields["ref_id"]}
	}
	if raw := fields[fieldMetadata]; raw != "" && raw != "{}" {
		if err := json.Unmarshal([]byte(raw), &t.Metadata); err != nil {
			return Transaction{}, fmt.Errorf("txn: %s metadata corrupt: %w", id, err)
		}
	}
	if raw := fields["created_at"]; raw != "" {
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	if raw := fields[fieldUpdatedAt]; raw != "" {
		t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	return t, nil
}
