package txn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/ledger"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// Accounts is the slice of the ledger store the engine depends on.
type Accounts interface {
	GetAccount(ctx context.Context, id string) (ledger.Account, error)
	ApplyEntry(ctx context.Context, accountID string, amount int64, dir ledger.Direction) (int64, error)
}

// Authority resolves whether a principal may decide a transaction.
type Authority interface {
	CanApprove(ctx context.Context, p *shared.Principal, originator *directory.EntityRef) (bool, error)
}

// CreateInput groups fields for a new transaction.
type CreateInput struct {
	DebitAccountID  string
	CreditAccountID string
	Amount          int64
	Type            Type
	Reference       *directory.EntityRef
	Description     string
}

// Service validates and creates transaction records and applies postings on
// approval.
type Service struct {
	repo      Repository
	accounts  Accounts
	authority Authority
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, accounts Accounts, authority Authority, logger *slog.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, authority: authority, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create records a pending transaction. No balance moves until approval.
func (s *Service) Create(ctx context.Context, input CreateInput) (Transaction, error) {
	now := s.now().UTC()
	t := Transaction{
		ID:              uuid.NewString(),
		Amount:          input.Amount,
		Type:            input.Type,
		DebitAccountID:  input.DebitAccountID,
		CreditAccountID: input.CreditAccountID,
		Reference:       input.Reference,
		Description:     input.Description,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validateCreate(t); err != nil {
		return Transaction{}, err
	}
	if _, err := s.accounts.GetAccount(ctx, t.DebitAccountID); err != nil {
		return Transaction{}, fmt.Errorf("txn: debit account: %w", err)
	}
	if _, err := s.accounts.GetAccount(ctx, t.CreditAccountID); err != nil {
		return Transaction{}, fmt.Errorf("txn: credit account: %w", err)
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Transaction{}, err
	}
	s.logger.Info("transaction created",
		slog.String("txn_id", t.ID),
		slog.String("type", string(t.Type)),
		slog.Int64("amount", t.Amount))
	return t, nil
}

// Approve decides a pending transaction and posts both legs. The status
// transition is a conditional update: of two racing decisions exactly one
// wins and the loser gets a conflict. Postings run only on the winning path,
// so they are applied at most once.
func (s *Service) Approve(ctx context.Context, id string, p *shared.Principal) (Transaction, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if t.Terminal() {
		return Transaction{}, fmt.Errorf("%w: transaction %s already %s", shared.ErrConflict, id, t.Status)
	}
	if err := s.requireAuthority(ctx, p, t); err != nil {
		return Transaction{}, err
	}

	decidedAt := s.now().UTC()
	approverID := approverOf(p)
	won, err := s.repo.Decide(ctx, id, StatusApproved, approverID, t.Metadata, decidedAt)
	if err != nil {
		return Transaction{}, err
	}
	if !won {
		return Transaction{}, fmt.Errorf("%w: transaction %s already decided", shared.ErrConflict, id)
	}

	if _, err := s.accounts.ApplyEntry(ctx, t.DebitAccountID, t.Amount, ledger.DirectionDebit); err != nil {
		return Transaction{}, fmt.Errorf("txn: post debit leg of %s: %w", id, err)
	}
	if _, err := s.accounts.ApplyEntry(ctx, t.CreditAccountID, t.Amount, ledger.DirectionCredit); err != nil {
		return Transaction{}, fmt.Errorf("txn: post credit leg of %s: %w", id, err)
	}

	t.Status = StatusApproved
	t.ApproverID = approverID
	t.UpdatedAt = decidedAt
	s.logger.Info("transaction approved",
		slog.String("txn_id", id),
		slog.String("approver_id", approverID))
	return t, nil
}

// Reject decides a pending transaction without touching balances. The
// reason lands in metadata.
func (s *Service) Reject(ctx context.Context, id string, p *shared.Principal, reason string) (Transaction, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if t.Terminal() {
		return Transaction{}, fmt.Errorf("%w: transaction %s already %s", shared.ErrConflict, id, t.Status)
	}
	if err := s.requireAuthority(ctx, p, t); err != nil {
		return Transaction{}, err
	}

	metadata := make(map[string]string, len(t.Metadata)+1)
	for k, v := range t.Metadata {
		metadata[k] = v
	}
	metadata[MetaRejectionReason] = reason

	decidedAt := s.now().UTC()
	approverID := approverOf(p)
	won, err := s.repo.Decide(ctx, id, StatusRejected, approverID, metadata, decidedAt)
	if err != nil {
		return Transaction{}, err
	}
	if !won {
		return Transaction{}, fmt.Errorf("%w: transaction %s already decided", shared.ErrConflict, id)
	}

	t.Status = StatusRejected
	t.ApproverID = approverID
	t.Metadata = metadata
	t.UpdatedAt = decidedAt
	s.logger.Info("transaction rejected",
		slog.String("txn_id", id),
		slog.String("approver_id", approverID))
	return t, nil
}

// Get fetches a transaction by id.
func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

// Ledger returns transactions touching the account within the range,
// newest first.
func (s *Service) Ledger(ctx context.Context, accountID string, from, to time.Time) ([]Transaction, error) {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, accountID, from, to)
}

func (s *Service) requireAuthority(ctx context.Context, p *shared.Principal, t Transaction) error {
	if p == nil {
		return fmt.Errorf("%w: no principal", shared.ErrUnauthorized)
	}
	ok, err := s.authority.CanApprove(ctx, p, t.Reference)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s may not decide transaction %s", shared.ErrForbidden, approverOf(p), t.ID)
	}
	return nil
}

func approverOf(p *shared.Principal) string {
	if p.EmployeeID != "" {
		return p.EmployeeID
	}
	return p.ID
}
