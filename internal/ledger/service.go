package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// CreateAccountInput groups fields for chart-of-accounts setup.
type CreateAccountInput struct {
	Code           string
	Name           string
	Type           AccountType
	ParentID       string
	OrganizationID string
	Owner          *directory.EntityRef
}

// Service owns the chart of accounts and the balance mutation primitive.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateAccount registers a new account with a zero balance.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (Account, error) {
	now := s.now().UTC()
	account := Account{
		ID:             uuid.NewString(),
		Code:           input.Code,
		Name:           input.Name,
		Type:           input.Type,
		ParentID:       input.ParentID,
		OrganizationID: input.OrganizationID,
		Owner:          input.Owner,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := validateAccount(account); err != nil {
		return Account{}, err
	}
	if account.ParentID != "" {
		if _, err := s.repo.Get(ctx, account.ParentID); err != nil {
			return Account{}, fmt.Errorf("ledger: parent account: %w", err)
		}
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// ApplyEntry posts a single debit or credit to an account and returns the
// new balance. The signed effect follows the account's normal balance side.
func (s *Service) ApplyEntry(ctx context.Context, accountID string, amount int64, dir Direction) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: entry amount must be positive", shared.ErrValidation)
	}
	if dir != DirectionDebit && dir != DirectionCredit {
		return 0, fmt.Errorf("%w: unknown direction %q", shared.ErrValidation, dir)
	}
	account, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return 0, err
	}
	delta := SignedDelta(account.Type, dir, amount)
	balance, err := s.repo.AddBalance(ctx, accountID, delta)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("entry applied",
		slog.String("account_id", accountID),
		slog.String("direction", string(dir)),
		slog.Int64("delta", delta),
		slog.Int64("balance", balance))
	return balance, nil
}

// GetAccount fetches an account by id.
func (s *Service) GetAccount(ctx context.Context, id string) (Account, error) {
	return s.repo.Get(ctx, id)
}

// GetBalance returns the stored balance for an account.
func (s *Service) GetBalance(ctx context.Context, id string) (int64, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// ListByOrganization returns accounts scoped to an organization.
func (s *Service) ListByOrganization(ctx context.Context, orgID string) ([]Account, error) {
	return s.repo.ListByOrganization(ctx, orgID)
}

// AllAccounts returns the full chart of accounts.
func (s *Service) AllAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.All(ctx)
}
