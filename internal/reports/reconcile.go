// Package reports recomputes balances from history and builds the
// balance sheet, income statement, and period aggregates. Everything here
// is read-only and safe to run against a live ledger; results may trail the
// newest approval by a snapshot.
package reports

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quillbooks/quillbooks/internal/ledger"
	"github.com/quillbooks/quillbooks/internal/txn"
)

// reconcileConcurrency bounds the per-account fan-out.
const reconcileConcurrency = 8

// Reconciliation compares the stored balance against the balance recomputed
// from transaction history. Divergence is reported as data, not an error.
type Reconciliation struct {
	AccountID         string `json:"account_id"`
	AccountCode       string `json:"account_code"`
	RecordedBalance   int64  `json:"recorded_balance"`
	CalculatedBalance int64  `json:"calculated_balance"`
	Difference        int64  `json:"difference"`
	Reconciled        bool   `json:"reconciled"`
}

// Accounts is the slice of the ledger store reporting reads from.
type Accounts interface {
	GetAccount(ctx context.Context, id string) (ledger.Account, error)
	ListByOrganization(ctx context.Context, orgID string) ([]ledger.Account, error)
	AllAccounts(ctx context.Context) ([]ledger.Account, error)
}

// History is the transaction view reporting reads from.
type History interface {
	ListByAccount(ctx context.Context, accountID string, from, to time.Time) ([]txn.Transaction, error)
}

// Service runs reconciliation and builds reports.
type Service struct {
	accounts Accounts
	history  History
	logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(accounts Accounts, history History, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, history: history, logger: logger}
}

// PostedEffect returns the signed balance effect an approved transaction
// had on the given account; zero for pending or rejected transactions and
// for accounts the transaction does not touch.
func PostedEffect(t txn.Transaction, account ledger.Account) int64 {
	if t.Status != txn.StatusApproved {
		return 0
	}
	switch account.ID {
	case t.DebitAccountID:
		return ledger.SignedDelta(account.Type, ledger.DirectionDebit, t.Amount)
	case t.CreditAccountID:
		return ledger.SignedDelta(account.Type, ledger.DirectionCredit, t.Amount)
	}
	return 0
}

// ReconcileAccounts recomputes each account's balance from its full history
// and reports drift against the stored value.
func (s *Service) ReconcileAccounts(ctx context.Context, accountIDs []string) ([]Reconciliation, error) {
	results := make([]Reconciliation, len(accountIDs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)
	for i, id := range accountIDs {
		i, id := i, id
		g.Go(func() error {
			rec, err := s.reconcileOne(ctx, id)
			if err != nil {
				return err
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, rec := range results {
		if !rec.Reconciled {
			s.logger.Warn("balance divergence",
				slog.String("account_id", rec.AccountID),
				slog.Int64("recorded", rec.RecordedBalance),
				slog.Int64("calculated", rec.CalculatedBalance))
		}
	}
	return results, nil
}

// ReconcileAll reconciles the entire chart of accounts.
func (s *Service) ReconcileAll(ctx context.Context) ([]Reconciliation, error) {
	accounts, err := s.accounts.AllAccounts(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	sort.Strings(ids)
	return s.ReconcileAccounts(ctx, ids)
}

func (s *Service) reconcileOne(ctx context.Context, accountID string) (Reconciliation, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return Reconciliation{}, err
	}
	history, err := s.history.ListByAccount(ctx, accountID, time.Time{}, time.Time{})
	if err != nil {
		return Reconciliation{}, err
	}
	var calculated int64
	for _, t := range history {
		calculated += PostedEffect(t, account)
	}
	return Reconciliation{
		AccountID:         account.ID,
		AccountCode:       account.Code,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        account.Balance - calculated,
		Reconciled:        account.Balance == calculated,
	}, nil
}
