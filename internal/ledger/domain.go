package ledger

import (
	"fmt"
	"time"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// AccountType enumerates chart-of-accounts categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// ValidAccountType reports whether t is one of the five enumerated kinds.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Direction is the side of a posting.
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// Account models a chart of accounts node. Balance is in minor units and is
// mutated only through posting, never written directly.
type Account struct {
	ID             string               `json:"id"`
	Code           string               `json:"code"`
	Name           string               `json:"name"`
	Type           AccountType          `json:"type"`
	ParentID       string               `json:"parent_id,omitempty"`
	OrganizationID string               `json:"organization_id,omitempty"`
	Owner          *directory.EntityRef `json:"owner,omitempty"`
	Balance        int64                `json:"balance"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// OwnerUserID satisfies the ownership check contract; accounts are owned
// through directory entities, not users.
func (a Account) OwnerUserID() string { return "" }

// OwnerEmployeeID returns the owning employee id when the account belongs
// to an employee.
func (a Account) OwnerEmployeeID() string {
	if a.Owner != nil && a.Owner.Kind == directory.KindEmployee {
		return a.Owner.ID
	}
	return ""
}

// NormalDebit reports whether the account type increases on the debit side.
// Asset and expense accounts do; liability, equity, and revenue accounts
// increase on the credit side.
func NormalDebit(t AccountType) bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// SignedDelta converts a posting of amount on the given side into the signed
// balance effect for an account of type t.
func SignedDelta(t AccountType, dir Direction, amount int64) int64 {
	if NormalDebit(t) == (dir == DirectionDebit) {
		return amount
	}
	return -amount
}

func validateAccount(a Account) error {
	if a.Code == "" {
		return fmt.Errorf("%w: account code required", shared.ErrValidation)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: account name required", shared.ErrValidation)
	}
	if !ValidAccountType(a.Type) {
		return fmt.Errorf("%w: unknown account type %q", shared.ErrValidation, a.Type)
	}
	return nil
}
