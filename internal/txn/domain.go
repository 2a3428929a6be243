package txn

import (
	"fmt"
	"time"

	"github.com/quillbooks/quillbooks/internal/directory"
	"github.com/quillbooks/quillbooks/internal/shared"
)

// Type enumerates transaction kinds.
type Type string

const (
	TypeCredit   Type = "CREDIT"
	TypeDebit    Type = "DEBIT"
	TypeRefund   Type = "REFUND"
	TypePurchase Type = "PURCHASE"
	TypeTransfer Type = "TRANSFER"
)

// ValidType reports whether t is a known transaction type.
func ValidType(t Type) bool {
	switch t {
	case TypeCredit, TypeDebit, TypeRefund, TypePurchase, TypeTransfer:
		return true
	}
	return false
}

// Status enumerates transaction lifecycle values. PENDING is initial;
// APPROVED and REJECTED are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// MetaRejectionReason is the metadata key holding a rejection reason.
const MetaRejectionReason = "rejection_reason"

// Transaction is the journal aggregate: one record owning both the debit
// and the credit leg, so the two effects are equal and opposite by
// construction. Records are never edited after a decision; corrections are
// new transactions.
type Transaction struct {
	ID              string               `json:"id"`
	Amount          int64                `json:"amount"`
	Type            Type                 `json:"type"`
	DebitAccountID  string               `json:"debit_account_id"`
	CreditAccountID string               `json:"credit_account_id"`
	Reference       *directory.EntityRef `json:"reference,omitempty"`
	Description     string               `json:"description,omitempty"`
	Status          Status               `json:"status"`
	ApproverID      string               `json:"approver_id,omitempty"`
	Metadata        map[string]string    `json:"metadata,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// OwnerUserID satisfies the ownership check contract.
func (t Transaction) OwnerUserID() string { return "" }

// OwnerEmployeeID returns the originating employee id when the transaction
// references an employee.
func (t Transaction) OwnerEmployeeID() string {
	if t.Reference != nil && t.Reference.Kind == directory.KindEmployee {
		return t.Reference.ID
	}
	return ""
}

// Terminal reports whether the status permits no further transition.
func (t Transaction) Terminal() bool {
	return t.Status == StatusApproved || t.Status == StatusRejected
}

func validateCreate(t Transaction) error {
	if t.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if !ValidType(t.Type) {
		return fmt.Errorf("%w: unknown transaction type %q", shared.ErrValidation, t.Type)
	}
	if t.DebitAccountID == "" || t.CreditAccountID == "" {
		return fmt.Errorf("%w: debit and credit accounts required", shared.ErrValidation)
	}
	if t.DebitAccountID == t.CreditAccountID {
		return fmt.Errorf("%w: debit and credit accounts must differ", shared.ErrValidation)
	}
	return nil
}
