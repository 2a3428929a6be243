package reports

import (
	"context"
	"sort"
	"time"

	"github.com/quillbooks/quillbooks/internal/ledger"
)

// StatementAccount summarises one account's contribution to a statement.
type StatementAccount struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// StatementSection contains the accounts and total for one classification.
type StatementSection struct {
	Label    string             `json:"label"`
	Accounts []StatementAccount `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceSheet is the structured balance sheet report.
type BalanceSheet struct {
	OrganizationID            string           `json:"organization_id"`
	AsOf                      time.Time        `json:"as_of"`
	Assets                    StatementSection `json:"assets"`
	Liabilities               StatementSection `json:"liabilities"`
	Equity                    StatementSection `json:"equity"`
	TotalLiabilitiesAndEquity int64            `json:"total_liabilities_and_equity"`
	Balanced                  bool             `json:"balanced"`
}

// IncomeStatement is the structured income statement report.
type IncomeStatement struct {
	OrganizationID string           `json:"organization_id"`
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	Revenue        StatementSection `json:"revenue"`
	Expenses       StatementSection `json:"expenses"`
	NetIncome      int64            `json:"net_income"`
}

func appendRow(section *StatementSection, a ledger.Account) {
	section.Accounts = append(section.Accounts, StatementAccount{
		Code:    a.Code,
		Name:    a.Name,
		Balance: a.Balance,
	})
	section.Total += a.Balance
}

func sortSection(section *StatementSection) {
	sort.Slice(section.Accounts, func(i, j int) bool {
		return section.Accounts[i].Code < section.Accounts[j].Code
	})
}

// BuildBalanceSheet aggregates account balances into assets, liabilities,
// and equity sections.
func BuildBalanceSheet(orgID string, asOf time.Time, accounts []ledger.Account) BalanceSheet {
	bs := BalanceSheet{
		OrganizationID: orgID,
		AsOf:           asOf,
		Assets:         StatementSection{Label: "Assets"},
		Liabilities:    StatementSection{Label: "Liabilities"},
		Equity:         StatementSection{Label: "Equity"},
	}
	for _, a := range accounts {
		switch a.Type {
		case ledger.AccountTypeAsset:
			appendRow(&bs.Assets, a)
		case ledger.AccountTypeLiability:
			appendRow(&bs.Liabilities, a)
		case ledger.AccountTypeEquity:
			appendRow(&bs.Equity, a)
		}
	}
	sortSection(&bs.Assets)
	sortSection(&bs.Liabilities)
	sortSection(&bs.Equity)
	bs.TotalLiabilitiesAndEquity = bs.Liabilities.Total + bs.Equity.Total
	bs.Balanced = bs.Assets.Total == bs.TotalLiabilitiesAndEquity
	return bs
}

// BuildIncomeStatement aggregates revenue and expense balances to net income.
func BuildIncomeStatement(orgID string, from, to time.Time, accounts []ledger.Account) IncomeStatement {
	is := IncomeStatement{
		OrganizationID: orgID,
		From:           from,
		To:             to,
		Revenue:        StatementSection{Label: "Revenue"},
		Expenses:       StatementSection{Label: "Expenses"},
	}
	for _, a := range accounts {
		switch a.Type {
		case ledger.AccountTypeRevenue:
			appendRow(&is.Revenue, a)
		case ledger.AccountTypeExpense:
			appendRow(&is.Expenses, a)
		}
	}
	sortSection(&is.Revenue)
	sortSection(&is.Expenses)
	is.NetIncome = is.Revenue.Total - is.Expenses.Total
	return is
}

// GenerateBalanceSheet builds the balance sheet for an organization from
// stored balances.
func (s *Service) GenerateBalanceSheet(ctx context.Context, orgID string, asOf time.Time) (BalanceSheet, error) {
	accounts, err := s.accounts.ListByOrganization(ctx, orgID)
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(orgID, asOf, accounts), nil
}

// GenerateIncomeStatement builds the income statement for an organization
// from stored balances.
func (s *Service) GenerateIncomeStatement(ctx context.Context, orgID string, from, to time.Time) (IncomeStatement, error) {
	accounts, err := s.accounts.ListByOrganization(ctx, orgID)
	if err != nil {
		return IncomeStatement{}, err
	}
	return BuildIncomeStatement(orgID, from, to, accounts), nil
}
