package reports

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillbooks/quillbooks/internal/ledger"
)

func TestBuildBalanceSheetBalanced(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	accounts := []ledger.Account{
		{ID: "a1", Code: "1000", Name: "Cash", Type: ledger.AccountTypeAsset, Balance: 100},
		{ID: "a2", Code: "3000", Name: "Capital", Type: ledger.AccountTypeEquity, Balance: 100},
	}

	bs := BuildBalanceSheet("org-1", asOf, accounts)
	require.Equal(t, int64(100), bs.Assets.Total)
	require.Equal(t, int64(0), bs.Liabilities.Total)
	require.Equal(t, int64(100), bs.Equity.Total)
	require.Equal(t, int64(100), bs.TotalLiabilitiesAndEquity)
	require.True(t, bs.Balanced)
}

func TestBuildBalanceSheetUnbalancedAndSorted(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	accounts := []ledger.Account{
		{ID: "a3", Code: "1200", Name: "Receivables", Type: ledger.AccountTypeAsset, Balance: 50},
		{ID: "a1", Code: "1000", Name: "Cash", Type: ledger.AccountTypeAsset, Balance: 100},
		{ID: "a2", Code: "2000", Name: "Payables", Type: ledger.AccountTypeLiability, Balance: 80},
		{ID: "a4", Code: "4000", Name: "Sales", Type: ledger.AccountTypeRevenue, Balance: 500},
	}

	bs := BuildBalanceSheet("org-1", asOf, accounts)
	require.Equal(t, int64(150), bs.Assets.Total)
	require.Equal(t, int64(80), bs.TotalLiabilitiesAndEquity)
	require.False(t, bs.Balanced)

	// Revenue accounts stay off the balance sheet.
	require.Len(t, bs.Assets.Accounts, 2)
	require.Equal(t, "1000", bs.Assets.Accounts[0].Code)
	require.Equal(t, "1200", bs.Assets.Accounts[1].Code)
}

func TestBuildIncomeStatement(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	accounts := []ledger.Account{
		{ID: "a1", Code: "4000", Name: "Sales", Type: ledger.AccountTypeRevenue, Balance: 500},
		{ID: "a2", Code: "5000", Name: "Rent", Type: ledger.AccountTypeExpense, Balance: 120},
		{ID: "a3", Code: "5100", Name: "Supplies", Type: ledger.AccountTypeExpense, Balance: 30},
		{ID: "a4", Code: "1000", Name: "Cash", Type: ledger.AccountTypeAsset, Balance: 999},
	}

	is := BuildIncomeStatement("org-1", from, to, accounts)
	require.Equal(t, int64(500), is.Revenue.Total)
	require.Equal(t, int64(150), is.Expenses.Total)
	require.Equal(t, int64(350), is.NetIncome)
	require.Len(t, is.Expenses.Accounts, 2)
}

func TestGenerateStatementsScopedToOrganization(t *testing.T) {
	accounts := &memoryAccounts{accounts: map[string]ledger.Account{
		"a1": {ID: "a1", Code: "1000", Type: ledger.AccountTypeAsset, Balance: 100, OrganizationID: "org-1"},
		"a2": {ID: "a2", Code: "3000", Type: ledger.AccountTypeEquity, Balance: 100, OrganizationID: "org-1"},
		"a3": {ID: "a3", Code: "1000", Type: ledger.AccountTypeAsset, Balance: 999, OrganizationID: "org-2"},
	}}
	svc := NewService(accounts, &memoryHistory{}, slog.Default())

	bs, err := svc.GenerateBalanceSheet(context.Background(), "org-1", time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(100), bs.Assets.Total)
	require.True(t, bs.Balanced)
}
