package ledger

import (
	"context"
	"log/slog"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/quillbooks/quillbooks/internal/shared"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(NewRedisRepository(client), slog.Default())
}

func TestCreateAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, CreateAccountInput{
		Code: "1000", Name: "Cash", Type: AccountTypeAsset, OrganizationID: "org-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.Equal(t, int64(0), account.Balance)

	fetched, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, "1000", fetched.Code)
	require.Equal(t, AccountTypeAsset, fetched.Type)
	require.Equal(t, "org-1", fetched.OrganizationID)
}

func TestCreateAccountDuplicateCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, CreateAccountInput{Code: "1000", Name: "Cash", Type: AccountTypeAsset})
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, CreateAccountInput{Code: "1000", Name: "Cash Again", Type: AccountTypeAsset})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreateAccountUnknownType(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{Code: "9000", Name: "Weird", Type: "GOODWILL"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateAccountMissingParent(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		Code: "1100", Name: "Petty Cash", Type: AccountTypeAsset, ParentID: "nope",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestApplyEntryNormalBalanceSides(t *testing.T) {
	cases := []struct {
		accountType AccountType
		direction   Direction
		want        int64
	}{
		{AccountTypeAsset, DirectionDebit, 100},
		{AccountTypeAsset, DirectionCredit, -100},
		{AccountTypeExpense, DirectionDebit, 100},
		{AccountTypeExpense, DirectionCredit, -100},
		{AccountTypeLiability, DirectionDebit, -100},
		{AccountTypeLiability, DirectionCredit, 100},
		{AccountTypeEquity, DirectionDebit, -100},
		{AccountTypeEquity, DirectionCredit, 100},
		{AccountTypeRevenue, DirectionDebit, -100},
		{AccountTypeRevenue, DirectionCredit, 100},
	}
	for _, tc := range cases {
		t.Run(string(tc.accountType)+"_"+string(tc.direction), func(t *testing.T) {
			svc := newTestService(t)
			ctx := context.Background()
			account, err := svc.CreateAccount(ctx, CreateAccountInput{
				Code: "A-" + string(tc.accountType), Name: "Test", Type: tc.accountType,
			})
			require.NoError(t, err)

			balance, err := svc.ApplyEntry(ctx, account.ID, 100, tc.direction)
			require.NoError(t, err)
			require.Equal(t, tc.want, balance)

			stored, err := svc.GetBalance(ctx, account.ID)
			require.NoError(t, err)
			require.Equal(t, tc.want, stored)
		})
	}
}

func TestApplyEntryValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account, err := svc.CreateAccount(ctx, CreateAccountInput{Code: "1000", Name: "Cash", Type: AccountTypeAsset})
	require.NoError(t, err)

	_, err = svc.ApplyEntry(ctx, account.ID, 0, DirectionDebit)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.ApplyEntry(ctx, account.ID, -5, DirectionDebit)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.ApplyEntry(ctx, account.ID, 5, Direction("SIDEWAYS"))
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.ApplyEntry(ctx, "missing", 5, DirectionDebit)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListByOrganization(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, CreateAccountInput{Code: "1000", Name: "Cash", Type: AccountTypeAsset, OrganizationID: "org-1"})
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, CreateAccountInput{Code: "2000", Name: "Loans", Type: AccountTypeLiability, OrganizationID: "org-2"})
	require.NoError(t, err)

	accounts, err := svc.ListByOrganization(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "1000", accounts[0].Code)

	all, err := svc.AllAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
