package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillbooks/quillbooks/internal/shared"
	"github.com/quillbooks/quillbooks/internal/txn"
)

func txnAt(id string, amount int64, typ txn.Type, at time.Time) txn.Transaction {
	return txn.Transaction{ID: id, Amount: amount, Type: typ, CreatedAt: at}
}

func TestAggregateByDay(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	txns := []txn.Transaction{
		txnAt("t1", 50, txn.TypeCredit, day.Add(9*time.Hour)),
		txnAt("t2", 75, txn.TypeCredit, day.Add(17*time.Hour)),
		txnAt("t3", 20, txn.TypeDebit, day.AddDate(0, 0, 1)),
	}

	buckets, err := AggregateByPeriod(txns, GranularityDay)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	require.Equal(t, "2025-03-10", buckets[0].Label)
	require.Equal(t, 2, buckets[0].Count)
	require.Equal(t, int64(125), buckets[0].TotalAmount)

	require.Equal(t, "2025-03-11", buckets[1].Label)
	require.Equal(t, 1, buckets[1].Count)
}

func TestAggregateByWeekStartsMonday(t *testing.T) {
	// 2025-03-12 is a Wednesday; its week starts Monday 2025-03-10.
	wednesday := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2025, 3, 17, 1, 0, 0, 0, time.UTC)

	buckets, err := AggregateByPeriod([]txn.Transaction{
		txnAt("t1", 10, txn.TypeCredit, wednesday),
		txnAt("t2", 10, txn.TypeCredit, sunday),
		txnAt("t3", 10, txn.TypeCredit, nextMonday),
	}, GranularityWeek)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, "2025-03-10", buckets[0].Label)
	require.Equal(t, 2, buckets[0].Count)
	require.Equal(t, "2025-03-17", buckets[1].Label)
}

func TestAggregateByMonth(t *testing.T) {
	buckets, err := AggregateByPeriod([]txn.Transaction{
		txnAt("t1", 10, txn.TypeCredit, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
		txnAt("t2", 10, txn.TypeCredit, time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)),
		txnAt("t3", 10, txn.TypeCredit, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}, GranularityMonth)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, "2025-01", buckets[0].Label)
	require.Equal(t, 2, buckets[0].Count)
	require.Equal(t, "2025-02", buckets[1].Label)
}

func TestAggregateUnknownGranularity(t *testing.T) {
	_, err := AggregateByPeriod(nil, Granularity("quarter"))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCalculateRunningBalance(t *testing.T) {
	at := time.Now()
	txns := []txn.Transaction{
		txnAt("t1", 100, txn.TypeCredit, at),
		txnAt("t2", 30, txn.TypeDebit, at),
		txnAt("t3", 10, txn.TypeRefund, at),
		txnAt("t4", 25, txn.TypePurchase, at),
	}

	points := CalculateRunningBalance(txns)
	require.Len(t, points, 4)
	require.Equal(t, int64(100), points[0].Total)
	require.Equal(t, int64(70), points[1].Total)
	require.Equal(t, int64(80), points[2].Total)
	require.Equal(t, int64(55), points[3].Total)
	require.Equal(t, int64(-25), points[3].Amount)
}

func TestCalculateRunningBalanceEmpty(t *testing.T) {
	require.Empty(t, CalculateRunningBalance(nil))
}
