package reports

import "github.com/quillbooks/quillbooks/internal/txn"

// RunningPoint is one step of a running balance fold.
type RunningPoint struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Total         int64  `json:"total"`
}

// signedAmount maps a transaction type to its cash-view sign: inflow types
// add, outflow types subtract.
func signedAmount(t txn.Transaction) int64 {
	switch t.Type {
	case txn.TypeCredit, txn.TypeRefund:
		return t.Amount
	default:
		return -t.Amount
	}
}

// CalculateRunningBalance folds the transactions in the given order into a
// running total. Output is deterministic for a fixed input order; callers
// choose the ordering.
func CalculateRunningBalance(txns []txn.Transaction) []RunningPoint {
	points := make([]RunningPoint, 0, len(txns))
	var total int64
	for _, t := range txns {
		amount := signedAmount(t)
		total += amount
		points = append(points, RunningPoint{
			TransactionID: t.ID,
			Amount:        amount,
			Total:         total,
		})
	}
	return points
}
