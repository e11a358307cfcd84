package core

// Summary is the derived income/expense/balance view over one user's
// transactions. It is never stored; callers recompute it from the record
// set on every read so it cannot drift.
//
// TotalExpense keeps the signed negative sum. Balance is always the exact
// sum of all amounts: TotalIncome + TotalExpense.
type Summary struct {
	TotalIncome  Money `json:"totalIncome"`
	TotalExpense Money `json:"totalExpense"`
	Balance      Money `json:"balance"`
}

// Summarize folds a transaction set into its Summary. An empty set yields
// the zero summary.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		if t.Amount.Cents > 0 {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		} else {
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}
	s.Balance = s.TotalIncome.Add(s.TotalExpense)
	return s
}
