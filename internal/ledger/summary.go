package ledger

import "sort"

// Summary is the dashboard headline aggregation.
type Summary struct {
	Income   Cents `json:"income"`
	Expenses Cents `json:"expenses"`
	Balance  Cents `json:"balance"`
}

// Summarize folds the ledger into income/expenses/balance.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			s.Income += t.Amount
		case TypeExpense:
			s.Expenses += t.Amount
		}
	}
	s.Balance = s.Income - s.Expenses
	return s
}

// SpendingByCategory sums expense amounts per category.
func SpendingByCategory(txs []Transaction) map[string]Cents {
	out := make(map[string]Cents)
	for _, t := range txs {
		if t.Type == TypeExpense {
			out[t.Category] += t.Amount
		}
	}
	return out
}

// BalancePoint is one step of the running-balance chart.
type BalancePoint struct {
	Date    string `json:"date"`
	Balance Cents  `json:"balance"`
}

// BalanceSeries returns the running balance in date order. Entries without a
// date are folded into the earliest point.
func BalanceSeries(txs []Transaction) []BalancePoint {
	byDate := make(map[string]Cents)
	for _, t := range txs {
		delta := t.Amount
		if t.Type == TypeExpense {
			delta = -delta
		}
		byDate[t.Date] += delta
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates) // ISO dates sort lexicographically

	out := make([]BalancePoint, 0, len(dates))
	var running Cents
	for _, d := range dates {
		running += byDate[d]
		out = append(out, BalancePoint{Date: d, Balance: running})
	}
	return out
}
