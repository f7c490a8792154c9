package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/model"
)

// UnknownAccount is shown for transactions whose account is not loaded.
const UnknownAccount = "Unknown"

var hundred = decimal.NewFromInt(100)

// TrendPoint is one period of the income/expense trend.
type TrendPoint struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Label   string
	Live    bool
}

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Total      decimal.Decimal
	Percentage decimal.Decimal
	Category   category.Info
}

// RecentTransaction is a transaction resolved for display.
type RecentTransaction struct {
	Category    category.Info
	AccountName string
	Transaction model.Transaction
	AccountMiss bool
}

// Summary is the derived financial view over the currently loaded records.
type Summary struct {
	AccountsByType     map[model.AccountType]int
	TotalBalance       decimal.Decimal
	PeriodIncome       decimal.Decimal
	PeriodExpense      decimal.Decimal
	Net                decimal.Decimal
	SpentToday         decimal.Decimal
	ExpensesByCategory []CategoryTotal
	Trend              []TrendPoint
	Recent             []RecentTransaction
}

// Compute derives the summary from scratch. It never filters transactions by
// date; the period is whatever window the caller loaded.
func Compute(txs []model.Transaction, accounts []model.Account, effective []model.Category, cfg Config) Summary {
	s := Summary{
		AccountsByType: make(map[model.AccountType]int),
		TotalBalance:   decimal.Zero,
		PeriodIncome:   decimal.Zero,
		PeriodExpense:  decimal.Zero,
		SpentToday:     decimal.Zero,
	}

	for _, a := range accounts {
		s.TotalBalance = s.TotalBalance.Add(a.Balance)
		s.AccountsByType[a.Type]++
	}

	today := model.DateOf(cfg.now())
	for _, t := range txs {
		switch t.Type {
		case model.TypeIncome:
			s.PeriodIncome = s.PeriodIncome.Add(t.Amount)
		case model.TypeExpense:
			s.PeriodExpense = s.PeriodExpense.Add(t.Amount)
			if t.Date.Equal(today) {
				s.SpentToday = s.SpentToday.Add(t.Amount)
			}
		}
	}
	s.Net = s.PeriodIncome.Sub(s.PeriodExpense)

	s.ExpensesByCategory = ExpensesByCategory(txs, effective, s.PeriodExpense)
	s.Trend = Trend(cfg.TrendHistory, cfg.now(), s.PeriodIncome, s.PeriodExpense)
	s.Recent = Recent(txs, accounts, effective, cfg.RecentCount)
	return s
}

// ExpensesByCategory totals expense transactions per expense category in
// catalog order, dropping zero totals. A category id listed twice is counted
// once, under its first entry. Expenses whose category is not an expense
// category in the catalog are added to the OtherID category, or to the
// fallback category when the catalog has none, so the breakdown always adds
// up to the expense total.
func ExpensesByCategory(txs []model.Transaction, effective []model.Category, expenseTotal decimal.Decimal) []CategoryTotal {
	expenses := category.FilterByType(effective, model.TypeExpense)
	known := make(map[string]bool, len(expenses))
	for _, c := range expenses {
		known[c.ID] = true
	}

	sums := make(map[string]decimal.Decimal)
	unmatched := decimal.Zero
	for _, t := range txs {
		if t.Type != model.TypeExpense {
			continue
		}
		if known[t.CategoryID] {
			sums[t.CategoryID] = sums[t.CategoryID].Add(t.Amount)
		} else {
			unmatched = unmatched.Add(t.Amount)
		}
	}
	if known[category.OtherID] {
		sums[category.OtherID] = sums[category.OtherID].Add(unmatched)
		unmatched = decimal.Zero
	}

	var out []CategoryTotal
	seen := make(map[string]bool)
	for _, c := range expenses {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		total := sums[c.ID]
		if total.IsZero() {
			continue
		}
		out = append(out, CategoryTotal{
			Category:   category.Resolve(c.ID, effective),
			Total:      total,
			Percentage: percentOf(total, expenseTotal),
		})
	}

	if !unmatched.IsZero() {
		out = append(out, CategoryTotal{
			Category:   category.Resolve("", nil),
			Total:      unmatched,
			Percentage: percentOf(unmatched, expenseTotal),
		})
	}
	return out
}

// percentOf returns part/total*100 rounded to two places, or 0 when total is 0.
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

// Trend returns the static periods with the last one's values replaced by
// the live totals, so the series keeps the length and labels of history.
// Without history the series is the live period alone.
func Trend(history []TrendPoint, now time.Time, income, expense decimal.Decimal) []TrendPoint {
	if len(history) == 0 {
		return []TrendPoint{{Label: now.Format("Jan"), Income: income, Expense: expense, Live: true}}
	}

	out := make([]TrendPoint, len(history))
	for i, p := range history {
		p.Live = false
		out[i] = p
	}
	last := &out[len(out)-1]
	last.Income = income
	last.Expense = expense
	last.Live = true
	return out
}

// Recent resolves the first n transactions of the snapshot for display.
func Recent(txs []model.Transaction, accounts []model.Account, effective []model.Category, n int) []RecentTransaction {
	if n <= 0 || n > len(txs) {
		n = len(txs)
	}

	out := make([]RecentTransaction, 0, n)
	for _, t := range txs[:n] {
		name, ok := AccountName(t.AccountID, accounts)
		out = append(out, RecentTransaction{
			Transaction: t,
			Category:    category.Resolve(t.CategoryID, effective),
			AccountName: name,
			AccountMiss: !ok,
		})
	}
	return out
}

// AccountName returns the name of the account with id, or UnknownAccount.
func AccountName(id string, accounts []model.Account) (string, bool) {
	for _, a := range accounts {
		if a.ID == id {
			return a.Name, true
		}
	}
	return UnknownAccount, false
}
