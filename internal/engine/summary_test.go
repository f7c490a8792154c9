package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/model"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return testNow }
	return cfg
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(id, amount, categoryID string, typ model.TransactionType, date model.Date) model.Transaction {
	return model.Transaction{
		ID:         id,
		Name:       id,
		Amount:     dec(amount),
		CategoryID: categoryID,
		AccountID:  "acc-1",
		Type:       typ,
		Date:       date,
	}
}

func TestCompute_TotalBalanceIgnoresTransactions(t *testing.T) {
	accounts := []model.Account{
		{ID: "acc-1", Name: "Checking", Type: model.AccountChecking, Balance: dec("1500.25")},
		{ID: "acc-2", Name: "Card", Type: model.AccountCredit, Balance: dec("-300.10")},
	}
	effective := category.NewCatalog(nil).Effective()
	day := model.NewDate(2024, time.March, 1)

	txSets := map[string][]model.Transaction{
		"none": nil,
		"some": {
			tx("t1", "100", "alimentacao", model.TypeExpense, day),
			tx("t2", "5000", "salario", model.TypeIncome, day),
		},
	}

	for name, txs := range txSets {
		t.Run(name, func(t *testing.T) {
			s := Compute(txs, accounts, effective, testConfig())
			assert.Equal(t, "1200.15", s.TotalBalance.String())
			assert.Equal(t, 1, s.AccountsByType[model.AccountChecking])
			assert.Equal(t, 1, s.AccountsByType[model.AccountCredit])
		})
	}
}

func TestCompute_PeriodTotals(t *testing.T) {
	day := model.NewDate(2024, time.March, 1)
	today := model.DateOf(testNow)
	txs := []model.Transaction{
		tx("t1", "0.10", "alimentacao", model.TypeExpense, today),
		tx("t2", "0.20", "transporte", model.TypeExpense, day),
		tx("t3", "1000", "salario", model.TypeIncome, today),
		tx("t4", "12.5", "alimentacao", model.TypeExpense, today),
	}

	s := Compute(txs, nil, category.NewCatalog(nil).Effective(), testConfig())

	assert.Equal(t, "1000", s.PeriodIncome.String())
	assert.Equal(t, "12.8", s.PeriodExpense.String())
	assert.Equal(t, "987.2", s.Net.String())
	assert.Equal(t, "12.6", s.SpentToday.String())
	assert.True(t, s.TotalBalance.IsZero())
}

func TestExpensesByCategory(t *testing.T) {
	day := model.NewDate(2024, time.March, 1)
	custom := []model.Category{
		{ID: "pets", Name: "Pets", Type: model.TypeExpense},
		{ID: "alimentacao", Name: "Duplicate", Type: model.TypeExpense},
	}
	effective := category.NewCatalog(custom).Effective()

	tests := []struct {
		name      string
		txs       []model.Transaction
		wantIDs   []string
		wantPcts  []string
		wantTotal string
	}{
		{
			name:      "no expenses",
			txs:       []model.Transaction{tx("t1", "100", "salario", model.TypeIncome, day)},
			wantTotal: "0",
		},
		{
			name: "zero categories dropped and catalog order kept",
			txs: []model.Transaction{
				tx("t1", "30", "pets", model.TypeExpense, day),
				tx("t2", "60", "alimentacao", model.TypeExpense, day),
				tx("t3", "10", "lazer", model.TypeExpense, day),
				tx("t4", "999", "salario", model.TypeIncome, day),
			},
			wantIDs:   []string{"alimentacao", "lazer", "pets"},
			wantPcts:  []string{"60", "10", "30"},
			wantTotal: "100",
		},
		{
			name: "unknown category folds into other",
			txs: []model.Transaction{
				tx("t1", "1", "alimentacao", model.TypeExpense, day),
				tx("t2", "2", "deleted-category", model.TypeExpense, day),
			},
			wantIDs:   []string{"alimentacao", category.OtherID},
			wantPcts:  []string{"33.33", "66.67"},
			wantTotal: "3",
		},
		{
			name: "unknown and other share one row",
			txs: []model.Transaction{
				tx("t1", "1", "alimentacao", model.TypeExpense, day),
				tx("t2", "1", category.OtherID, model.TypeExpense, day),
				tx("t3", "1", "deleted-category", model.TypeExpense, day),
				tx("t4", "1", "salario", model.TypeExpense, day),
			},
			wantIDs:   []string{"alimentacao", category.OtherID},
			wantPcts:  []string{"25", "75"},
			wantTotal: "4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(tt.txs, nil, effective, testConfig())

			var ids, pcts []string
			sum := decimal.Zero
			for _, ct := range s.ExpensesByCategory {
				ids = append(ids, ct.Category.ID)
				pcts = append(pcts, ct.Percentage.String())
				sum = sum.Add(ct.Total)
				assert.False(t, ct.Total.IsZero())
			}

			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantPcts, pcts)
			assert.Equal(t, tt.wantTotal, s.PeriodExpense.String())
			assert.True(t, sum.Equal(s.PeriodExpense), "breakdown %s != expense total %s", sum, s.PeriodExpense)
		})
	}
}

func TestExpensesByCategory_FallbackIsMarkedMiss(t *testing.T) {
	day := model.NewDate(2024, time.March, 1)
	withoutOther := []model.Category{{ID: "alimentacao", Name: "Food", Type: model.TypeExpense}}
	totals := ExpensesByCategory(
		[]model.Transaction{tx("t1", "5", "gone", model.TypeExpense, day)},
		withoutOther,
		dec("5"),
	)

	require.Len(t, totals, 1)
	assert.True(t, totals[0].Category.Miss)
	assert.Equal(t, category.FallbackName, totals[0].Category.Name)
	assert.Equal(t, "100", totals[0].Percentage.String())
}

func TestPercentOf_ZeroTotal(t *testing.T) {
	assert.True(t, percentOf(dec("10"), decimal.Zero).IsZero())
}

func TestTrend_OnlyLastPointIsLive(t *testing.T) {
	history := DefaultTrendHistory()
	trend := Trend(history, testNow, dec("100"), dec("40"))

	require.Len(t, trend, len(history))
	for i, p := range trend[:len(history)-1] {
		assert.False(t, p.Live)
		assert.Equal(t, history[i].Label, p.Label)
		assert.True(t, history[i].Income.Equal(p.Income))
	}

	last := trend[len(trend)-1]
	assert.True(t, last.Live)
	assert.Equal(t, "Jan", last.Label)
	assert.Equal(t, "100", last.Income.String())
	assert.Equal(t, "40", last.Expense.String())
	assert.False(t, history[len(history)-1].Live, "history is not modified")
}

func TestTrend_FixedLengthAndUniqueLabels(t *testing.T) {
	tests := []struct {
		name    string
		history []TrendPoint
		labels  []string
	}{
		{name: "no history", labels: []string{"Mar"}},
		{
			name: "live month also in history",
			history: []TrendPoint{
				{Label: "Mar", Income: dec("1"), Expense: dec("1")},
				{Label: "Apr", Income: dec("2"), Expense: dec("2")},
			},
			labels: []string{"Mar", "Apr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := Trend(tt.history, testNow, dec("7"), dec("3"))

			labels := make([]string, len(trend))
			for i, p := range trend {
				labels[i] = p.Label
			}
			assert.Equal(t, tt.labels, labels)
			assert.True(t, trend[len(trend)-1].Live)
			assert.Equal(t, "7", trend[len(trend)-1].Income.String())
		})
	}
}

func TestRecent(t *testing.T) {
	day := model.NewDate(2024, time.March, 1)
	accounts := []model.Account{{ID: "acc-1", Name: "Checking"}}
	effective := category.NewCatalog(nil).Effective()

	txs := make([]model.Transaction, 7)
	for i := range txs {
		txs[i] = tx(string(rune('a'+i)), "1", "lazer", model.TypeExpense, day)
	}
	txs[1].AccountID = "gone"
	txs[2].CategoryID = "gone"

	recent := Recent(txs, accounts, effective, 5)
	require.Len(t, recent, 5)
	assert.Equal(t, "a", recent[0].Transaction.ID)
	assert.Equal(t, "Checking", recent[0].AccountName)
	assert.Equal(t, "Leisure", recent[0].Category.Name)

	assert.Equal(t, UnknownAccount, recent[1].AccountName)
	assert.True(t, recent[1].AccountMiss)

	assert.Equal(t, category.FallbackName, recent[2].Category.Name)
	assert.True(t, recent[2].Category.Miss)

	assert.Len(t, Recent(txs[:2], accounts, effective, 5), 2)
}

func TestAccountName(t *testing.T) {
	accounts := []model.Account{{ID: "a", Name: "Wallet"}}

	name, ok := AccountName("a", accounts)
	assert.True(t, ok)
	assert.Equal(t, "Wallet", name)

	name, ok = AccountName("b", accounts)
	assert.False(t, ok)
	assert.Equal(t, UnknownAccount, name)
}
