package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/identity"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
	"github.com/Veraticus/lifeos/internal/storage"
	"github.com/Veraticus/lifeos/internal/testutil"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func newTransactionEditor(fx *testutil.Fixture, desk *Desk) *TransactionEditor {
	e := NewTransactionEditor(fx.Store, fx.Identity, desk, nil)
	e.SetClock(func() time.Time { return testNow })
	return e
}

func validTransactionForm() TransactionForm {
	return TransactionForm{
		Name:       "Groceries",
		Amount:     "10.25",
		CategoryID: "alimentacao",
		AccountID:  "acc-1",
		Date:       "2024-03-14",
		Type:       "expense",
	}
}

func decodeTransaction(t *testing.T, fx *testutil.Fixture, id string) model.Transaction {
	t.Helper()
	var tx model.Transaction
	require.NoError(t, service.Decode(service.Document{ID: id, Fields: fx.Doc(t, service.CollectionTransactions, id)}, &tx))
	return tx
}

func TestTransactionEditor_OpenDefaults(t *testing.T) {
	fx := testutil.NewFixture(t)
	e := newTransactionEditor(fx, nil)

	form, err := e.Open(nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", form.Date)
	assert.Equal(t, "expense", form.Type)
	assert.Empty(t, form.Name)
	assert.True(t, e.IsOpen())
	assert.Empty(t, e.EditingID())
}

func TestTransactionEditor_ValidationNeverReachesStorage(t *testing.T) {
	tests := []struct {
		mutate  func(*TransactionForm)
		wantErr error
		name    string
		field   string
	}{
		{name: "empty name", field: "name", wantErr: ErrRequired, mutate: func(f *TransactionForm) { f.Name = "  " }},
		{name: "non-numeric amount", field: "amount", wantErr: ErrNotANumber, mutate: func(f *TransactionForm) { f.Amount = "ten" }},
		{name: "zero amount", field: "amount", wantErr: ErrOutOfRange, mutate: func(f *TransactionForm) { f.Amount = "0" }},
		{name: "negative amount", field: "amount", wantErr: ErrOutOfRange, mutate: func(f *TransactionForm) { f.Amount = "-5" }},
		{name: "bad type", field: "type", wantErr: model.ErrInvalidType, mutate: func(f *TransactionForm) { f.Type = "transfer" }},
		{name: "missing category", field: "category", wantErr: ErrRequired, mutate: func(f *TransactionForm) { f.CategoryID = "" }},
		{name: "unknown category", field: "category", wantErr: ErrUnknownCategory, mutate: func(f *TransactionForm) { f.CategoryID = "nope" }},
		{name: "type mismatch", field: "type", wantErr: ErrTypeMismatch, mutate: func(f *TransactionForm) { f.CategoryID = "salario" }},
		{name: "missing account", field: "account", wantErr: ErrRequired, mutate: func(f *TransactionForm) { f.AccountID = "" }},
		{name: "bad date", field: "date", wantErr: nil, mutate: func(f *TransactionForm) { f.Date = "14/03/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := testutil.NewFixture(t)
			e := newTransactionEditor(fx, nil)
			_, err := e.Open(nil)
			require.NoError(t, err)

			form := validTransactionForm()
			tt.mutate(&form)

			id, err := e.Submit(fx.Ctx, form)
			assert.Empty(t, id)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			assert.Equal(t, 0, fx.Store.Calls(storage.OpCreate))
			assert.True(t, e.IsOpen(), "editor stays open after a validation error")
		})
	}
}

func TestTransactionEditor_CreateAndEdit(t *testing.T) {
	fx := testutil.NewFixture(t)
	desk := NewDesk()
	e := newTransactionEditor(fx, desk)

	_, err := e.Open(nil)
	require.NoError(t, err)
	id, err := e.Submit(fx.Ctx, validTransactionForm())
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.False(t, e.IsOpen())
	assert.Empty(t, desk.Active())

	created := decodeTransaction(t, fx, id)
	assert.Equal(t, "Groceries", created.Name)
	assert.Equal(t, "10.25", created.Amount.String())
	assert.Equal(t, model.NewDate(2024, time.March, 14), created.Date)
	assert.False(t, created.CreatedAt.IsZero())

	form, err := e.Open(&created)
	require.NoError(t, err)
	assert.Equal(t, id, e.EditingID())
	assert.Equal(t, TransactionForm{
		Name:       "Groceries",
		Amount:     "10.25",
		CategoryID: "alimentacao",
		AccountID:  "acc-1",
		Date:       "2024-03-14",
		Type:       "expense",
	}, form)

	createdAt := fx.Doc(t, service.CollectionTransactions, id)["createdAt"]
	form.Amount = "99.99"
	form.Notes = "weekly shop"
	gotID, err := e.Submit(fx.Ctx, form)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	fields := fx.Doc(t, service.CollectionTransactions, id)
	assert.Equal(t, "99.99", fields["amount"])
	assert.Equal(t, "weekly shop", fields["notes"])
	assert.Equal(t, createdAt, fields["createdAt"])
	assert.NotEmpty(t, fields["updatedAt"])
	assert.Equal(t, 1, fx.Store.Len(fx.Path(service.CollectionTransactions)))
}

func TestTransactionEditor_AmountRoundTripIsExact(t *testing.T) {
	fx := testutil.NewFixture(t)
	e := newTransactionEditor(fx, nil)

	for _, amount := range []string{"0.1", "1234567.89", "0.00000001"} {
		_, err := e.Open(nil)
		require.NoError(t, err)
		form := validTransactionForm()
		form.Amount = amount
		id, err := e.Submit(fx.Ctx, form)
		require.NoError(t, err)

		tx := decodeTransaction(t, fx, id)
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString(amount)), amount)

		reopened, err := e.Open(&tx)
		require.NoError(t, err)
		assert.Equal(t, amount, reopened.Amount)
		e.Cancel()
	}
}

func TestTransactionEditor_CustomCategoryFromCatalog(t *testing.T) {
	fx := testutil.NewFixture(t)
	catalog := func() []model.Category {
		return []model.Category{{ID: "bonus", Type: model.TypeIncome}}
	}
	e := NewTransactionEditor(fx.Store, fx.Identity, nil, catalog)

	_, err := e.Open(nil)
	require.NoError(t, err)
	form := validTransactionForm()
	form.CategoryID = "bonus"
	form.Type = "income"

	_, err = e.Submit(fx.Ctx, form)
	require.NoError(t, err)
}

func TestTransactionEditor_StorageError(t *testing.T) {
	fx := testutil.NewFixture(t)
	e := newTransactionEditor(fx, nil)
	errDenied := errors.New("permission denied")
	fx.Store.SetFailure(func(op, _ string) error {
		if op == storage.OpCreate {
			return errDenied
		}
		return nil
	})

	_, err := e.Open(nil)
	require.NoError(t, err)
	_, err = e.Submit(fx.Ctx, validTransactionForm())

	var serr *common.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create", serr.Op)
	assert.Equal(t, fx.Path(service.CollectionTransactions), serr.Path)
	assert.ErrorIs(t, err, errDenied)
	assert.True(t, e.IsOpen())
	assert.Equal(t, 0, fx.Store.Len(fx.Path(service.CollectionTransactions)))
}

func TestTransactionEditor_NoIdentityIsNoOp(t *testing.T) {
	fx := testutil.NewFixture(t)
	e := NewTransactionEditor(fx.Store, identity.NewSession(), nil, nil)

	_, err := e.Open(nil)
	require.NoError(t, err)
	id, err := e.Submit(fx.Ctx, validTransactionForm())
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, fx.Store.Calls(storage.OpCreate))

	outcome, err := e.RequestDelete(fx.Ctx, model.Transaction{ID: "x"}, Always)
	require.NoError(t, err)
	assert.Equal(t, DeleteSkipped, outcome)
	assert.Equal(t, 0, fx.Store.Calls(storage.OpDelete))
}

func TestTransactionEditor_SubmitRequiresOpen(t *testing.T) {
	fx := testutil.NewFixture(t)
	e := newTransactionEditor(fx, nil)

	_, err := e.Submit(fx.Ctx, validTransactionForm())
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestTransactionEditor_RequestDelete(t *testing.T) {
	fx := testutil.NewFixture(t)
	id := fx.Seed(t, service.CollectionTransactions, service.Fields{
		"name": "Coffee", "amount": "4", "category": "lazer", "account": "a", "type": "expense", "date": "2024-03-01",
	})
	existing := decodeTransaction(t, fx, id)
	e := newTransactionEditor(fx, nil)

	t.Run("cancelled confirmation performs no storage call", func(t *testing.T) {
		var prompts []string
		outcome, err := e.RequestDelete(fx.Ctx, existing, ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
			prompts = append(prompts, prompt)
			return false, nil
		}))
		require.NoError(t, err)
		assert.Equal(t, DeleteCancelled, outcome)
		assert.Equal(t, []string{`Delete transaction "Coffee"?`}, prompts)
		assert.Equal(t, 0, fx.Store.Calls(storage.OpDelete))
		assert.Equal(t, 1, fx.Store.Len(fx.Path(service.CollectionTransactions)))
	})

	t.Run("confirmer error", func(t *testing.T) {
		outcome, err := e.RequestDelete(fx.Ctx, existing, ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, context.Canceled
		}))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, DeleteCancelled, outcome)
		assert.Equal(t, 0, fx.Store.Calls(storage.OpDelete))
	})

	t.Run("confirmed deletes once", func(t *testing.T) {
		outcome, err := e.RequestDelete(fx.Ctx, existing, Always)
		require.NoError(t, err)
		assert.Equal(t, DeleteConfirmed, outcome)
		assert.Equal(t, 1, fx.Store.Calls(storage.OpDelete))
		assert.Equal(t, 0, fx.Store.Len(fx.Path(service.CollectionTransactions)))
	})

	t.Run("storage error on delete", func(t *testing.T) {
		outcome, err := e.RequestDelete(fx.Ctx, existing, Always)
		assert.Equal(t, DeleteConfirmed, outcome)
		assert.True(t, common.IsStorageError(err))
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDesk_OneEditorAtATime(t *testing.T) {
	fx := testutil.NewFixture(t)
	desk := NewDesk()
	txEditor := newTransactionEditor(fx, desk)
	accountEditor := NewAccountEditor(fx.Store, fx.Identity, desk)

	_, err := txEditor.Open(nil)
	require.NoError(t, err)
	assert.Equal(t, "transaction editor", desk.Active())

	_, err = accountEditor.Open(nil)
	assert.ErrorIs(t, err, ErrEditorBusy)

	_, err = accountEditor.RequestDelete(fx.Ctx, model.Account{ID: "a"}, Always)
	assert.ErrorIs(t, err, ErrEditorBusy)

	txEditor.Cancel()
	assert.Empty(t, desk.Active())

	_, err = accountEditor.Open(nil)
	require.NoError(t, err)
	accountEditor.Cancel()
	assert.Equal(t, 0, fx.Store.Calls(storage.OpCreate))
}

func TestAccountEditor(t *testing.T) {
	fx := testutil.NewFixture(t)
	e := NewAccountEditor(fx.Store, fx.Identity, nil)

	form, err := e.Open(nil)
	require.NoError(t, err)
	assert.Equal(t, AccountForm{Type: "checking", Balance: "0", Color: "#9333EA"}, form)

	form.Name = "Credit Card"
	form.Type = "credit"
	form.Balance = "-1250.40"
	id, err := e.Submit(fx.Ctx, form)
	require.NoError(t, err)

	fields := fx.Doc(t, service.CollectionAccounts, id)
	assert.Equal(t, "-1250.4", fields["balance"])
	assert.Equal(t, "credit", fields["type"])

	_, err = e.Open(nil)
	require.NoError(t, err)
	_, err = e.Submit(fx.Ctx, AccountForm{Name: "X", Type: "brokerage", Balance: "1"})
	assert.ErrorIs(t, err, model.ErrInvalidType)
	_, err = e.Submit(fx.Ctx, AccountForm{Name: "X", Type: "cash", Balance: ""})
	assert.ErrorIs(t, err, ErrRequired)
	e.Cancel()

	var account model.Account
	require.NoError(t, service.Decode(service.Document{ID: id, Fields: fields}, &account))
	outcome, err := e.RequestDelete(fx.Ctx, account, Always)
	require.NoError(t, err)
	assert.Equal(t, DeleteConfirmed, outcome)
}

func TestGoalEditor(t *testing.T) {
	fx := testutil.NewFixture(t)
	e := NewGoalEditor(fx.Store, fx.Identity, nil)

	form, err := e.Open(nil)
	require.NoError(t, err)
	assert.Equal(t, "0", form.CurrentAmount)
	assert.Equal(t, "#9333EA", form.Color)

	tests := []struct {
		wantErr error
		form    GoalForm
		name    string
	}{
		{name: "zero target", form: GoalForm{Name: "G", TargetAmount: "0", CurrentAmount: "0"}, wantErr: ErrOutOfRange},
		{name: "negative current", form: GoalForm{Name: "G", TargetAmount: "10", CurrentAmount: "-1"}, wantErr: ErrOutOfRange},
		{name: "bad deadline", form: GoalForm{Name: "G", TargetAmount: "10", CurrentAmount: "0", Deadline: "soon"}},
		{name: "missing name", form: GoalForm{TargetAmount: "10", CurrentAmount: "0"}, wantErr: ErrRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Submit(fx.Ctx, tt.form)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
	assert.Equal(t, 0, fx.Store.Calls(storage.OpCreate))

	form.Name = "Emergency fund"
	form.TargetAmount = "300"
	form.CurrentAmount = "500"
	form.Deadline = "2024-12-31"
	id, err := e.Submit(fx.Ctx, form)
	require.NoError(t, err)

	var goal model.Goal
	require.NoError(t, service.Decode(service.Document{ID: id, Fields: fx.Doc(t, service.CollectionGoals, id)}, &goal))
	assert.Equal(t, "500", goal.CurrentAmount.String())
	assert.Equal(t, "2024-12-31", goal.Deadline.String())

	edit, err := e.Open(&goal)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", edit.Deadline)
	assert.Equal(t, "300", edit.TargetAmount)
	e.Cancel()
}

func TestCategoryEditor_AppendOnly(t *testing.T) {
	fx := testutil.NewFixture(t)
	e := NewCategoryEditor(fx.Store, fx.Identity, nil)

	existing := model.Category{ID: "pets", Name: "Pets", Type: model.TypeExpense}

	_, err := e.Open(&existing)
	assert.ErrorIs(t, err, ErrCategoryAppendOnly)
	assert.False(t, e.IsOpen())

	outcome, err := e.RequestDelete(fx.Ctx, existing, Always)
	assert.ErrorIs(t, err, ErrCategoryAppendOnly)
	assert.Equal(t, DeleteCancelled, outcome)

	form, err := e.Open(nil)
	require.NoError(t, err)
	assert.Equal(t, CategoryForm{Color: "#9333EA", Icon: "DollarSign", Type: "expense"}, form)

	form.Name = "Pets"
	form.Icon = "Dog"
	id, err := e.Submit(fx.Ctx, form)
	require.NoError(t, err)

	fields := fx.Doc(t, service.CollectionCategories, id)
	assert.Equal(t, "DollarSign", fields["icon"])
	assert.Equal(t, "expense", fields["type"])
	assert.NotEmpty(t, fields["createdAt"])
	assert.Equal(t, 0, fx.Store.Calls(storage.OpUpdate))
	assert.Equal(t, 0, fx.Store.Calls(storage.OpDelete))
}

func TestValidationError_Message(t *testing.T) {
	err := invalid("amount", "ten", ErrNotANumber)
	assert.Equal(t, `amount "ten" is not a number`, err.Error())
	assert.Equal(t, "name is required", invalid("name", "", ErrRequired).Error())
}
