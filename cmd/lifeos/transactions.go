package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/engine"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Manage income and expense transactions",
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func addTransactionCmd() *cobra.Command {
	var form ledger.TransactionForm

	cmd := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: "Record a transaction",
		Long: `Record an income or expense. The category must exist and match the
transaction type; the account is required. The balance of the account is not
changed.

Examples:
  lifeos tx add "Groceries" 84.90 --category alimentacao --account <id>
  lifeos tx add "Salary" 5200 --type income --category salario --account <id>`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}

				editor := ledger.NewTransactionEditor(a.store, a.session, a.desk, view.Effective)
				defaults, err := editor.Open(nil)
				if err != nil {
					return err
				}

				form.Name, form.Amount = args[0], args[1]
				if form.Date == "" {
					form.Date = defaults.Date
				}
				if form.AccountID != "" {
					if acc, err := findByPrefix(view.Accounts, accountID, form.AccountID); err == nil {
						form.AccountID = acc.ID
					}
				}

				id, err := editor.Submit(ctx, form)
				if err != nil {
					editor.Cancel()
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %q (%s)", form.Name, shortID(id))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&form.CategoryID, "category", "c", "", "category id")
	cmd.Flags().StringVarP(&form.AccountID, "account", "a", "", "account id (a unique prefix is enough)")
	cmd.Flags().StringVarP(&form.Type, "type", "t", string(model.TypeExpense), "income or expense")
	cmd.Flags().StringVarP(&form.Date, "date", "d", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&form.Notes, "notes", "n", "", "free-form notes")

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}

				if len(view.Transactions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No transactions yet. Use 'lifeos tx add' to record one."))
					return nil
				}

				effective := view.Effective()
				t := newTable(cmd.OutOrStdout(), "ID", "Date", "Name", "Category", "Account", "Amount")
				for _, tx := range view.Transactions {
					info := category.Resolve(tx.CategoryID, effective)
					account, _ := engine.AccountName(tx.AccountID, view.Accounts)
					t.row(shortID(tx.ID), tx.Date.String(), tx.Name, info.Icon.Glyph()+" "+info.Name, account,
						cli.FormatSigned(tx.Amount, tx.Type == model.TypeIncome))
				}
				t.flush()
				return nil
			})
		},
	}
	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}
				tx, err := findByPrefix(view.Transactions, func(t model.Transaction) string { return t.ID }, args[0])
				if err != nil {
					return err
				}

				editor := ledger.NewTransactionEditor(a.store, a.session, a.desk, view.Effective)
				outcome, err := editor.RequestDelete(ctx, tx, confirmer(cmd))
				if err != nil {
					return err
				}
				reportDelete(cmd.OutOrStdout(), fmt.Sprintf("%q", tx.Name), outcome)
				return nil
			})
		},
	}
	addYesFlag(cmd)
	return cmd
}

func accountID(a model.Account) string { return a.ID }

// typeChoices lists the accepted values of an enum flag.
func typeChoices[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}
