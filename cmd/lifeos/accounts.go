package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts and their balances",
	}

	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(listAccountsCmd())

	return cmd
}

func addAccountCmd() *cobra.Command {
	var form ledger.AccountForm

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Long: fmt.Sprintf(`Add an account with an opening balance. The balance is entered by hand and
is never adjusted by transactions.

Account types: %s`, typeChoices(model.AccountTypes)),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				editor := ledger.NewAccountEditor(a.store, a.session, a.desk)
				defaults, err := editor.Open(nil)
				if err != nil {
					return err
				}

				form.Name = args[0]
				if form.Type == "" {
					form.Type = defaults.Type
				}
				if form.Balance == "" {
					form.Balance = defaults.Balance
				}
				if form.Color == "" {
					form.Color = defaults.Color
				}

				id, err := editor.Submit(ctx, form)
				if err != nil {
					editor.Cancel()
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added account %q (%s)", form.Name, shortID(id))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&form.Type, "type", "t", "", "account type (default: checking)")
	cmd.Flags().StringVarP(&form.Balance, "balance", "b", "", "current balance (default: 0)")
	cmd.Flags().StringVar(&form.Color, "color", "", "display color as #RRGGBB")

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}

				if len(view.Accounts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No accounts yet. Use 'lifeos accounts add' to create one."))
					return nil
				}

				t := newTable(cmd.OutOrStdout(), "ID", "Name", "Type", "Balance")
				for _, acc := range view.Accounts {
					name := lipgloss.NewStyle().Foreground(lipgloss.Color(acc.Color)).Render(acc.Name)
					t.row(shortID(acc.ID), name, string(acc.Type), cli.FormatMoney(acc.Balance))
				}
				t.flush()

				fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", cli.BoldStyle.Render("Total:"), cli.FormatMoney(view.Summary.TotalBalance))
				return nil
			})
		},
	}
}
