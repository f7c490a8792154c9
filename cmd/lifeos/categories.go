package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List and add transaction categories",
		Long: `List the built-in and custom categories, or add a custom one. Custom
categories cannot be edited or deleted once added.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}

				effective := view.Effective()
				if kind != "" {
					effective = category.FilterByType(effective, model.TransactionType(kind))
				}

				custom := make(map[string]bool, len(view.Catalog.Custom))
				for _, c := range view.Catalog.Custom {
					custom[c.ID] = true
				}

				t := newTable(cmd.OutOrStdout(), "ID", "Name", "Type", "Origin")
				for _, c := range effective {
					name := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(c.Icon.Glyph() + " " + c.Name)
					origin := cli.SubtleStyle.Render("built-in")
					if custom[c.ID] {
						origin = "custom"
					}
					t.row(c.ID, name, string(c.Type), origin)
				}
				t.flush()
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "only show income or expense categories")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var form ledger.CategoryForm

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Long: `Add a custom category. Icons: ShoppingCart, Car, Coffee, Home, Target,
TrendingUp, DollarSign, Wallet. Unknown icons fall back to DollarSign.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}

				// Check if category already exists
				for _, c := range view.Effective() {
					if strings.EqualFold(c.Name, args[0]) {
						return fmt.Errorf("category %q already exists (%s)", args[0], c.ID)
					}
				}

				editor := ledger.NewCategoryEditor(a.store, a.session, a.desk)
				if _, err := editor.Open(nil); err != nil {
					return err
				}

				form.Name = args[0]
				id, err := editor.Submit(ctx, form)
				if err != nil {
					editor.Cancel()
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %s)", form.Name, id)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&form.Type, "type", "t", string(model.TypeExpense), "income or expense")
	cmd.Flags().StringVar(&form.Color, "color", category.DefaultColor, "display color as #RRGGBB")
	cmd.Flags().StringVar(&form.Icon, "icon", string(model.IconGeneric), "icon name")

	return cmd
}
