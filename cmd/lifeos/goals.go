package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/engine"
	"github.com/Veraticus/lifeos/internal/ledger"
)

const goalBarWidth = 20

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
	}

	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(listGoalsCmd())

	return cmd
}

func addGoalCmd() *cobra.Command {
	var form ledger.GoalForm

	cmd := &cobra.Command{
		Use:   "add <name> <target>",
		Short: "Add a savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				editor := ledger.NewGoalEditor(a.store, a.session, a.desk)
				defaults, err := editor.Open(nil)
				if err != nil {
					return err
				}

				form.Name, form.TargetAmount = args[0], args[1]
				if form.CurrentAmount == "" {
					form.CurrentAmount = defaults.CurrentAmount
				}
				if form.Color == "" {
					form.Color = defaults.Color
				}

				id, err := editor.Submit(ctx, form)
				if err != nil {
					editor.Cancel()
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added goal %q (%s)", form.Name, shortID(id))))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.CurrentAmount, "current", "", "amount saved so far (default: 0)")
	cmd.Flags().StringVar(&form.Deadline, "deadline", "", "deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&form.Color, "color", "", "display color as #RRGGBB")

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}

				if len(view.Goals) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No goals yet. Use 'lifeos goals add' to create one."))
					return nil
				}
				printGoals(cmd.OutOrStdout(), view.Goals)
				return nil
			})
		},
	}
}

func printGoals(w io.Writer, goals []engine.GoalProgress) {
	t := newTable(w, "ID", "Goal", "Progress", "Saved", "Remaining", "Deadline")
	for _, p := range goals {
		g := p.Goal
		t.row(shortID(g.ID), g.Name,
			progressBar(p)+" "+p.Percent.StringFixed(2)+"%",
			g.CurrentAmount.StringFixed(2)+" / "+g.TargetAmount.StringFixed(2),
			p.Remaining.StringFixed(2),
			g.Deadline.String())
	}
	t.flush()
}

func progressBar(p engine.GoalProgress) string {
	filled := int(p.BarPercent.IntPart()) * goalBarWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", goalBarWidth-filled)
	if p.Complete() {
		return cli.SuccessStyle.Render(bar)
	}
	return cli.ProgressStyle.Render(bar)
}
