package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/engine"
	"github.com/Veraticus/lifeos/internal/model"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the financial and training summary",
		Long: `Show balances, period totals, the expense breakdown by category, the
income/expense trend, savings goals, the workout dashboard and today's tasks
and journal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
}

func printSummary(w io.Writer, view engine.View) {
	s := view.Summary

	fmt.Fprintln(w, cli.FormatTitle("Hello, "+view.User.Name))

	fmt.Fprintf(w, "%s %s\n", cli.BoldStyle.Render("Total balance:"), cli.FormatMoney(s.TotalBalance))
	fmt.Fprintf(w, "%s %s   %s %s   %s %s\n",
		cli.BoldStyle.Render("Income:"), cli.FormatSigned(s.PeriodIncome, true),
		cli.BoldStyle.Render("Expenses:"), cli.FormatSigned(s.PeriodExpense, false),
		cli.BoldStyle.Render("Net:"), cli.FormatMoney(s.Net))
	fmt.Fprintf(w, "%s %s\n", cli.BoldStyle.Render("Spent today:"), s.SpentToday.StringFixed(2))
	if counts := accountCounts(s.AccountsByType); counts != "" {
		fmt.Fprintf(w, "%s %s\n", cli.BoldStyle.Render("Accounts:"), counts)
	}

	if len(s.ExpensesByCategory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.SubtitleStyle.Render(cli.ChartIcon+" Expenses by category"))
		t := newTable(w, "Category", "Total", "Share")
		for _, ct := range s.ExpensesByCategory {
			name := lipgloss.NewStyle().Foreground(lipgloss.Color(ct.Category.Color)).
				Render(ct.Category.Icon.Glyph() + " " + ct.Category.Name)
			t.row(name, ct.Total.StringFixed(2), ct.Percentage.StringFixed(2)+"%")
		}
		t.flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.SubtitleStyle.Render("Trend"))
	t := newTable(w, "Period", "Income", "Expenses")
	for _, p := range s.Trend {
		label := p.Label
		if p.Live {
			label += " (now)"
		}
		t.row(label, p.Income.StringFixed(2), p.Expense.StringFixed(2))
	}
	t.flush()

	if len(view.Goals) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.SubtitleStyle.Render(cli.GoalIcon+" Goals"))
		printGoals(w, view.Goals)
	}

	if len(s.Recent) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.SubtitleStyle.Render("Recent transactions"))
		t := newTable(w, "Date", "Name", "Category", "Account", "Amount")
		for _, r := range s.Recent {
			tx := r.Transaction
			t.row(tx.Date.String(), tx.Name, r.Category.Name, r.AccountName,
				cli.FormatSigned(tx.Amount, tx.Type == model.TypeIncome))
		}
		t.flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.SubtitleStyle.Render(cli.WorkoutIcon+" Training"))
	printWorkouts(w, view.Workouts)

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.SubtitleStyle.Render("Today"))
	printDaily(w, view.Daily)
}

func printDaily(w io.Writer, d engine.DailySummary) {
	journal := "not written yet"
	if d.JournalToday {
		journal = cli.SuccessStyle.Render(cli.SuccessIcon + " written")
	}
	fmt.Fprintf(w, "%s %d   %s %s\n",
		cli.BoldStyle.Render("Pending tasks:"), d.PendingTasks,
		cli.BoldStyle.Render("Journal:"), journal)
	if d.JournalToday && d.LastEntry != "" {
		fmt.Fprintf(w, "%q\n", preview(d.LastEntry, previewLength))
	}
}

func accountCounts(byType map[model.AccountType]int) string {
	parts := make([]string, 0, len(byType))
	for t, n := range byType {
		parts = append(parts, fmt.Sprintf("%d %s", n, t))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func printWorkouts(w io.Writer, ws engine.WorkoutSummary) {
	done := "not yet"
	if ws.DoneToday {
		done = cli.SuccessStyle.Render(cli.SuccessIcon + " done")
	}
	fmt.Fprintf(w, "%s %s   %s %s min, %s kcal\n",
		cli.BoldStyle.Render("Today:"), done,
		cli.BoldStyle.Render("Last cardio:"), ws.LastCardio.TimeMinutes, ws.LastCardio.Calories)

	if len(ws.Recent) > 0 {
		t := newTable(w, "ID", "Date", "Plan", "Exercises")
		for _, l := range ws.Recent {
			t.row(shortID(l.ID), l.DateDisplay, l.PlanName, fmt.Sprint(len(l.Exercises)))
		}
		t.flush()
	}
}
