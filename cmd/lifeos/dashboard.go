package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/training"
	"github.com/Veraticus/lifeos/internal/tui"
	"github.com/Veraticus/lifeos/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open a full-screen dashboard with the financial summary, goal progress,
today's tasks and journal, and the workout screens. Tasks are added, ticked
off and deleted from the Today tab; plans and workouts from the Training tab.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if theme == "" {
					theme = a.cfg.Dashboard.Theme
				}
				// Log lines would corrupt the alternate screen.
				previous := slog.Default()
				slog.SetDefault(common.DiscardLogger())
				defer slog.SetDefault(previous)

				editors := tui.Editors{
					Training: training.NewWithConfig(a.store, a.session, a.cfg.TrainingConfig()),
					Tasks:    ledger.NewTaskEditor(a.store, a.session, a.desk),
					Journal:  ledger.NewJournalEditor(a.store, a.session, a.desk, a.cfg.Journal.DateLayout),
				}
				return tui.Run(ctx, a.engine(), editors, tui.WithTheme(themes.GetTheme(theme)))
			})
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Color theme (default, catppuccin-mocha)")
	return cmd
}
