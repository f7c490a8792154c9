package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
)

const previewLength = 80

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Write and read your journal",
	}

	cmd.AddCommand(writeJournalCmd())
	cmd.AddCommand(listJournalCmd())

	return cmd
}

func writeJournalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write [text]",
		Short: "Add a journal entry",
		Long: `Add a journal entry. Without an argument the entry is read from stdin
until EOF. Entries cannot be edited or deleted afterwards.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := entryContent(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				editor := ledger.NewJournalEditor(a.store, a.session, a.desk, a.cfg.Journal.DateLayout)
				if _, err := editor.Open(nil); err != nil {
					return err
				}
				if _, err := editor.Submit(ctx, ledger.JournalForm{Content: content}); err != nil {
					editor.Cancel()
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Saved journal entry"))
				return nil
			})
		},
	}
}

func entryContent(r io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read entry: %w", err)
	}
	return string(data), nil
}

func listJournalCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}

				if len(view.Journal) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("Your journal is empty. Use 'lifeos journal write' to start."))
					return nil
				}
				printJournal(cmd.OutOrStdout(), view.Journal, full)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print whole entries instead of previews")
	return cmd
}

func printJournal(w io.Writer, entries []model.JournalEntry, full bool) {
	for _, e := range entries {
		date := e.DateDisplay
		if date == "" {
			date = "No date"
		}
		fmt.Fprintln(w, cli.BoldStyle.Render(date))
		if full {
			fmt.Fprintln(w, strings.TrimRight(e.Content, "\n"))
		} else {
			fmt.Fprintln(w, preview(e.Content, previewLength))
		}
		fmt.Fprintln(w)
	}
}

// preview flattens s to one line of at most n runes.
func preview(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
