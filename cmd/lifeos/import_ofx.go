package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	var opts ofx.ImportOptions

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX files exported from your bank. Every
line goes through the same validation as 'lifeos tx add'; lines already in the
ledger are skipped, so re-running an import is safe.

Examples:
  # Import into an account, using its id prefix
  lifeos import-ofx ~/Downloads/extrato_jan.ofx --account 3f2a

  # Import every file of a directory
  lifeos import-ofx ~/Downloads/Nubank/*.ofx --account 3f2a --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runImportOFX(cmd, args, opts, dryRun)
		},
	}

	cmd.Flags().StringVarP(&opts.AccountID, "account", "a", "", "account to post lines to (default: the statement's account number)")
	cmd.Flags().StringVar(&opts.ExpenseCategory, "expense-category", ofx.DefaultExpenseCategory, "category for debits")
	cmd.Flags().StringVar(&opts.IncomeCategory, "income-category", ofx.DefaultIncomeCategory, "category for credits")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string, opts ofx.ImportOptions, dryRun bool) error {
	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
		ctx = interrupts.HandleInterrupts(ctx, "Import", true)

		view, err := a.loadView(ctx)
		if err != nil {
			return err
		}
		if opts.AccountID != "" {
			acc, err := findByPrefix(view.Accounts, accountID, opts.AccountID)
			if err != nil {
				return fmt.Errorf("account %w", err)
			}
			opts.AccountID = acc.ID
		}
		opts.Existing = view.Transactions

		parser := ofx.NewParser()
		var lines []ofx.Line
		for _, path := range files {
			fileLines, err := parseOFXFile(ctx, parser, path)
			if err != nil {
				common.LogError(err, "Failed to parse OFX file", common.Fields{"file": path})
				continue
			}
			common.LogInfo("Processed file", common.Fields{"file": filepath.Base(path), "transactions_found": len(fileLines)})
			lines = append(lines, fileLines...)
		}

		w := cmd.OutOrStdout()
		if len(lines) == 0 {
			fmt.Fprintln(w, cli.FormatWarning("No transactions found in any file"))
			return nil
		}

		if dryRun {
			t := newTable(w, "Date", "Name", "Type", "Amount")
			for _, l := range lines {
				t.row(l.Date.String(), l.Merchant, l.TrnType, cli.FormatSigned(l.Amount, l.Type == model.TypeIncome))
			}
			t.flush()
			fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("Dry run complete - %d lines, nothing saved", len(lines))))
			return nil
		}

		bar := cli.NewProgressBar(w, len(lines), "Importing transactions...")
		opts.Progress = func(done, _ int) {
			if err := bar.Set(done); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}

		editor := ledger.NewTransactionEditor(a.store, a.session, a.desk, view.Effective)
		result, err := ofx.Import(ctx, editor, lines, opts)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d already present)", result.Created, result.Duplicates)))
		for _, r := range result.Rejected {
			common.LogDebug("Rejected statement line", common.Fields{"fitid": r.Line.FITID, "error": r.Err})
			fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Skipped %s %q: %v", r.Line.Date, r.Line.Merchant, r.Err)))
		}
		return nil
	})
}

// expandFiles expands globs and keeps plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parser.ParseFile(ctx, f)
}
