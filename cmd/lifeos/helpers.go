package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/config"
	"github.com/Veraticus/lifeos/internal/engine"
	"github.com/Veraticus/lifeos/internal/identity"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/service"
	"github.com/Veraticus/lifeos/internal/storage"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// store is a document store that owns resources.
type store interface {
	service.DocumentStore
	Close() error
}

// app is everything a command needs: the configuration, the store and a
// session signed in as the configured user.
type app struct {
	store   store
	session *identity.Session
	desk    *ledger.Desk
	cfg     config.Config
}

// openApp loads the configuration and opens the configured store.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		store:   st,
		session: identity.NewSignedInSession(cfg.Identity()),
		desk:    ledger.NewDesk(),
		cfg:     cfg,
	}, nil
}

// initStore opens the configured backend and runs migrations.
func initStore(ctx context.Context, cfg config.Config) (store, error) {
	if cfg.Database.Backend == config.BackendMemory {
		slog.Warn("Using the in-memory store, nothing will be saved")
		return storage.NewMemoryStore(), nil
	}

	st, err := storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, common.NewUserError("could not open the database at "+cfg.Database.Path, err)
	}

	// Run migrations
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return st, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close store", "error", err)
	}
}

func (a *app) engine() *engine.Engine {
	return engine.NewWithConfig(a.store, a.session, a.cfg.EngineConfig())
}

// loadView runs the engine until every collection has loaded and returns
// that view.
func (a *app) loadView(ctx context.Context) (engine.View, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e := a.engine()
	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(ctx) }()

	for view := range e.Views() {
		if view.Ready {
			cancel()
			<-errCh
			return view, nil
		}
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return engine.View{}, err
	}
	return engine.View{}, ctx.Err()
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

// confirmer returns the delete confirmation for cmd: always yes with --yes,
// otherwise a y/N prompt.
func confirmer(cmd *cobra.Command) ledger.Confirmer {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return ledger.Always
	}
	return cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// reportDelete prints the outcome of a delete request.
func reportDelete(w io.Writer, what string, outcome ledger.DeleteOutcome) {
	switch outcome {
	case ledger.DeleteConfirmed:
		fmt.Fprintln(w, cli.FormatSuccess("Deleted "+what))
	case ledger.DeleteCancelled:
		fmt.Fprintln(w, cli.FormatInfo("Nothing deleted"))
	case ledger.DeleteSkipped:
		fmt.Fprintln(w, cli.FormatWarning("Not signed in, nothing deleted"))
	}
}

// table writes aligned rows with a styled header.
type table struct {
	w *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{w: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = cli.BoldStyle.Render(h)
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(t.w, strings.Join(styled, "\t"))
	fmt.Fprintln(t.w, strings.Join(rules, "\t"))
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *table) flush() {
	if err := t.w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// findByPrefix returns the single item whose id starts with prefix.
func findByPrefix[T any](items []T, id func(T) string, prefix string) (T, error) {
	var (
		match T
		found int
	)
	for _, item := range items {
		if id(item) == prefix {
			return item, nil
		}
		if strings.HasPrefix(id(item), prefix) {
			match = item
			found++
		}
	}

	switch found {
	case 0:
		return match, fmt.Errorf("%q: %w", prefix, errNoMatch)
	case 1:
		return match, nil
	default:
		return match, fmt.Errorf("%q matches %d records, use more of the id", prefix, found)
	}
}

var errNoMatch = errors.New("no record with that id")

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
