// Package engine derives the financial, workout and daily views from the
// mirrored collections of the signed-in user.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/feed"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
)

// Config holds configuration options for the engine.
type Config struct {
	// Now is the clock used for "today".
	Now func() time.Time
	// TrendHistory holds the trend periods; the last one is the live period.
	TrendHistory []TrendPoint
	// RecentCount is how many transactions and logs the views list.
	RecentCount int
	// TransactionLimit bounds the transaction subscription; 0 loads all.
	TransactionLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Now:          time.Now,
		TrendHistory: DefaultTrendHistory(),
		RecentCount:  5,
	}
}

// DefaultTrendHistory returns the built-in six-month series. The Jan slot is
// a placeholder for the live period.
func DefaultTrendHistory() []TrendPoint {
	point := func(label string, income, expense int64) TrendPoint {
		return TrendPoint{Label: label, Income: decimal.NewFromInt(income), Expense: decimal.NewFromInt(expense)}
	}
	return []TrendPoint{
		point("Aug", 4800, 3200),
		point("Sep", 5000, 3500),
		point("Oct", 5200, 2800),
		point("Nov", 4900, 4100),
		point("Dec", 5500, 4500),
		point("Jan", 0, 0),
	}
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// View is the complete derived state published after every snapshot.
type View struct {
	Summary      Summary
	Workouts     WorkoutSummary
	Daily        DailySummary
	User         service.User
	Catalog      category.Catalog
	Transactions []model.Transaction
	Accounts     []model.Account
	Goals        []GoalProgress
	Plans        []model.WorkoutPlan
	Logs         []model.WorkoutLog
	// Tasks lists pending tasks first, newest first within each group.
	Tasks    []model.Task
	Journal  []model.JournalEntry
	SignedIn bool
	// Ready is set once every collection has delivered its first snapshot.
	Ready bool
}

// Effective returns the effective category catalog of the view.
func (v View) Effective() []model.Category {
	return v.Catalog.Effective()
}

// Engine is the single consumer of the user's collection snapshots. It is
// the only writer of View; consumers read it from Views.
type Engine struct {
	store    service.DocumentStore
	identity service.Identity
	views    chan View
	cfg      Config
}

// New creates a new engine with the default configuration.
func New(store service.DocumentStore, identity service.Identity) *Engine {
	return NewWithConfig(store, identity, DefaultConfig())
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(store service.DocumentStore, identity service.Identity, cfg Config) *Engine {
	if cfg.RecentCount <= 0 {
		cfg.RecentCount = DefaultConfig().RecentCount
	}
	return &Engine{
		store:    store,
		identity: identity,
		views:    make(chan View, 1),
		cfg:      cfg,
	}
}

// Views delivers the latest view. An unread view is replaced by a newer one.
// The channel is closed when Run returns.
func (e *Engine) Views() <-chan View {
	return e.views
}

// Run consumes snapshots until ctx is done. Subscriptions are reopened
// whenever the identity changes and released when Run returns.
func (e *Engine) Run(ctx context.Context) error {
	changed := make(chan struct{}, 1)
	unregister := e.identity.OnChange(func(service.User, bool) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unregister()
	defer close(e.views)

	for {
		if err := e.session(ctx, changed); err != nil {
			return err
		}
		slog.Debug("Identity changed, reopening subscriptions")
	}
}

const collectionCount = 8

type subscriptions struct {
	transactions *feed.Subscription[model.Transaction]
	accounts     *feed.Subscription[model.Account]
	goals        *feed.Subscription[model.Goal]
	categories   *feed.Subscription[model.Category]
	plans        *feed.Subscription[model.WorkoutPlan]
	logs         *feed.Subscription[model.WorkoutLog]
	tasks        *feed.Subscription[model.Task]
	journal      *feed.Subscription[model.JournalEntry]
}

func (s *subscriptions) close() {
	s.transactions.Close()
	s.accounts.Close()
	s.goals.Close()
	s.categories.Close()
	s.plans.Close()
	s.logs.Close()
	s.tasks.Close()
	s.journal.Close()
}

func (e *Engine) open(ctx context.Context) *subscriptions {
	byDate := service.Query{OrderBy: "date", Descending: true, Limit: e.cfg.TransactionLimit}
	newestFirst := service.Query{OrderBy: "createdAt", Descending: true}
	return &subscriptions{
		transactions: feed.Subscribe[model.Transaction](ctx, e.store, e.identity, service.CollectionTransactions, byDate),
		accounts:     feed.Subscribe[model.Account](ctx, e.store, e.identity, service.CollectionAccounts, service.Query{}),
		goals:        feed.Subscribe[model.Goal](ctx, e.store, e.identity, service.CollectionGoals, service.Query{}),
		categories:   feed.Subscribe[model.Category](ctx, e.store, e.identity, service.CollectionCategories, service.Query{}),
		plans:        feed.Subscribe[model.WorkoutPlan](ctx, e.store, e.identity, service.CollectionWorkoutPlans, newestFirst),
		logs:         feed.Subscribe[model.WorkoutLog](ctx, e.store, e.identity, service.CollectionWorkoutLogs, newestFirst),
		tasks:        feed.Subscribe[model.Task](ctx, e.store, e.identity, service.CollectionTasks, newestFirst),
		journal:      feed.Subscribe[model.JournalEntry](ctx, e.store, e.identity, service.CollectionJournal, newestFirst),
	}
}

// session runs one identity's subscriptions. It returns nil when the identity
// changes and ctx.Err() when ctx is done.
func (e *Engine) session(ctx context.Context, changed <-chan struct{}) error {
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	user, signedIn := e.identity.Current()
	view := View{User: user, SignedIn: signedIn, Catalog: category.NewCatalog(nil), Ready: !signedIn}
	e.recompute(&view)
	e.publish(view)

	if !signedIn {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
			return nil
		}
	}

	subs := e.open(sessionCtx)
	defer subs.close()

	loaded := make(map[string]bool, collectionCount)
	markLoaded := func(collection string) {
		loaded[collection] = true
		view.Ready = len(loaded) == collectionCount
	}

	var (
		txCh       = subs.transactions.Snapshots()
		accountCh  = subs.accounts.Snapshots()
		goalCh     = subs.goals.Snapshots()
		categoryCh = subs.categories.Snapshots()
		planCh     = subs.plans.Snapshots()
		logCh      = subs.logs.Snapshots()
		taskCh     = subs.tasks.Snapshots()
		journalCh  = subs.journal.Snapshots()
	)

	// A closed channel counts as loaded and keeps the last data; the view is
	// still republished so Ready reaches readers.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
			return nil
		case items, ok := <-txCh:
			if ok {
				view.Transactions = items
			} else {
				txCh = nil
			}
			markLoaded(subs.transactions.Collection())
		case items, ok := <-accountCh:
			if ok {
				view.Accounts = items
			} else {
				accountCh = nil
			}
			markLoaded(subs.accounts.Collection())
		case items, ok := <-goalCh:
			if ok {
				view.Goals = TrackGoals(items)
			} else {
				goalCh = nil
			}
			markLoaded(subs.goals.Collection())
		case items, ok := <-categoryCh:
			if ok {
				view.Catalog = view.Catalog.WithCustom(items)
			} else {
				categoryCh = nil
			}
			markLoaded(subs.categories.Collection())
		case items, ok := <-planCh:
			if ok {
				view.Plans = items
			} else {
				planCh = nil
			}
			markLoaded(subs.plans.Collection())
		case items, ok := <-logCh:
			if ok {
				view.Logs = items
			} else {
				logCh = nil
			}
			markLoaded(subs.logs.Collection())
		case items, ok := <-taskCh:
			if ok {
				view.Tasks = OrderTasks(items)
			} else {
				taskCh = nil
			}
			markLoaded(subs.tasks.Collection())
		case items, ok := <-journalCh:
			if ok {
				view.Journal = items
			} else {
				journalCh = nil
			}
			markLoaded(subs.journal.Collection())
		}

		e.recompute(&view)
		e.publish(view)
	}
}

func (e *Engine) recompute(v *View) {
	v.Summary = Compute(v.Transactions, v.Accounts, v.Catalog.Effective(), e.cfg)
	v.Workouts = SummarizeWorkouts(v.Plans, v.Logs, e.cfg.RecentCount, e.cfg.now())
	v.Daily = SummarizeDaily(v.Tasks, v.Journal, e.cfg.now())
}

// publish replaces any unread view. Run is the only sender.
func (e *Engine) publish(v View) {
	select {
	case e.views <- v:
		return
	default:
	}
	select {
	case <-e.views:
	default:
	}
	e.views <- v
}
