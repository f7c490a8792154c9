package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/engine"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/service"
	"github.com/Veraticus/lifeos/internal/training"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the typed application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	User      UserConfig      `mapstructure:"user"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Workout   WorkoutConfig   `mapstructure:"workout"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Finance   FinanceConfig   `mapstructure:"finance"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// DatabaseConfig selects and locates the document store.
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Backend string `mapstructure:"backend"`
}

// UserConfig is the identity the CLI signs in as.
type UserConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WorkoutConfig configures the training screens.
type WorkoutConfig struct {
	DateLayout string `mapstructure:"date_layout"`
}

// JournalConfig configures journal entries.
type JournalConfig struct {
	DateLayout string `mapstructure:"date_layout"`
}

// DashboardConfig configures the interactive dashboard.
type DashboardConfig struct {
	Theme string `mapstructure:"theme"`
}

// TrendPointConfig is one static trend period.
type TrendPointConfig struct {
	Label   string `mapstructure:"label"`
	Income  string `mapstructure:"income"`
	Expense string `mapstructure:"expense"`
}

// FinanceConfig configures the financial summary.
type FinanceConfig struct {
	Trend            []TrendPointConfig `mapstructure:"trend"`
	RecentCount      int                `mapstructure:"recent_count"`
	TransactionLimit int                `mapstructure:"transaction_limit"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("database.backend", BackendSQLite)
	v.SetDefault("user.id", "local")
	v.SetDefault("user.name", "Me")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("workout.date_layout", training.DefaultDateLayout)
	v.SetDefault("journal.date_layout", ledger.DefaultJournalDateLayout)
	v.SetDefault("finance.recent_count", engine.DefaultConfig().RecentCount)
	v.SetDefault("finance.transaction_limit", 0)
	v.SetDefault("dashboard.theme", "default")
}

// Load reads the configuration from the global viper instance.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration from v.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	cfg.Database.Path = ResolvePath(cfg.Database.Path)
	cfg.Database.Backend = strings.ToLower(strings.TrimSpace(cfg.Database.Backend))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Database.Backend {
	case BackendSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown database.backend %q", common.ErrInvalidConfig, c.Database.Backend)
	}

	if strings.TrimSpace(c.User.ID) == "" {
		return fmt.Errorf("%w: user.id", common.ErrMissingConfig)
	}
	if strings.Contains(c.User.ID, "/") {
		return fmt.Errorf("%w: user.id cannot contain '/'", common.ErrInvalidConfig)
	}
	if c.Finance.RecentCount < 0 || c.Finance.TransactionLimit < 0 {
		return fmt.Errorf("%w: finance counts cannot be negative", common.ErrInvalidConfig)
	}
	if _, err := c.Finance.TrendHistory(); err != nil {
		return err
	}
	return nil
}

// Identity returns the configured user.
func (c Config) Identity() service.User {
	return service.User{ID: c.User.ID, Name: c.User.Name}
}

// TrendHistory returns the configured static trend, or the built-in one when
// none is configured.
func (f FinanceConfig) TrendHistory() ([]engine.TrendPoint, error) {
	if len(f.Trend) == 0 {
		return engine.DefaultTrendHistory(), nil
	}

	out := make([]engine.TrendPoint, len(f.Trend))
	for i, p := range f.Trend {
		income, err := decimal.NewFromString(p.Income)
		if err != nil {
			return nil, fmt.Errorf("%w: finance.trend[%d].income: %w", common.ErrInvalidConfig, i, err)
		}
		expense, err := decimal.NewFromString(p.Expense)
		if err != nil {
			return nil, fmt.Errorf("%w: finance.trend[%d].expense: %w", common.ErrInvalidConfig, i, err)
		}
		out[i] = engine.TrendPoint{Label: p.Label, Income: income, Expense: expense}
	}
	return out, nil
}

// EngineConfig converts the finance section into engine options.
func (c Config) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if history, err := c.Finance.TrendHistory(); err == nil {
		cfg.TrendHistory = history
	}
	if c.Finance.RecentCount > 0 {
		cfg.RecentCount = c.Finance.RecentCount
	}
	cfg.TransactionLimit = c.Finance.TransactionLimit
	return cfg
}

// TrainingConfig converts the workout section into state machine options.
func (c Config) TrainingConfig() training.Config {
	cfg := training.DefaultConfig()
	if c.Workout.DateLayout != "" {
		cfg.DateLayout = c.Workout.DateLayout
	}
	return cfg
}
