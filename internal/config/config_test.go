package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/engine"
)

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LIFEOS_TEST_DIR", "/tmp/lifeos")
	t.Setenv("LIFEOS_TILDE", "~")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/data/lifeos.db", want: filepath.Join(home, "data/lifeos.db")},
		{name: "env var", in: "$LIFEOS_TEST_DIR/lifeos.db", want: "/tmp/lifeos/lifeos.db"},
		{name: "env var holding tilde", in: "$LIFEOS_TILDE/lifeos.db", want: filepath.Join(home, "lifeos.db")},
		{name: "cleaned", in: "/var/lib/../lib//lifeos.db", want: "/var/lib/lifeos.db"},
		{name: "relative", in: "data/lifeos.db", want: "data/lifeos.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.in))
		})
	}
}

func TestDefaultLocations(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name       string
		dataHome   string
		configHome string
		wantDB     string
		wantDirs   []string
	}{
		{
			name:     "home fallback",
			wantDB:   filepath.Join(home, ".local/share/lifeos/lifeos.db"),
			wantDirs: []string{filepath.Join(home, ".config/lifeos"), "."},
		},
		{
			name:       "xdg directories",
			dataHome:   "/srv/data",
			configHome: "/srv/config",
			wantDB:     "/srv/data/lifeos/lifeos.db",
			wantDirs:   []string{"/srv/config/lifeos", "."},
		},
		{
			name:       "relative xdg values are ignored",
			dataHome:   "data",
			configHome: "config",
			wantDB:     filepath.Join(home, ".local/share/lifeos/lifeos.db"),
			wantDirs:   []string{filepath.Join(home, ".config/lifeos"), "."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_DATA_HOME", tt.dataHome)
			t.Setenv("XDG_CONFIG_HOME", tt.configHome)

			assert.Equal(t, tt.wantDB, DefaultDatabasePath())
			assert.Equal(t, tt.wantDirs, ConfigDirs())
		})
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Database.Backend)
	assert.True(t, strings.HasSuffix(cfg.Database.Path, "/.local/share/lifeos/lifeos.db"))
	assert.NotContains(t, cfg.Database.Path, "$HOME")
	assert.Equal(t, "local", cfg.Identity().ID)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "02/01/2006", cfg.TrainingConfig().DateLayout)
	assert.Equal(t, "default", cfg.Dashboard.Theme)
	assert.Equal(t, "02 Jan 2006", cfg.Journal.DateLayout)

	ec := cfg.EngineConfig()
	assert.Equal(t, 5, ec.RecentCount)
	assert.Len(t, ec.TrendHistory, len(engine.DefaultTrendHistory()))
}

func TestLoadFrom_YAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
database:
  backend: Memory
user:
  id: alice
  name: Alice
finance:
  recent_count: 3
  transaction_limit: 200
  trend:
    - label: Jan
      income: 1000
      expense: "750.50"
workout:
  date_layout: "2006-01-02"
dashboard:
  theme: catppuccin-mocha
`)))

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Database.Backend)
	assert.Equal(t, "Alice", cfg.Identity().Name)
	assert.Equal(t, "2006-01-02", cfg.TrainingConfig().DateLayout)
	assert.Equal(t, "catppuccin-mocha", cfg.Dashboard.Theme)

	ec := cfg.EngineConfig()
	assert.Equal(t, 3, ec.RecentCount)
	assert.Equal(t, 200, ec.TransactionLimit)
	require.Len(t, ec.TrendHistory, 1)
	assert.Equal(t, "Jan", ec.TrendHistory[0].Label)
	assert.Equal(t, "1000", ec.TrendHistory[0].Income.String())
	assert.Equal(t, "750.5", ec.TrendHistory[0].Expense.String())
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		set     map[string]any
		wantErr error
		name    string
	}{
		{name: "unknown backend", set: map[string]any{"database.backend": "postgres"}, wantErr: common.ErrInvalidConfig},
		{name: "empty user", set: map[string]any{"user.id": " "}, wantErr: common.ErrMissingConfig},
		{name: "user with slash", set: map[string]any{"user.id": "a/b"}, wantErr: common.ErrInvalidConfig},
		{name: "negative count", set: map[string]any{"finance.recent_count": -1}, wantErr: common.ErrInvalidConfig},
		{name: "empty sqlite path", set: map[string]any{"database.path": ""}, wantErr: common.ErrMissingConfig},
		{
			name:    "bad trend",
			set:     map[string]any{"finance.trend": []map[string]any{{"label": "Jan", "income": "x", "expense": "1"}}},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := LoadFrom(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
