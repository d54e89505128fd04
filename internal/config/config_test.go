package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "daftar.yaml", "database: shop.db\ntimezone: Asia/Tehran\nreminder_window_days: 7\n")

	cfg, err := Load(Options{Path: path, LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, "shop.db", cfg.Database)
	assert.Equal(t, "Asia/Tehran", cfg.Timezone)
	assert.Equal(t, 7, cfg.ReminderWindowDays)
	assert.Equal(t, "text", cfg.Format, "unset fields keep defaults")
}

func TestLoad_EmptyYAML(t *testing.T) {
	path := writeFile(t, "daftar.yaml", "")

	cfg, err := Load(Options{Path: path, LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownYAMLField(t *testing.T) {
	path := writeFile(t, "daftar.yaml", "databse: typo.db\n")

	_, err := Load(Options{Path: path, LookupEnv: noEnv})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "databse")
}

func TestLoad_MissingYAML(t *testing.T) {
	_, err := Load(Options{Path: filepath.Join(t.TempDir(), "none.yaml"), LookupEnv: noEnv})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "daftar.yaml", "database: shop.db\nformat: text\n")
	env := envOf(map[string]string{
		EnvDatabase:       "env.db",
		EnvFormat:         "json",
		EnvReminderWindow: "10",
	})

	cfg, err := Load(Options{Path: path, LookupEnv: env})
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Database)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 10, cfg.ReminderWindowDays)
}

func TestLoad_DotenvBelowProcessEnv(t *testing.T) {
	dotenv := writeFile(t, ".env", "DAFTAR_DB=dotenv.db\nDAFTAR_TIMEZONE=UTC\n")
	env := envOf(map[string]string{EnvDatabase: "process.db"})

	cfg, err := Load(Options{EnvFile: dotenv, LookupEnv: env})
	require.NoError(t, err)
	assert.Equal(t, "process.db", cfg.Database)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoad_MissingDotenvIgnored(t *testing.T) {
	_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), ".env"), LookupEnv: noEnv})
	assert.NoError(t, err)
}

func TestLoad_BadReminderWindowEnv(t *testing.T) {
	_, err := Load(Options{LookupEnv: envOf(map[string]string{EnvReminderWindow: "soon"})})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), EnvReminderWindow)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"json format", func(c *Config) { c.Format = "json" }, ""},
		{"bad format", func(c *Config) { c.Format = "xml" }, "format"},
		{"empty database", func(c *Config) { c.Database = "" }, "database"},
		{"negative window", func(c *Config) { c.ReminderWindowDays = -1 }, "reminder_window_days"},
		{"huge window", func(c *Config) { c.ReminderWindowDays = 1000 }, "reminder_window_days"},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "UTC"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Timezone = "Local"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
