// Package config loads daftar settings.
//
// Settings come from four layers, later ones winning: built-in defaults, a
// YAML file, a .env file and the process environment. Command-line flags
// are applied on top by the CLI. The merged result is checked against an
// embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Environment variables read by Load.
const (
	EnvDatabase       = "DAFTAR_DB"
	EnvFormat         = "DAFTAR_FORMAT"
	EnvTimezone       = "DAFTAR_TIMEZONE"
	EnvReminderWindow = "DAFTAR_REMINDER_WINDOW"
)

// Config holds every setting.
type Config struct {
	Database           string `yaml:"database" json:"database"`
	Format             string `yaml:"format" json:"format"`
	Timezone           string `yaml:"timezone" json:"timezone"`
	ReminderWindowDays int    `yaml:"reminder_window_days" json:"reminder_window_days"`
	CurrencySymbol     string `yaml:"currency_symbol" json:"currency_symbol"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:           "daftar.db",
		Format:             "text",
		Timezone:           "Local",
		ReminderWindowDays: 5,
		CurrencySymbol:     "$",
	}
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalid, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks c against the schema and resolves the timezone.
func (c Config) Validate() error {
	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	v := schema.Unify(cctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, cueerrors.Details(err, nil))
	}
	_, err := c.Location()
	return err
}

// Options locate the configuration sources. Empty paths are skipped.
type Options struct {
	// Path is the YAML file. It must exist when set.
	Path string
	// EnvFile is a .env file. A missing file is ignored.
	EnvFile string
	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load merges defaults, the YAML file, the .env file and the environment,
// then validates the result.
func Load(opts Options) (Config, error) {
	cfg := Default()

	if opts.Path != "" {
		if err := readYAML(opts.Path, &cfg); err != nil {
			return Config{}, err
		}
	}

	dotenv, err := readDotenv(opts.EnvFile)
	if err != nil {
		return Config{}, err
	}
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnv(&cfg, get); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

func applyEnv(cfg *Config, get func(string) (string, bool)) error {
	if v, ok := get(EnvDatabase); ok && v != "" {
		cfg.Database = v
	}
	if v, ok := get(EnvFormat); ok && v != "" {
		cfg.Format = v
	}
	if v, ok := get(EnvTimezone); ok && v != "" {
		cfg.Timezone = v
	}
	if v, ok := get(EnvReminderWindow); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a whole number", ErrInvalid, EnvReminderWindow, v)
		}
		cfg.ReminderWindowDays = n
	}
	return nil
}
