// Package config loads balanca settings from, in increasing precedence:
// built-in defaults, an optional YAML file, a .env file and BALANCA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override: weighing.require_buyer is
// read from BALANCA_WEIGHING_REQUIRE_BUYER.
const EnvPrefix = "BALANCA"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Draft    DraftConfig    `mapstructure:"draft"`
	Weighing WeighingConfig `mapstructure:"weighing"`
	Report   ReportConfig   `mapstructure:"report"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// DraftConfig locates the draft store. An empty Dir keeps drafts in memory.
type DraftConfig struct {
	Dir     string `mapstructure:"dir"`
	Session string `mapstructure:"session"`
}

// WeighingConfig holds the batch and save policy.
type WeighingConfig struct {
	BoneCategory   string `mapstructure:"bone_category"`
	DefaultTabName string `mapstructure:"default_tab_name"`
	RequireBuyer   bool   `mapstructure:"require_buyer"`
}

// ReportConfig holds report presentation settings.
type ReportConfig struct {
	Title string `mapstructure:"title"`
}

// LogConfig holds the log level name (debug, info, warn, error).
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Options locate the configuration sources.
type Options struct {
	// ConfigFile is an explicit YAML file. When empty, balanca.yaml is looked
	// up in the working directory and skipped if absent.
	ConfigFile string

	// EnvFile is loaded into the environment before reading overrides.
	// Defaults to ".env"; a missing file is ignored.
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "balanca.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("draft.dir", ".balanca-draft")
	v.SetDefault("draft.session", "default")
	v.SetDefault("weighing.bone_category", "Osso")
	v.SetDefault("weighing.default_tab_name", "Pesagem")
	v.SetDefault("weighing.require_buyer", false)
	v.SetDefault("report.title", "SuperDallPozo")
	v.SetDefault("log.level", "info")
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: decode defaults: %v", err))
	}
	return &cfg
}

// Load reads and validates the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("balanca")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values no command can work with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported (want %s or %s)",
			c.Database.Driver, DriverSQLite, DriverPostgres))
	}
	if strings.TrimSpace(c.Weighing.BoneCategory) == "" {
		errs = append(errs, errors.New("weighing.bone_category must not be empty"))
	}
	if c.Draft.Session == "" {
		errs = append(errs, errors.New("draft.session must not be empty"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses the level name.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
