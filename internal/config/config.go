// Package config loads querywrap settings from defaults, an optional .env
// file, an optional config file and QUERYWRAP_ environment variables.
//
// Precedence, highest first: environment, config file, .env, defaults.
// Command line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
)

const EnvPrefix = "QUERYWRAP"

type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Listing ListingConfig `mapstructure:"listing"`
}

type DBConfig struct {
	Backend        string `mapstructure:"backend"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	SQLiteDriver   string `mapstructure:"sqlite_driver"`
	PostgresDSN    string `mapstructure:"postgres_dsn"`
	PostgresSchema string `mapstructure:"postgres_schema"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ListingConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

var defaults = map[string]any{
	"db.backend":                "sqlite",
	"db.sqlite_path":            "querywrap.db",
	"db.sqlite_driver":          "sqlite",
	"db.postgres_dsn":           "",
	"db.postgres_schema":        "",
	"log.level":                 "info",
	"log.format":                "text",
	"listing.default_page_size": 20,
	"listing.max_page_size":     100,
}

// EnvName is the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads the configuration. file may be empty; a missing .env in the
// working directory is not an error.
func Load(file string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	if err := loadDotEnv(v, ".env"); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, qerrors.Wrap(qerrors.ErrConfig, fmt.Sprintf("read config file %s", file), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, qerrors.Wrap(qerrors.ErrConfig, "failed to unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv lifts QUERYWRAP_ entries of a dotenv file into defaults so the
// real environment and config file still win.
func loadDotEnv(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	dot := viper.New()
	dot.SetConfigFile(path)
	dot.SetConfigType("env")
	if err := dot.ReadInConfig(); err != nil {
		return qerrors.Wrap(qerrors.ErrConfig, fmt.Sprintf("read %s", path), err)
	}
	for k := range defaults {
		name := strings.ToLower(EnvName(k))
		if dot.IsSet(name) {
			v.SetDefault(k, dot.Get(name))
		}
	}
	return nil
}

func (c Config) Validate() error {
	switch c.DB.Backend {
	case "sqlite", "postgres":
	default:
		return qerrors.New(qerrors.ErrConfig, fmt.Sprintf("db.backend must be sqlite or postgres, got %q", c.DB.Backend))
	}
	switch c.DB.SQLiteDriver {
	case "sqlite", "sqlite3":
	default:
		return qerrors.New(qerrors.ErrConfig, fmt.Sprintf("db.sqlite_driver must be sqlite or sqlite3, got %q", c.DB.SQLiteDriver))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return qerrors.Wrap(qerrors.ErrConfig, "log.level", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return qerrors.New(qerrors.ErrConfig, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Listing.DefaultPageSize < 1 || c.Listing.MaxPageSize < 1 {
		return qerrors.New(qerrors.ErrConfig, "listing page sizes must be positive")
	}
	if c.Listing.DefaultPageSize > c.Listing.MaxPageSize {
		return qerrors.New(qerrors.ErrConfig, "listing.default_page_size exceeds listing.max_page_size")
	}
	return nil
}
