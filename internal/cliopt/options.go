package cliopt

import (
	"flag"
	"io"

	"github.com/nonibytes/querywrap/internal/config"
)

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
// They mirror querywrap.OpenOptions plus logging and listing settings.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command router and per-command code.
type GlobalOptions struct {
	ConfigFile string

	Backend        string
	SQLitePath     string
	SQLiteDriver   string
	PostgresDSN    string
	PostgresSchema string

	LogLevel  string
	LogFormat string

	DefaultPageSize int
	MaxPageSize     int
}

// FromConfig seeds flag defaults from loaded configuration.
func FromConfig(cfg config.Config) GlobalOptions {
	return GlobalOptions{
		Backend:         cfg.DB.Backend,
		SQLitePath:      cfg.DB.SQLitePath,
		SQLiteDriver:    cfg.DB.SQLiteDriver,
		PostgresDSN:     cfg.DB.PostgresDSN,
		PostgresSchema:  cfg.DB.PostgresSchema,
		LogLevel:        cfg.Log.Level,
		LogFormat:       cfg.Log.Format,
		DefaultPageSize: cfg.Listing.DefaultPageSize,
		MaxPageSize:     cfg.Listing.MaxPageSize,
	}
}

func BindGlobalFlags(fs *flag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.ConfigFile, "config", g.ConfigFile, "config file (yaml, json, toml or env)")

	fs.StringVar(&g.Backend, "backend", g.Backend, "backend: sqlite|postgres")

	fs.StringVar(&g.SQLitePath, "sqlite-path", g.SQLitePath, "sqlite database file")
	fs.StringVar(&g.SQLiteDriver, "sqlite-driver", g.SQLiteDriver, "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")

	fs.StringVar(&g.PostgresDSN, "pg-dsn", g.PostgresDSN, "postgres DSN")
	fs.StringVar(&g.PostgresSchema, "pg-schema", g.PostgresSchema, "postgres schema (search_path)")

	fs.StringVar(&g.LogLevel, "log-level", g.LogLevel, "log level: trace|debug|info|warn|error")
	fs.StringVar(&g.LogFormat, "log-format", g.LogFormat, "log format: text|json")
}

// ConfigFileArg finds --config among the global flags before they are
// parsed for real, so configuration can seed the remaining defaults. Parse
// errors are left for the real pass to report.
func ConfigFileArg(argv []string) string {
	var g GlobalOptions
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindGlobalFlags(fs, &g)
	_ = fs.Parse(argv)
	return g.ConfigFile
}
