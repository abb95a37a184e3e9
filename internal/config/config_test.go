package config

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
)

// chdir moves into a fresh directory so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Load("")
	assert.NilError(t, err)
	assert.DeepEqual(t, cfg, Config{
		DB:      DBConfig{Backend: "sqlite", SQLitePath: "querywrap.db", SQLiteDriver: "sqlite"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Listing: ListingConfig{DefaultPageSize: 20, MaxPageSize: 100},
	})
}

func TestLoadEnvironment(t *testing.T) {
	chdir(t)
	t.Setenv("QUERYWRAP_DB_BACKEND", "postgres")
	t.Setenv("QUERYWRAP_DB_POSTGRES_DSN", "postgres://localhost/app")
	t.Setenv("QUERYWRAP_LISTING_MAX_PAGE_SIZE", "250")

	cfg, err := Load("")
	assert.NilError(t, err)
	assert.Equal(t, cfg.DB.Backend, "postgres")
	assert.Equal(t, cfg.DB.PostgresDSN, "postgres://localhost/app")
	assert.Equal(t, cfg.Listing.MaxPageSize, 250)
}

func TestLoadConfigFileBelowEnvironment(t *testing.T) {
	dir := chdir(t)
	file := filepath.Join(dir, "querywrap.yaml")
	assert.NilError(t, os.WriteFile(file, []byte("log:\n  level: debug\n  format: json\ndb:\n  sqlite_path: /tmp/x.db\n"), 0o644))
	t.Setenv("QUERYWRAP_LOG_LEVEL", "warn")

	cfg, err := Load(file)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Log.Level, "warn")
	assert.Equal(t, cfg.Log.Format, "json")
	assert.Equal(t, cfg.DB.SQLitePath, "/tmp/x.db")
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	assert.NilError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("QUERYWRAP_DB_SQLITE_PATH=from-dotenv.db\nQUERYWRAP_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv("QUERYWRAP_LOG_LEVEL", "error")

	cfg, err := Load("")
	assert.NilError(t, err)
	assert.Equal(t, cfg.DB.SQLitePath, "from-dotenv.db")
	assert.Equal(t, cfg.Log.Level, "error")
}

func TestLoadMissingConfigFile(t *testing.T) {
	chdir(t)
	_, err := Load("nope.yaml")
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrConfig))
}

func TestValidate(t *testing.T) {
	base := Config{
		DB:      DBConfig{Backend: "sqlite", SQLiteDriver: "sqlite"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Listing: ListingConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}
	assert.NilError(t, base.Validate())

	cases := map[string]func(*Config){
		"backend":    func(c *Config) { c.DB.Backend = "redis" },
		"driver":     func(c *Config) { c.DB.SQLiteDriver = "cgo" },
		"level":      func(c *Config) { c.Log.Level = "chatty" },
		"format":     func(c *Config) { c.Log.Format = "xml" },
		"zero size":  func(c *Config) { c.Listing.DefaultPageSize = 0 },
		"size order": func(c *Config) { c.Listing.DefaultPageSize = 500 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Assert(t, qerrors.IsKind(c.Validate(), qerrors.ErrConfig))
		})
	}
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, EnvName("db.sqlite_path"), "QUERYWRAP_DB_SQLITE_PATH")
}
