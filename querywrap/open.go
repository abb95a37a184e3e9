package querywrap

import (
	"fmt"

	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/postgres"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlite"
)

// OpenOptions select and configure a storage backend
type OpenOptions struct {
	Backend        string
	SQLitePath     string
	SQLiteDriver   string
	PostgresDSN    string
	PostgresSchema string
}

// NewAdapter selects a backend implementation. Drivers are registered by the
// binary, not here.
func NewAdapter(opts OpenOptions) (storage.Adapter, error) {
	switch storage.Backend(opts.Backend) {
	case storage.BackendSQLite, "":
		if opts.SQLitePath == "" {
			return nil, New(ErrConfig, "sqlite path is required")
		}
		return sqlite.NewWithDriver(opts.SQLitePath, opts.SQLiteDriver), nil
	case storage.BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, New(ErrConfig, "postgres DSN is required")
		}
		return postgres.New(opts.PostgresDSN, opts.PostgresSchema), nil
	default:
		return nil, New(ErrBackend, fmt.Sprintf("unknown backend %q", opts.Backend))
	}
}
