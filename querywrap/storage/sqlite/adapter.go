package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
)

const (
	// DriverModernc is the pure Go driver registered by modernc.org/sqlite.
	DriverModernc = "sqlite"
	// DriverCgo is the driver registered by github.com/mattn/go-sqlite3.
	DriverCgo = "sqlite3"
)

type Adapter struct {
	Path       string
	DriverName string
}

func New(path string) *Adapter {
	return &Adapter{Path: path, DriverName: DriverModernc}
}

func NewWithDriver(path, driver string) *Adapter {
	if driver == "" {
		driver = DriverModernc
	}
	return &Adapter{Path: path, DriverName: driver}
}

func (a *Adapter) Backend() storage.Backend {
	return storage.BackendSQLite
}

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle {
	return sqlbuilder.PlaceholderQuestion
}

func (a *Adapter) TargetID() string {
	return a.Path
}

// dsnParams returns connection parameters in the syntax of the selected driver.
func (a *Adapter) dsnParams() string {
	if a.DriverName == DriverCgo {
		return "_busy_timeout=5000&_foreign_keys=on"
	}
	return "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	dsn := a.Path
	if !strings.Contains(dsn, "?") {
		dsn = dsn + "?" + a.dsnParams()
	} else {
		dsn = dsn + "&" + a.dsnParams()
	}
	db, err := sql.Open(a.DriverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s with driver %s", a.Path, a.DriverName)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping sqlite %s", a.Path)
	}
	return db, nil
}

func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) SQL() storage.SQL {
	return SQLTemplates
}

func (a *Adapter) QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (a *Adapter) ColumnDDL(spec storage.ColumnSpec, primary bool) string {
	var typ string
	switch spec.Type {
	case storage.ColumnInt, storage.ColumnBool:
		typ = "INTEGER"
	case storage.ColumnFloat:
		typ = "REAL"
	default:
		typ = "TEXT"
	}
	switch {
	case primary:
		return typ + " PRIMARY KEY"
	case spec.Nullable:
		return typ
	default:
		return typ + " NOT NULL"
	}
}

// LikeExpr relies on SQLite's LIKE, which is case-insensitive for ASCII and
// applies to any column affinity.
func (a *Adapter) LikeExpr(col string, _ storage.ColumnType, ph string) string {
	return fmt.Sprintf("%s LIKE %s", col, ph)
}

func (a *Adapter) VerifyTable(ctx context.Context, db *sql.DB, schema storage.Schema) error {
	cols := schema.ColumnsInOrder()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = a.QuoteIdent(c)
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE 0=1", strings.Join(quoted, ", "), a.QuoteIdent(schema.TableName()))
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return qerrors.New(qerrors.ErrNotFound, fmt.Sprintf("table %q does not exist", schema.TableName()))
		}
		return fmt.Errorf("table %q verification failed: %w", schema.TableName(), err)
	}
	return rows.Close()
}
