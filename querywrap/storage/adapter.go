package storage

import (
	"context"
	"database/sql"

	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	TargetID() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	SQL() SQL
	QuoteIdent(ident string) string
	ColumnDDL(spec ColumnSpec, primary bool) string
	// LikeExpr renders a case-insensitive "<col> LIKE <ph>", casting
	// non-text columns where the backend needs it.
	LikeExpr(col string, t ColumnType, ph string) string

	// VerifyTable checks that the described table and its columns exist.
	VerifyTable(ctx context.Context, db *sql.DB, schema Schema) error
}

type ColumnType string

const (
	ColumnText      ColumnType = "text"
	ColumnInt       ColumnType = "int"
	ColumnFloat     ColumnType = "float"
	ColumnBool      ColumnType = "bool"
	ColumnTimestamp ColumnType = "timestamp"
)

type ColumnSpec struct {
	Type     ColumnType
	Nullable bool
}

// Schema is a minimal interface to avoid circular dependency
type Schema interface {
	TableName() string
	PrimaryKey() string
	Column(name string) (ColumnSpec, bool)
	ColumnsInOrder() []string
}

// SQL holds statement templates. Each is a fmt format string; identifiers are
// quoted by the caller.
type SQL struct {
	// table, where
	CountRows string
	// columns, table, where, order by, limit placeholder, offset placeholder
	SelectPage string
	// table, columns, placeholders
	InsertRow string
	// table, column definitions
	CreateTable string
	// columns, table, where
	SelectRow string
	// table, assignments, where
	UpdateRows string
	// table, where
	DeleteRows string
}

// Builder interface for placeholder management
type Builder interface {
	Arg(v any) string
	List(vs []any) string
	Args() []any
	Len() int
}
