package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
)

type Adapter struct {
	DSN    string
	Schema string // used as dedicated schema via search_path; empty keeps the server default
}

func New(dsn, schema string) *Adapter {
	return &Adapter{DSN: dsn, Schema: schema}
}

func (a *Adapter) Backend() storage.Backend { return storage.BackendPostgres }

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle { return sqlbuilder.PlaceholderDollar }

func (a *Adapter) TargetID() string {
	if a.Schema == "" {
		return "postgres"
	}
	return "postgres:" + a.Schema
}

func (a *Adapter) Close() error { return nil }

func (a *Adapter) SQL() storage.SQL { return SQLTemplates }

var schemaNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (a *Adapter) QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (a *Adapter) ensureSchema(ctx context.Context, db *sql.DB) error {
	if !schemaNameRe.MatchString(a.Schema) {
		return fmt.Errorf("invalid postgres schema name %q (must match %s)", a.Schema, schemaNameRe.String())
	}
	_, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+a.QuoteIdent(a.Schema))
	return err
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(a.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "parse postgres DSN")
	}

	if a.Schema != "" {
		// 1) Connect without search_path to ensure schema exists
		db0 := stdlib.OpenDB(*cfg)
		if err := db0.PingContext(ctx); err != nil {
			_ = db0.Close()
			return nil, errors.Wrap(err, "ping postgres")
		}
		if err := a.ensureSchema(ctx, db0); err != nil {
			_ = db0.Close()
			return nil, err
		}
		_ = db0.Close()

		// 2) Pin search_path to the schema, public as a fallback for built-ins.
		cfg, err = pgx.ParseConfig(a.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "parse postgres DSN")
		}
		if cfg.RuntimeParams == nil {
			cfg.RuntimeParams = make(map[string]string)
		}
		cfg.RuntimeParams["search_path"] = fmt.Sprintf("%s,public", a.QuoteIdent(a.Schema))
	}

	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return db, nil
}

func (a *Adapter) ColumnDDL(spec storage.ColumnSpec, primary bool) string {
	var typ string
	switch spec.Type {
	case storage.ColumnInt:
		typ = "BIGINT"
		if primary {
			typ = "BIGSERIAL"
		}
	case storage.ColumnFloat:
		typ = "DOUBLE PRECISION"
	case storage.ColumnBool:
		typ = "BOOLEAN"
	case storage.ColumnTimestamp:
		typ = "TIMESTAMPTZ"
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

// LikeExpr casts non-text columns so patterns apply to their text form.
// ILIKE keeps matching case-insensitive like SQLite's LIKE.
func (a *Adapter) LikeExpr(col string, t storage.ColumnType, ph string) string {
	if t == storage.ColumnText {
		return fmt.Sprintf("%s ILIKE %s", col, ph)
	}
	return fmt.Sprintf("%s::text ILIKE %s", col, ph)
}

func (a *Adapter) VerifyTable(ctx context.Context, db *sql.DB, schema storage.Schema) error {
	rows, err := db.QueryContext(ctx,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1`,
		schema.TableName())
	if err != nil {
		return errors.Wrapf(err, "list columns of %s", schema.TableName())
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		have[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(have) == 0 {
		return qerrors.New(qerrors.ErrNotFound, fmt.Sprintf("table %q does not exist", schema.TableName()))
	}
	for _, c := range schema.ColumnsInOrder() {
		if !have[c] {
			return fmt.Errorf("table %q has no column %q", schema.TableName(), c)
		}
	}
	return nil
}
