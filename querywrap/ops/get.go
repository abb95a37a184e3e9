package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/planner"
	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
)

// Get loads the row with primary key id. Soft-deleted rows are only visible
// with scope.WithDeleted.
func Get(ctx context.Context, db *sql.DB, adapter storage.Adapter, schema storage.Schema, id any, scope Scope) (map[string]any, error) {
	b := sqlbuilder.New(adapter.PlaceholderStyle())
	where, err := rowWhere(adapter, schema, b, id, scope)
	if err != nil {
		return nil, err
	}

	stmt := planner.BuildSelectRowSQL(adapter, schema, where)
	rows, err := db.QueryContext(ctx, stmt, b.Args()...)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.ErrSQL, "select row", errors.Wrapf(err, "query %s", stmt))
	}
	defer rows.Close()

	out, err := scanRows(rows, schema, 1)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, rowNotFound(schema, id)
	}
	return out[0], nil
}

// rowWhere addresses one row by primary key within scope. Placeholders are
// taken from b after any the caller already allocated.
func rowWhere(adapter storage.Adapter, schema storage.Schema, b storage.Builder, id any, scope Scope) (string, error) {
	pk := schema.PrimaryKey()
	spec, _ := schema.Column(pk)
	arg, err := planner.CoerceArg(pk, spec, id)
	if err != nil {
		return "", err
	}

	out := &planner.CompileOutput{}
	out.AddCondition(fmt.Sprintf("%s = %s", adapter.QuoteIdent(pk), b.Arg(arg)), fmt.Sprintf("ID %s=%v", pk, id))
	if err := scope.apply(adapter, b, out); err != nil {
		return "", err
	}
	return out.Where(), nil
}

// execOne runs a statement that must touch exactly the addressed row.
func execOne(ctx context.Context, db *sql.DB, stmt string, args []any, schema storage.Schema, id any) error {
	res, err := db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return qerrors.Wrap(qerrors.ErrSQL, "write row", errors.Wrapf(err, "exec %s", stmt))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return qerrors.Wrap(qerrors.ErrSQL, "rows affected", err)
	}
	if n == 0 {
		return rowNotFound(schema, id)
	}
	return nil
}

func rowNotFound(schema storage.Schema, id any) error {
	return &qerrors.Error{
		Kind:    qerrors.ErrNotFound,
		Message: fmt.Sprintf("no row in %s with %s %v", schema.TableName(), schema.PrimaryKey(), id),
		Field:   schema.PrimaryKey(),
	}
}
