package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/containerd/log"
	"github.com/pkg/errors"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/planner"
	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
)

// CreateTable creates the described table if it does not exist.
func CreateTable(ctx context.Context, db *sql.DB, adapter storage.Adapter, schema storage.Schema) error {
	ddl := planner.BuildCreateTableSQL(adapter, schema)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return qerrors.Wrap(qerrors.ErrSQL, "create table", errors.Wrapf(err, "exec %s", ddl))
	}
	log.G(ctx).WithField("table", schema.TableName()).Debug("table ensured")
	return nil
}

// Insert writes one row. Keys must be known columns; values are coerced to
// the column types and nulls are only accepted for nullable columns.
func Insert(ctx context.Context, db *sql.DB, adapter storage.Adapter, schema storage.Schema, row map[string]any) error {
	for k := range row {
		if _, ok := schema.Column(k); !ok {
			return qerrors.UnknownFieldError(k)
		}
	}

	var cols []string
	var vals []any
	for _, name := range schema.ColumnsInOrder() {
		v, ok := row[name]
		if !ok {
			continue
		}
		spec, _ := schema.Column(name)
		arg, err := columnArg(name, spec, v)
		if err != nil {
			return err
		}
		cols = append(cols, name)
		vals = append(vals, arg)
	}
	if len(cols) == 0 {
		return qerrors.InvalidParam("", "row has no columns")
	}

	b := sqlbuilder.New(adapter.PlaceholderStyle())
	stmt := planner.BuildInsertSQL(adapter, schema, cols, vals, b)
	if _, err := db.ExecContext(ctx, stmt, b.Args()...); err != nil {
		return qerrors.Wrap(qerrors.ErrSQL, "insert row", errors.Wrapf(err, "exec %s", stmt))
	}
	return nil
}

// Update sets the columns in patch on one live row and returns the row as
// stored. The primary key, tenant and soft delete columns cannot be patched.
func Update(ctx context.Context, db *sql.DB, adapter storage.Adapter, schema storage.Schema, id any, patch map[string]any, scope Scope) (map[string]any, error) {
	if len(patch) == 0 {
		return nil, qerrors.InvalidParam("", "update has no columns")
	}
	for k := range patch {
		if _, ok := schema.Column(k); !ok {
			return nil, qerrors.UnknownFieldError(k)
		}
		switch k {
		case schema.PrimaryKey():
			return nil, qerrors.InvalidParam(k, "primary key cannot be updated")
		case scope.TenantColumn:
			return nil, qerrors.InvalidParam(k, "tenant column cannot be updated")
		case scope.SoftDeleteColumn:
			return nil, qerrors.InvalidParam(k, "soft delete column is set by remove")
		}
	}

	b := sqlbuilder.New(adapter.PlaceholderStyle())
	var sets []string
	for _, name := range schema.ColumnsInOrder() {
		v, ok := patch[name]
		if !ok {
			continue
		}
		spec, _ := schema.Column(name)
		arg, err := columnArg(name, spec, v)
		if err != nil {
			return nil, err
		}
		sets = append(sets, fmt.Sprintf("%s = %s", adapter.QuoteIdent(name), b.Arg(arg)))
	}

	scope.WithDeleted = false
	where, err := rowWhere(adapter, schema, b, id, scope)
	if err != nil {
		return nil, err
	}
	stmt := planner.BuildUpdateSQL(adapter, schema, sets, where)
	if err := execOne(ctx, db, stmt, b.Args(), schema, id); err != nil {
		return nil, err
	}
	log.G(ctx).WithFields(log.Fields{"table": schema.TableName(), "id": id, "columns": len(sets)}).Debug("row updated")
	return Get(ctx, db, adapter, schema, id, scope)
}

// columnArg checks nullability and coerces v for a write.
func columnArg(name string, spec storage.ColumnSpec, v any) (any, error) {
	if v == nil {
		if !spec.Nullable {
			return nil, qerrors.TypeMismatch(name, "column is not nullable")
		}
		return nil, nil
	}
	return planner.CoerceArg(name, spec, v)
}
