package ops

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/containerd/log"

	"github.com/nonibytes/querywrap/querywrap/planner"
	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
)

// Remove deletes the row with primary key id. When scope names a soft delete
// column the row is stamped with now instead and drops out of listings; a row
// that is already removed is reported as not found.
func Remove(ctx context.Context, db *sql.DB, adapter storage.Adapter, schema storage.Schema, id any, scope Scope, now time.Time) error {
	b := sqlbuilder.New(adapter.PlaceholderStyle())
	scope.WithDeleted = false

	var stmt string
	if scope.SoftDeleteColumn != "" {
		spec, _ := schema.Column(scope.SoftDeleteColumn)
		set := fmt.Sprintf("%s = %s", adapter.QuoteIdent(scope.SoftDeleteColumn), b.Arg(removedMarker(spec, now)))
		where, err := rowWhere(adapter, schema, b, id, scope)
		if err != nil {
			return err
		}
		stmt = planner.BuildUpdateSQL(adapter, schema, []string{set}, where)
	} else {
		where, err := rowWhere(adapter, schema, b, id, scope)
		if err != nil {
			return err
		}
		stmt = planner.BuildDeleteSQL(adapter, schema, where)
	}

	if err := execOne(ctx, db, stmt, b.Args(), schema, id); err != nil {
		return err
	}
	log.G(ctx).WithFields(log.Fields{
		"table": schema.TableName(),
		"id":    id,
		"soft":  scope.SoftDeleteColumn != "",
	}).Debug("row removed")
	return nil
}

// removedMarker is the value a soft delete column is set to.
func removedMarker(spec storage.ColumnSpec, now time.Time) any {
	switch spec.Type {
	case storage.ColumnInt:
		return now.UnixMilli()
	case storage.ColumnFloat:
		return float64(now.UnixNano()) / 1e9
	case storage.ColumnBool:
		return true
	default:
		return now.UTC().Format(time.RFC3339Nano)
	}
}
