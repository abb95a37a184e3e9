package ops

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/containerd/log"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/planner"
	"github.com/nonibytes/querywrap/querywrap/query"
	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
)

// Scope restricts a listing beyond the caller's filters
type Scope struct {
	TenantColumn     string
	TenantID         string
	SoftDeleteColumn string
	WithDeleted      bool
}

// apply adds the tenant and liveness conditions to out.
func (s Scope) apply(d planner.Dialect, b storage.Builder, out *planner.CompileOutput) error {
	if s.TenantColumn != "" {
		if s.TenantID == "" {
			return qerrors.InvalidParam(s.TenantColumn, "tenant id is required")
		}
		ph := b.Arg(s.TenantID)
		out.AddCondition(fmt.Sprintf("%s = %s", d.QuoteIdent(s.TenantColumn), ph),
			fmt.Sprintf("TENANT %s=%s", s.TenantColumn, s.TenantID))
	}
	if s.SoftDeleteColumn != "" && !s.WithDeleted {
		out.AddCondition(fmt.Sprintf("%s IS NULL", d.QuoteIdent(s.SoftDeleteColumn)),
			fmt.Sprintf("LIVE %s IS NULL", s.SoftDeleteColumn))
	}
	return nil
}

// Plan is a listing ready to execute
type Plan struct {
	CountSQL     string
	CountArgs    []any
	PageSQL      string
	PageArgs     []any
	ExplainSteps []string
	Page         PageParams
}

// FindResult is one page of rows plus the total match count
type FindResult struct {
	Rows  []map[string]any
	Total int64
	Plan  *Plan
}

// BuildPlan compiles rec into count and page statements for schema.
func BuildPlan(adapter storage.Adapter, schema storage.Schema, rec *query.Record, scope Scope, defaults PageDefaults) (*Plan, error) {
	page, err := ParsePageParams(rec, defaults)
	if err != nil {
		return nil, err
	}

	// The tenant column is never taken from the caller.
	if scope.TenantColumn != "" && rec.Has(scope.TenantColumn) {
		rec = without(rec, scope.TenantColumn)
	}

	b := sqlbuilder.New(adapter.PlaceholderStyle())
	compiled, err := planner.Compile(schema, adapter, b, query.Compile(rec))
	if err != nil {
		return nil, err
	}

	if err := scope.apply(adapter, b, compiled); err != nil {
		return nil, err
	}

	where := compiled.Where()
	countArgs := append([]any(nil), b.Args()...)

	pageSQL, err := planner.BuildPageSQL(adapter, schema, where, planner.PageSpec{
		Sort:   page.Sort,
		Desc:   page.Desc,
		Limit:  page.PageSize,
		Offset: page.Offset(),
	}, b)
	if err != nil {
		return nil, err
	}

	return &Plan{
		CountSQL:     planner.BuildCountSQL(adapter, schema, where),
		CountArgs:    countArgs,
		PageSQL:      pageSQL,
		PageArgs:     b.Args(),
		ExplainSteps: compiled.ExplainSteps,
		Page:         page,
	}, nil
}

// Find executes a plan built from rec: a count of all matches and one page
// of rows keyed by column name.
func Find(ctx context.Context, db *sql.DB, adapter storage.Adapter, schema storage.Schema, rec *query.Record, scope Scope, defaults PageDefaults) (*FindResult, error) {
	plan, err := BuildPlan(adapter, schema, rec, scope, defaults)
	if err != nil {
		return nil, err
	}

	log.G(ctx).WithFields(log.Fields{
		"table": schema.TableName(),
		"steps": plan.ExplainSteps,
		"page":  plan.Page.Page,
	}).Debug("find")

	var total int64
	if err := db.QueryRowContext(ctx, plan.CountSQL, plan.CountArgs...).Scan(&total); err != nil {
		return nil, qerrors.Wrap(qerrors.ErrSQL, "count rows", errors.Wrapf(err, "query %s", plan.CountSQL))
	}

	rows, err := db.QueryContext(ctx, plan.PageSQL, plan.PageArgs...)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.ErrSQL, "select page", errors.Wrapf(err, "query %s", plan.PageSQL))
	}
	defer rows.Close()

	out, err := scanRows(rows, schema, plan.Page.PageSize)
	if err != nil {
		return nil, err
	}

	return &FindResult{Rows: out, Total: total, Plan: plan}, nil
}

// scanRows reads every row into a map keyed by column name.
func scanRows(rows *sql.Rows, schema storage.Schema, capacity int) ([]map[string]any, error) {
	cols := schema.ColumnsInOrder()
	out := make([]map[string]any, 0, capacity)
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, qerrors.Wrap(qerrors.ErrSQL, "scan row", err)
		}
		row := make(map[string]any, len(cols))
		for i, name := range cols {
			spec, _ := schema.Column(name)
			row[name] = normalizeColumn(spec, raw[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, qerrors.Wrap(qerrors.ErrSQL, "iterate rows", err)
	}
	return out, nil
}

// normalizeColumn maps driver values onto JSON-friendly Go values.
func normalizeColumn(spec storage.ColumnSpec, v any) any {
	if v == nil {
		return nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch spec.Type {
	case storage.ColumnBool:
		return cast.ToBool(v)
	case storage.ColumnInt:
		if i, err := cast.ToInt64E(v); err == nil {
			return i
		}
	case storage.ColumnFloat:
		if f, err := cast.ToFloat64E(v); err == nil {
			return f
		}
	case storage.ColumnTimestamp:
		if t, ok := v.(time.Time); ok {
			return t.UTC().Format(time.RFC3339Nano)
		}
	}
	return v
}

func without(rec *query.Record, key string) *query.Record {
	out := query.NewRecord()
	for _, f := range rec.Fields() {
		if f.Key != key {
			out.Set(f.Key, f.Value)
		}
	}
	return out
}
