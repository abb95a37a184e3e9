package querywrap

import (
	"context"
	"database/sql"
	"time"

	"github.com/containerd/log"

	"github.com/nonibytes/querywrap/querywrap/ops"
	"github.com/nonibytes/querywrap/querywrap/query"
	"github.com/nonibytes/querywrap/querywrap/storage"
)

// Table is an open handle on one listed table
type Table struct {
	adapter storage.Adapter
	db      *sql.DB
	spec    TableSpec
	schema  storage.Schema
	opts    TableOptions
}

// Create creates the table if needed and opens it
func Create(ctx context.Context, adapter storage.Adapter, spec TableSpec, opts TableOptions) (*Table, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}

	schema := spec.AsStorageSchema()
	if err := ops.CreateTable(ctx, db, adapter, schema); err != nil {
		db.Close()
		return nil, err
	}

	return newTable(adapter, db, spec, schema, opts), nil
}

// Open opens an existing table and checks that every described column exists
func Open(ctx context.Context, adapter storage.Adapter, spec TableSpec, opts TableOptions) (*Table, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}

	schema := spec.AsStorageSchema()
	if err := adapter.VerifyTable(ctx, db, schema); err != nil {
		db.Close()
		if IsKind(err, ErrNotFound) {
			return nil, Wrap(ErrNotFound, "open table", err)
		}
		return nil, Wrap(ErrSchema, "table verification failed", err)
	}

	return newTable(adapter, db, spec, schema, opts), nil
}

func newTable(adapter storage.Adapter, db *sql.DB, spec TableSpec, schema storage.Schema, opts TableOptions) *Table {
	return &Table{
		adapter: adapter,
		db:      db,
		spec:    spec,
		schema:  schema,
		opts:    opts.normalized(),
	}
}

// Close closes the table
func (t *Table) Close() error {
	if t.db != nil {
		if err := t.db.Close(); err != nil {
			return Wrap(ErrIO, "close database", err)
		}
	}
	return t.adapter.Close()
}

// Spec returns the table spec
func (t *Table) Spec() TableSpec {
	return t.spec
}

// Insert writes one row. When the table is tenant scoped, tenantID overrides
// any tenant value in row.
func (t *Table) Insert(ctx context.Context, tenantID string, row map[string]any) error {
	if t.spec.TenantColumn != "" {
		if tenantID == "" {
			return New(ErrInvalidParam, "tenant id is required")
		}
		scoped := make(map[string]any, len(row)+1)
		for k, v := range row {
			scoped[k] = v
		}
		scoped[t.spec.TenantColumn] = tenantID
		row = scoped
	}
	return ops.Insert(ctx, t.db, t.adapter, t.schema, row)
}

// Get returns the row with primary key id. Removed rows are only returned
// when withDeleted is set.
func (t *Table) Get(ctx context.Context, tenantID string, id any, withDeleted bool) (map[string]any, error) {
	return ops.Get(ctx, t.db, t.adapter, t.schema, id, scopeFor(t.spec, FindOptions{TenantID: tenantID, WithDeleted: withDeleted}))
}

// Update changes the given columns of a live row and returns it.
func (t *Table) Update(ctx context.Context, tenantID string, id any, patch map[string]any) (map[string]any, error) {
	return ops.Update(ctx, t.db, t.adapter, t.schema, id, patch, scopeFor(t.spec, FindOptions{TenantID: tenantID}))
}

// Remove soft-deletes the row with primary key id, or deletes it when the
// table has no soft delete column.
func (t *Table) Remove(ctx context.Context, tenantID string, id any) error {
	return ops.Remove(ctx, t.db, t.adapter, t.schema, id, scopeFor(t.spec, FindOptions{TenantID: tenantID}), time.Now())
}

// Find lists one page of rows matching rec. Reserved keys in rec control
// paging and ordering; every other key is a filter.
func (t *Table) Find(ctx context.Context, rec *query.Record, fopts FindOptions) (Pagination, error) {
	res, err := ops.Find(ctx, t.db, t.adapter, t.schema, rec, scopeFor(t.spec, fopts), pageDefaultsFor(t.spec, t.opts))
	if err != nil {
		return Pagination{}, err
	}

	p := Pagination{
		Data:     res.Rows,
		Page:     res.Plan.Page.Page,
		PageSize: res.Plan.Page.PageSize,
		Total:    res.Total,
	}
	if fopts.Explain {
		p.ExplainSQL = res.Plan.PageSQL
		p.ExplainSteps = res.Plan.ExplainSteps
	}
	return p, nil
}

// Explain renders the statements Find would run, without touching the database
func (t *Table) Explain(ctx context.Context, rec *query.Record, fopts FindOptions) (Explanation, error) {
	return explain(ctx, t.adapter, t.spec, t.schema, t.opts, rec, fopts)
}

// Explain renders the statements a Find on spec would run. The adapter is
// only used as a dialect and is never connected.
func Explain(ctx context.Context, adapter storage.Adapter, spec TableSpec, opts TableOptions, rec *query.Record, fopts FindOptions) (Explanation, error) {
	if err := spec.Validate(); err != nil {
		return Explanation{}, err
	}
	return explain(ctx, adapter, spec, spec.AsStorageSchema(), opts.normalized(), rec, fopts)
}

func explain(ctx context.Context, adapter storage.Adapter, spec TableSpec, schema storage.Schema, opts TableOptions, rec *query.Record, fopts FindOptions) (Explanation, error) {
	plan, err := ops.BuildPlan(adapter, schema, rec, scopeFor(spec, fopts), pageDefaultsFor(spec, opts))
	if err != nil {
		return Explanation{}, err
	}
	log.G(ctx).WithFields(log.Fields{"table": spec.Name, "steps": len(plan.ExplainSteps)}).Debug("explain")
	return Explanation{
		Count: Statement{SQL: plan.CountSQL, Args: plan.CountArgs},
		Page:  Statement{SQL: plan.PageSQL, Args: plan.PageArgs},
		Steps: plan.ExplainSteps,
	}, nil
}

// Adapter returns the underlying storage adapter
func (t *Table) Adapter() storage.Adapter {
	return t.adapter
}

// DB returns the underlying database connection (for advanced use)
func (t *Table) DB() *sql.DB {
	return t.db
}

func scopeFor(spec TableSpec, fopts FindOptions) ops.Scope {
	return ops.Scope{
		TenantColumn:     spec.TenantColumn,
		TenantID:         fopts.TenantID,
		SoftDeleteColumn: spec.SoftDeleteColumn,
		WithDeleted:      fopts.WithDeleted,
	}
}

func pageDefaultsFor(spec TableSpec, opts TableOptions) ops.PageDefaults {
	return ops.PageDefaults{
		PageSize:    opts.DefaultPageSize,
		MaxPageSize: opts.MaxPageSize,
		Sort:        spec.DefaultSort,
		Desc:        spec.defaultDesc(),
	}
}
