package ops

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/postgres"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
)

func TestRowWhereNumbersAfterAssignments(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderDollar)
	b.Arg("x")
	where, err := rowWhere(postgres.New("postgres://x", ""), ordersSchema(), b, "7", ordersScope)
	assert.NilError(t, err)
	assert.Equal(t, where, ` WHERE "id" = $2 AND "tenant" = $3 AND "deleted_at" IS NULL`)
	assert.DeepEqual(t, b.Args(), []any{"x", int64(7), "acme"})
}

func TestRowWhereRejects(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	_, err := rowWhere(postgres.New("postgres://x", ""), ordersSchema(), b, "seven", ordersScope)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrTypeMismatch))

	noTenant := ordersScope
	noTenant.TenantID = ""
	_, err = rowWhere(postgres.New("postgres://x", ""), ordersSchema(), b, 7, noTenant)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrInvalidParam))
}

func TestRemovedMarker(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	assert.Equal(t, removedMarker(storage.ColumnSpec{Type: storage.ColumnTimestamp}, now), "2024-06-01T11:00:00Z")
	assert.Equal(t, removedMarker(storage.ColumnSpec{Type: storage.ColumnText}, now), "2024-06-01T11:00:00Z")
	assert.Equal(t, removedMarker(storage.ColumnSpec{Type: storage.ColumnInt}, now), now.UnixMilli())
	assert.Equal(t, removedMarker(storage.ColumnSpec{Type: storage.ColumnBool}, now), true)
}

func seedOrders(t *testing.T) (context.Context, storage.Adapter, fakeSchema, *sql.DB) {
	t.Helper()
	ctx, a, schema := openOrders(t)
	db, err := a.Connect(ctx)
	assert.NilError(t, err)
	t.Cleanup(func() { db.Close() })
	assert.NilError(t, CreateTable(ctx, db, a, schema))
	for _, r := range []map[string]any{
		{"tenant": "acme", "item": "pen", "qty": 3, "paid": true},
		{"tenant": "other", "item": "ink", "qty": 1, "paid": false},
	} {
		assert.NilError(t, Insert(ctx, db, a, schema, r))
	}
	return ctx, a, schema, db
}

func TestRemoveStampsSoftDeleteColumn(t *testing.T) {
	ctx, a, schema, db := seedOrders(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.NilError(t, Remove(ctx, db, a, schema, 1, ordersScope, now))

	_, err := Get(ctx, db, a, schema, 1, ordersScope)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrNotFound), "got %v", err)

	withDeleted := ordersScope
	withDeleted.WithDeleted = true
	row, err := Get(ctx, db, a, schema, 1, withDeleted)
	assert.NilError(t, err)
	assert.Equal(t, row["deleted_at"], "2024-06-01T12:00:00Z")

	err = Remove(ctx, db, a, schema, 1, withDeleted, now)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrNotFound), "got %v", err)
	err = Remove(ctx, db, a, schema, 2, ordersScope, now)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrNotFound), "got %v", err)
}

func TestRemoveDeletesWithoutSoftDeleteColumn(t *testing.T) {
	ctx, a, schema, db := seedOrders(t)
	hard := Scope{TenantColumn: "tenant", TenantID: "other"}

	assert.NilError(t, Remove(ctx, db, a, schema, 2, hard, time.Now()))

	var n int
	assert.NilError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "orders"`).Scan(&n))
	assert.Equal(t, n, 1)
}

func TestUpdateReturnsStoredRow(t *testing.T) {
	ctx, a, schema, db := seedOrders(t)

	row, err := Update(ctx, db, a, schema, "1", map[string]any{"qty": "5", "paid": false}, ordersScope)
	assert.NilError(t, err)
	assert.Equal(t, row["qty"], int64(5))
	assert.Equal(t, row["paid"], false)
	assert.Equal(t, row["item"], "pen")

	_, err = Update(ctx, db, a, schema, 1, map[string]any{"tenant": "other"}, ordersScope)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrInvalidParam))
	_, err = Update(ctx, db, a, schema, 9, map[string]any{"qty": 1}, ordersScope)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrNotFound))
}
