package planner

import (
	"testing"

	"gotest.tools/v3/assert"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/storage/postgres"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlite"
)

func TestBuildCountSQL(t *testing.T) {
	got := BuildCountSQL(sqlite.New(""), usersSchema(), ` WHERE "age" = ?`)
	assert.Equal(t, got, `SELECT COUNT(*) FROM "users" WHERE "age" = ?`)
}

func TestBuildPageSQL(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderDollar)
	b.Arg("x")
	got, err := BuildPageSQL(postgres.New("", ""), usersSchema(), ` WHERE "name" = $1`,
		PageSpec{Sort: "age", Desc: true, Limit: 10, Offset: 20}, b)
	assert.NilError(t, err)
	assert.Equal(t, got, `SELECT "id", "name", "age", "score", "active", "created", "deleted_at" FROM "users" WHERE "name" = $1 ORDER BY "age" DESC, "id" ASC LIMIT $2 OFFSET $3`)
	assert.DeepEqual(t, b.Args(), []any{"x", int64(10), int64(20)})
}

func TestBuildPageSQLDefaultsToPrimaryKey(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	got, err := BuildPageSQL(sqlite.New(""), usersSchema(), "", PageSpec{Limit: 5}, b)
	assert.NilError(t, err)
	assert.Equal(t, got, `SELECT "id", "name", "age", "score", "active", "created", "deleted_at" FROM "users" ORDER BY "id" ASC LIMIT ? OFFSET ?`)
}

func TestBuildPageSQLUnknownSort(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	_, err := BuildPageSQL(sqlite.New(""), usersSchema(), "", PageSpec{Sort: "password"}, b)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrUnknownField))
}

func TestBuildCreateTableSQL(t *testing.T) {
	got := BuildCreateTableSQL(sqlite.New(""), usersSchema())
	want := "CREATE TABLE IF NOT EXISTS \"users\" (\n" +
		"  \"id\" INTEGER PRIMARY KEY,\n" +
		"  \"name\" TEXT NOT NULL,\n" +
		"  \"age\" INTEGER NOT NULL,\n" +
		"  \"score\" REAL NOT NULL,\n" +
		"  \"active\" INTEGER NOT NULL,\n" +
		"  \"created\" TEXT NOT NULL,\n" +
		"  \"deleted_at\" TEXT\n" +
		")"
	assert.Equal(t, got, want)
}

func TestBuildInsertSQL(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderDollar)
	got := BuildInsertSQL(postgres.New("", ""), usersSchema(), []string{"name", "age"}, []any{"ann", int64(3)}, b)
	assert.Equal(t, got, `INSERT INTO "users"("name", "age") VALUES($1, $2)`)
}

func TestBuildRowStatements(t *testing.T) {
	pg := postgres.New("", "")
	assert.Equal(t, BuildSelectRowSQL(pg, usersSchema(), ` WHERE "id" = $1`),
		`SELECT "id", "name", "age", "score", "active", "created", "deleted_at" FROM "users" WHERE "id" = $1`)
	assert.Equal(t, BuildUpdateSQL(pg, usersSchema(), []string{`"name" = $1`, `"age" = $2`}, ` WHERE "id" = $3`),
		`UPDATE "users" SET "name" = $1, "age" = $2 WHERE "id" = $3`)
	assert.Equal(t, BuildDeleteSQL(sqlite.New(""), usersSchema(), ` WHERE "id" = ?`),
		`DELETE FROM "users" WHERE "id" = ?`)
}
