package planner

import (
	"testing"

	"gotest.tools/v3/assert"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/query"
	"github.com/nonibytes/querywrap/querywrap/storage"
	"github.com/nonibytes/querywrap/querywrap/storage/postgres"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlbuilder"
	"github.com/nonibytes/querywrap/querywrap/storage/sqlite"
)

type testSchema struct {
	name string
	pk   string
	cols []string
	spec map[string]storage.ColumnSpec
}

func (s testSchema) TableName() string  { return s.name }
func (s testSchema) PrimaryKey() string { return s.pk }
func (s testSchema) ColumnsInOrder() []string {
	return s.cols
}
func (s testSchema) Column(name string) (storage.ColumnSpec, bool) {
	c, ok := s.spec[name]
	return c, ok
}

func usersSchema() testSchema {
	return testSchema{
		name: "users",
		pk:   "id",
		cols: []string{"id", "name", "age", "score", "active", "created", "deleted_at"},
		spec: map[string]storage.ColumnSpec{
			"id":         {Type: storage.ColumnInt},
			"name":       {Type: storage.ColumnText},
			"age":        {Type: storage.ColumnInt},
			"score":      {Type: storage.ColumnFloat},
			"active":     {Type: storage.ColumnBool},
			"created":    {Type: storage.ColumnTimestamp},
			"deleted_at": {Type: storage.ColumnTimestamp, Nullable: true},
		},
	}
}

func compileQuery(t *testing.T, d Dialect, style sqlbuilder.PlaceholderStyle, raw string) (*CompileOutput, *sqlbuilder.Builder, error) {
	t.Helper()
	rec, err := query.ParseQuery(raw)
	assert.NilError(t, err)
	b := sqlbuilder.New(style)
	out, err := Compile(usersSchema(), d, b, query.Compile(rec))
	return out, b, err
}

func TestCompileSQLite(t *testing.T) {
	out, b, err := compileQuery(t, sqlite.New(""), sqlbuilder.PlaceholderQuestion,
		"name=*bob*&age=ge+18&score_begin=1.5&score_end=3&active=true&id=1,2,3&page=2&sort=name")
	assert.NilError(t, err)

	assert.DeepEqual(t, out.Conditions, []string{
		`"name" LIKE ?`,
		`"age" >= ?`,
		`"score" >= ? AND "score" <= ?`,
		`"active" = ?`,
		`"id" IN (?, ?, ?)`,
	})
	assert.DeepEqual(t, b.Args(), []any{"%bob%", int64(18), 1.5, 3.0, true, int64(1), int64(2), int64(3)})
	assert.Equal(t, out.Where(), ` WHERE "name" LIKE ? AND "age" >= ? AND "score" >= ? AND "score" <= ? AND "active" = ? AND "id" IN (?, ?, ?)`)
	assert.DeepEqual(t, out.ExplainSteps, []string{
		"LIKE name %bob%",
		"CMP age>=18",
		"RANGE score:1.5..3",
		"EQ active=true",
		"IN id [1 2 3]",
	})
}

func TestCompilePostgres(t *testing.T) {
	out, b, err := compileQuery(t, postgres.New("", ""), sqlbuilder.PlaceholderDollar,
		"name=!bob&age=*1*&created_begin=2024-01-01&created_end=2024-12-31")
	assert.NilError(t, err)

	assert.DeepEqual(t, out.Conditions, []string{
		`"name" <> $1`,
		`"age"::text ILIKE $2`,
		`"created" >= $3 AND "created" <= $4`,
	})
	assert.DeepEqual(t, b.Args(), []any{"bob", "%1%", "2024-01-01", "2024-12-31"})
}

func TestCompileNullEquality(t *testing.T) {
	rec := query.NewRecord()
	rec.Set("deleted_at", query.Null())
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	out, err := Compile(usersSchema(), sqlite.New(""), b, query.Compile(rec))
	assert.NilError(t, err)
	assert.DeepEqual(t, out.Conditions, []string{`"deleted_at" IS NULL`})
	assert.Equal(t, b.Len(), 0)
}

func TestCompileEmptyFilterSet(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	out, err := Compile(usersSchema(), sqlite.New(""), b, query.Compile(nil))
	assert.NilError(t, err)
	assert.Equal(t, out.Where(), "")
}

func TestCompileUnknownColumn(t *testing.T) {
	_, _, err := compileQuery(t, sqlite.New(""), sqlbuilder.PlaceholderQuestion, "email=*x")
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrUnknownField))

	// the _begin key without a base column is not a known column either
	_, _, err = compileQuery(t, sqlite.New(""), sqlbuilder.PlaceholderQuestion, "born_begin=2000&born_end=2010")
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrUnknownField))
}

func TestCompileTypeMismatch(t *testing.T) {
	cases := []string{
		"age=lt+ten",
		"age=08,x",
		"score=ge+high",
		"active=maybe",
		"created=lt+yesterday",
	}
	for _, raw := range cases {
		_, _, err := compileQuery(t, sqlite.New(""), sqlbuilder.PlaceholderQuestion, raw)
		assert.Assert(t, qerrors.IsKind(err, qerrors.ErrTypeMismatch), raw)
	}
}

func TestCompileDecimalIntegersWithLeadingZero(t *testing.T) {
	_, b, err := compileQuery(t, sqlite.New(""), sqlbuilder.PlaceholderQuestion, "age=08,09")
	assert.NilError(t, err)
	assert.DeepEqual(t, b.Args(), []any{int64(8), int64(9)})
}

func TestCompileNullRangeBoundIsMismatch(t *testing.T) {
	rec := query.NewRecord()
	rec.SetString("age_begin", "18")
	rec.Set("age_end", query.Null())
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	_, err := Compile(usersSchema(), sqlite.New(""), b, query.Compile(rec))
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrTypeMismatch))
}

func TestCompileFractionalIntegerIsMismatch(t *testing.T) {
	rec := query.NewRecord()
	rec.Set("age", query.Float(1.5))
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	_, err := Compile(usersSchema(), sqlite.New(""), b, query.Compile(rec))
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrTypeMismatch), "got %v", err)

	rec.Set("age", query.Float(2))
	b = sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	_, err = Compile(usersSchema(), sqlite.New(""), b, query.Compile(rec))
	assert.NilError(t, err)
	assert.DeepEqual(t, b.Args(), []any{int64(2)})
}

func TestCoerceArgInt(t *testing.T) {
	intCol := storage.ColumnSpec{Type: storage.ColumnInt}
	for _, v := range []any{1.5, float32(0.25), "1.5"} {
		_, err := CoerceArg("age", intCol, v)
		assert.Assert(t, qerrors.IsKind(err, qerrors.ErrTypeMismatch), "%v: got %v", v, err)
	}
	got, err := CoerceArg("age", intCol, 3.0)
	assert.NilError(t, err)
	assert.Equal(t, got, any(int64(3)))
}
