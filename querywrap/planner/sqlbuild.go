package planner

import (
	"fmt"
	"strings"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/storage"
)

// SQLDialect is a Dialect that also knows its statement templates and DDL.
type SQLDialect interface {
	Dialect
	SQL() storage.SQL
	ColumnDDL(spec storage.ColumnSpec, primary bool) string
}

// PageSpec selects one page of an ordered listing
type PageSpec struct {
	Sort   string // column; empty uses the primary key
	Desc   bool
	Limit  int
	Offset int
}

// BuildCountSQL counts the rows matching where.
func BuildCountSQL(d SQLDialect, schema storage.Schema, where string) string {
	return fmt.Sprintf(d.SQL().CountRows, d.QuoteIdent(schema.TableName()), where)
}

// BuildPageSQL selects every column of the rows matching where, ordered by
// the sort column and then the primary key so pages are stable.
func BuildPageSQL(d SQLDialect, schema storage.Schema, where string, page PageSpec, b storage.Builder) (string, error) {
	pk := schema.PrimaryKey()
	sortCol := page.Sort
	if sortCol == "" {
		sortCol = pk
	}
	if _, ok := schema.Column(sortCol); !ok {
		return "", qerrors.UnknownFieldError(sortCol)
	}

	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}
	order := fmt.Sprintf("%s %s", d.QuoteIdent(sortCol), dir)
	if sortCol != pk {
		order += fmt.Sprintf(", %s ASC", d.QuoteIdent(pk))
	}

	limitPh := b.Arg(int64(page.Limit))
	offsetPh := b.Arg(int64(page.Offset))
	return fmt.Sprintf(d.SQL().SelectPage,
		quoteColumns(d, schema.ColumnsInOrder()),
		d.QuoteIdent(schema.TableName()),
		where,
		order,
		limitPh,
		offsetPh,
	), nil
}

// BuildInsertSQL renders an insert of the given columns in order.
func BuildInsertSQL(d SQLDialect, schema storage.Schema, cols []string, vals []any, b storage.Builder) string {
	return fmt.Sprintf(d.SQL().InsertRow,
		d.QuoteIdent(schema.TableName()),
		quoteColumns(d, cols),
		b.List(vals),
	)
}

// BuildSelectRowSQL selects every column of the rows matching where.
func BuildSelectRowSQL(d SQLDialect, schema storage.Schema, where string) string {
	return fmt.Sprintf(d.SQL().SelectRow,
		quoteColumns(d, schema.ColumnsInOrder()),
		d.QuoteIdent(schema.TableName()),
		where,
	)
}

// BuildUpdateSQL renders an update of the rows matching where. Each entry of
// sets is a rendered "<col> = <ph>" assignment whose placeholder was taken
// before the where clause was built.
func BuildUpdateSQL(d SQLDialect, schema storage.Schema, sets []string, where string) string {
	return fmt.Sprintf(d.SQL().UpdateRows, d.QuoteIdent(schema.TableName()), strings.Join(sets, ", "), where)
}

// BuildDeleteSQL renders a delete of the rows matching where.
func BuildDeleteSQL(d SQLDialect, schema storage.Schema, where string) string {
	return fmt.Sprintf(d.SQL().DeleteRows, d.QuoteIdent(schema.TableName()), where)
}

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS for the schema.
func BuildCreateTableSQL(d SQLDialect, schema storage.Schema) string {
	pk := schema.PrimaryKey()
	cols := schema.ColumnsInOrder()
	defs := make([]string, 0, len(cols))
	for _, name := range cols {
		spec, _ := schema.Column(name)
		defs = append(defs, d.QuoteIdent(name)+" "+d.ColumnDDL(spec, name == pk))
	}
	return fmt.Sprintf(d.SQL().CreateTable, d.QuoteIdent(schema.TableName()), strings.Join(defs, ",\n  "))
}

func quoteColumns(d Dialect, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}
