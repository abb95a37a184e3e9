package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/querywrap"
	"github.com/nonibytes/querywrap/querywrap/query"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatJSON   OutputFormat = "json"
)

func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatPretty, FormatJSON:
		return OutputFormat(s)
	default:
		return FormatPretty
	}
}

func PrintJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// SetArgs is a repeatable --set flag
type SetArgs []string

func (s *SetArgs) String() string { return strings.Join(*s, ",") }
func (s *SetArgs) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// RecordFromArgs builds a record from an optional raw query string, an
// optional flat JSON object and key=value pairs, in that order.
func RecordFromArgs(rawQuery, rawJSON string, pairs []string) (*query.Record, error) {
	rec := query.NewRecord()
	if rawQuery != "" {
		q, err := query.ParseQuery(rawQuery)
		if err != nil {
			return nil, err
		}
		rec = q
	}
	if rawJSON != "" {
		j, err := query.FromJSON([]byte(rawJSON))
		if err != nil {
			return nil, err
		}
		for _, f := range j.Fields() {
			rec.Set(f.Key, f.Value)
		}
	}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, querywrap.New(querywrap.ErrDecode, fmt.Sprintf("invalid argument %q (expected key=value)", kv))
		}
		rec.SetString(k, v)
	}
	return rec, nil
}

// RowFromRecord flattens a record into column values for an insert.
func RowFromRecord(rec *query.Record) map[string]any {
	row := make(map[string]any, rec.Len())
	for _, f := range rec.Fields() {
		row[f.Key] = f.Value.Interface()
	}
	return row
}

func ReadTableSpec(path string) (querywrap.TableSpec, error) {
	if path == "" {
		return querywrap.TableSpec{}, querywrap.New(querywrap.ErrInvalidParam, "missing --table-spec")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return querywrap.TableSpec{}, querywrap.Wrap(querywrap.ErrIO, "read table spec", err)
	}
	return querywrap.TableSpecFromJSON(b)
}

// OpenOptions converts CLI global flags into library open options.
func OpenOptions(g cliopt.GlobalOptions) querywrap.OpenOptions {
	return querywrap.OpenOptions{
		Backend:        g.Backend,
		SQLitePath:     g.SQLitePath,
		SQLiteDriver:   g.SQLiteDriver,
		PostgresDSN:    g.PostgresDSN,
		PostgresSchema: g.PostgresSchema,
	}
}

func TableOptions(g cliopt.GlobalOptions) querywrap.TableOptions {
	return querywrap.TableOptions{
		DefaultPageSize: g.DefaultPageSize,
		MaxPageSize:     g.MaxPageSize,
	}
}

// PrintPage writes a listing as aligned key=value lines, one row per line.
func PrintPage(w io.Writer, spec querywrap.TableSpec, p querywrap.Pagination) {
	for _, row := range p.Data {
		parts := make([]string, 0, len(spec.Columns))
		for _, c := range spec.Columns {
			parts = append(parts, fmt.Sprintf("%s=%v", c.Name, display(row[c.Name])))
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
	fmt.Fprintf(w, "\n--- page %d, %d of %d rows ---\n", p.Page, len(p.Data), p.Total)
	if len(p.ExplainSteps) > 0 {
		fmt.Fprintln(w, "\n=== Query Plan ===")
		for _, s := range p.ExplainSteps {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
	if p.ExplainSQL != "" {
		fmt.Fprintf(w, "\n=== SQL ===\n%s\n", p.ExplainSQL)
	}
}

func display(v any) any {
	if v == nil {
		return "NULL"
	}
	return v
}
