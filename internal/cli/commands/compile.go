package commands

import (
	"context"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
	"github.com/nonibytes/querywrap/querywrap/query"
)

// RunCompile prints the filter set a record compiles to. No database is used.
func RunCompile(ctx context.Context, _ cliopt.GlobalOptions, argv []string) int {
	fs := newFlagSet("compile")
	var rawQuery, rawJSON string
	fs.StringVar(&rawQuery, "query", "", "raw query string, e.g. 'a=1&b=*x'")
	fs.StringVar(&rawQuery, "q", "", "raw query string")
	fs.StringVar(&rawJSON, "json", "", "flat JSON object")
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	rec, err := cliutil.RecordFromArgs(rawQuery, rawJSON, fs.Args())
	if err != nil {
		return fail(ctx, err)
	}
	cliutil.PrintJSON(stdout, query.CompileContext(ctx, rec))
	return 0
}
