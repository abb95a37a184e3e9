package commands

import (
	"context"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
)

// RunUpdate changes columns of one row from --set pairs or a --json object
// and prints the stored row.
func RunUpdate(ctx context.Context, g cliopt.GlobalOptions, argv []string) int {
	fs := newFlagSet("update")
	var specPath, tenant, id, rawJSON string
	var sets cliutil.SetArgs
	fs.StringVar(&specPath, "table-spec", "", "table spec JSON file")
	fs.StringVar(&specPath, "t", "", "table spec JSON file")
	fs.StringVar(&tenant, "tenant", "", "tenant id")
	fs.StringVar(&id, "id", "", "primary key value")
	fs.StringVar(&rawJSON, "json", "", "JSON object of column values")
	fs.Var(&sets, "set", "set column value key=value (repeatable)")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if specPath == "" || id == "" {
		return usage("missing --table-spec or --id")
	}
	if rawJSON == "" && len(sets) == 0 {
		return usage("either --json or --set key=value required")
	}

	spec, err := cliutil.ReadTableSpec(specPath)
	if err != nil {
		return fail(ctx, err)
	}
	rec, err := cliutil.RecordFromArgs("", rawJSON, sets)
	if err != nil {
		return fail(ctx, err)
	}
	tbl, err := openTable(ctx, g, spec)
	if err != nil {
		return fail(ctx, err)
	}
	defer tbl.Close()

	row, err := tbl.Update(ctx, tenant, id, cliutil.RowFromRecord(rec))
	if err != nil {
		return fail(ctx, err)
	}
	cliutil.PrintJSON(stdout, row)
	return 0
}
