package commands

import (
	"context"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
)

// RunGet prints one row by primary key.
func RunGet(ctx context.Context, g cliopt.GlobalOptions, argv []string) int {
	fs := newFlagSet("get")
	var specPath, tenant, id string
	var withDeleted bool
	fs.StringVar(&specPath, "table-spec", "", "table spec JSON file")
	fs.StringVar(&specPath, "t", "", "table spec JSON file")
	fs.StringVar(&tenant, "tenant", "", "tenant id")
	fs.StringVar(&id, "id", "", "primary key value")
	fs.BoolVar(&withDeleted, "with-deleted", false, "include a soft-deleted row")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if specPath == "" || id == "" {
		return usage("missing --table-spec or --id")
	}

	spec, err := cliutil.ReadTableSpec(specPath)
	if err != nil {
		return fail(ctx, err)
	}
	tbl, err := openTable(ctx, g, spec)
	if err != nil {
		return fail(ctx, err)
	}
	defer tbl.Close()

	row, err := tbl.Get(ctx, tenant, id, withDeleted)
	if err != nil {
		return fail(ctx, err)
	}
	cliutil.PrintJSON(stdout, row)
	return 0
}
