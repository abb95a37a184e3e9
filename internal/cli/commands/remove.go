package commands

import (
	"context"
	"fmt"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
)

// RunRemove soft-deletes one row, or deletes it when the table has no soft
// delete column.
func RunRemove(ctx context.Context, g cliopt.GlobalOptions, argv []string) int {
	fs := newFlagSet("remove")
	var specPath, tenant, id string
	fs.StringVar(&specPath, "table-spec", "", "table spec JSON file")
	fs.StringVar(&specPath, "t", "", "table spec JSON file")
	fs.StringVar(&tenant, "tenant", "", "tenant id")
	fs.StringVar(&id, "id", "", "primary key value")
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

	if err := tbl.Remove(ctx, tenant, id); err != nil {
		return fail(ctx, err)
	}
	fmt.Fprintln(stdout, "removed")
	return 0
}
