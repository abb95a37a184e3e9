package commands

import (
	"context"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
	"github.com/nonibytes/querywrap/querywrap"
)

// RunWhere prints the count and page statements for a record, with their
// arguments, rendered for the configured backend without connecting to it.
func RunWhere(ctx context.Context, g cliopt.GlobalOptions, argv []string) int {
	fs := newFlagSet("where")
	var specPath, rawQuery, tenant string
	var withDeleted bool
	fs.StringVar(&specPath, "table-spec", "", "table spec JSON file")
	fs.StringVar(&specPath, "t", "", "table spec JSON file")
	fs.StringVar(&rawQuery, "query", "", "raw query string")
	fs.StringVar(&rawQuery, "q", "", "raw query string")
	fs.StringVar(&tenant, "tenant", "", "tenant id")
	fs.BoolVar(&withDeleted, "with-deleted", false, "include soft-deleted rows")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if specPath == "" {
		return usage("missing --table-spec")
	}

	spec, err := cliutil.ReadTableSpec(specPath)
	if err != nil {
		return fail(ctx, err)
	}
	rec, err := cliutil.RecordFromArgs(rawQuery, "", fs.Args())
	if err != nil {
		return fail(ctx, err)
	}
	adapter, err := querywrap.NewAdapter(cliutil.OpenOptions(g))
	if err != nil {
		return fail(ctx, err)
	}

	ex, err := querywrap.Explain(ctx, adapter, spec, cliutil.TableOptions(g), rec,
		querywrap.FindOptions{TenantID: tenant, WithDeleted: withDeleted})
	if err != nil {
		return fail(ctx, err)
	}
	cliutil.PrintJSON(stdout, ex)
	return 0
}
