package commands

import (
	"context"
	"time"

	"github.com/containerd/log"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
	"github.com/nonibytes/querywrap/querywrap"
)

// RunFind lists one page of rows matching the record given as key=value
// arguments or --query.
func RunFind(ctx context.Context, g cliopt.GlobalOptions, argv []string) int {
	fs := newFlagSet("find")
	var specPath, rawQuery, tenant, format string
	var withDeleted, explain bool
	fs.StringVar(&specPath, "table-spec", "", "table spec JSON file")
	fs.StringVar(&specPath, "t", "", "table spec JSON file")
	fs.StringVar(&rawQuery, "query", "", "raw query string")
	fs.StringVar(&rawQuery, "q", "", "raw query string")
	fs.StringVar(&tenant, "tenant", "", "tenant id")
	fs.BoolVar(&withDeleted, "with-deleted", false, "include soft-deleted rows")
	fs.BoolVar(&explain, "explain", false, "include the query plan")
	fs.StringVar(&format, "format", "json", "format: json|pretty")
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
	tbl, err := openTable(ctx, g, spec)
	if err != nil {
		return fail(ctx, err)
	}
	defer tbl.Close()

	start := time.Now()
	page, err := tbl.Find(ctx, rec, querywrap.FindOptions{
		TenantID:    tenant,
		WithDeleted: withDeleted,
		Explain:     explain,
	})
	if err != nil {
		return fail(ctx, err)
	}
	log.G(ctx).WithFields(log.Fields{
		"table":   spec.Name,
		"rows":    len(page.Data),
		"total":   page.Total,
		"elapsed": time.Since(start),
	}).Debug("find done")

	switch cliutil.ParseOutputFormat(format) {
	case cliutil.FormatJSON:
		cliutil.PrintJSON(stdout, page)
	default:
		cliutil.PrintPage(stdout, spec, page)
	}
	return 0
}
