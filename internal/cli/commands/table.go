package commands

import (
	"context"
	"fmt"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
	"github.com/nonibytes/querywrap/querywrap"
)

func RunTable(ctx context.Context, g cliopt.GlobalOptions, argv []string) int {
	if len(argv) == 0 {
		return usage("usage: querywrap table <create|verify> --table-spec <file>")
	}
	sub := argv[0]
	fs := newFlagSet("table " + sub)
	var specPath string
	fs.StringVar(&specPath, "table-spec", "", "table spec JSON file")
	fs.StringVar(&specPath, "t", "", "table spec JSON file")
	if err := fs.Parse(argv[1:]); err != nil {
		return 2
	}
	if specPath == "" {
		return usage("missing --table-spec")
	}
	spec, err := cliutil.ReadTableSpec(specPath)
	if err != nil {
		return fail(ctx, err)
	}

	switch sub {
	case "create":
		adapter, err := querywrap.NewAdapter(cliutil.OpenOptions(g))
		if err != nil {
			return fail(ctx, err)
		}
		tbl, err := querywrap.Create(ctx, adapter, spec, cliutil.TableOptions(g))
		if err != nil {
			return fail(ctx, err)
		}
		defer tbl.Close()
		fmt.Fprintf(stdout, "Created table %s on %s (%d columns)\n", spec.Name, adapter.TargetID(), len(spec.Columns))
		return 0
	case "verify":
		tbl, err := openTable(ctx, g, spec)
		if err != nil {
			return fail(ctx, err)
		}
		defer tbl.Close()
		fmt.Fprintf(stdout, "Table %s matches its spec\n", spec.Name)
		return 0
	default:
		return usage(fmt.Sprintf("unknown table command: %s", sub))
	}
}
