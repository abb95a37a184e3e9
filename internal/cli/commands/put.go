package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
	"github.com/nonibytes/querywrap/querywrap/query"
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// RunPut inserts one row from --set pairs, or one row per JSON line on stdin.
func RunPut(ctx context.Context, g cliopt.GlobalOptions, argv []string) int {
	fs := newFlagSet("put")
	var specPath, tenant string
	var jsonMode bool
	var sets cliutil.SetArgs
	fs.StringVar(&specPath, "table-spec", "", "table spec JSON file")
	fs.StringVar(&specPath, "t", "", "table spec JSON file")
	fs.StringVar(&tenant, "tenant", "", "tenant id")
	fs.BoolVar(&jsonMode, "json", false, "read JSON lines from stdin")
	fs.Var(&sets, "set", "set column value key=value (repeatable)")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if specPath == "" {
		return usage("missing --table-spec")
	}
	if !jsonMode && len(sets) == 0 {
		return usage("either --json or --set key=value required")
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

	if !jsonMode {
		rec, err := cliutil.RecordFromArgs("", "", sets)
		if err != nil {
			return fail(ctx, err)
		}
		if err := tbl.Insert(ctx, tenant, cliutil.RowFromRecord(rec)); err != nil {
			return fail(ctx, err)
		}
		fmt.Fprintln(stdout, "Put 1 row")
		return 0
	}

	scanner := bufio.NewScanner(stdin)
	count := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := query.FromJSON([]byte(line))
		if err != nil {
			return fail(ctx, err)
		}
		if err := tbl.Insert(ctx, tenant, cliutil.RowFromRecord(rec)); err != nil {
			return fail(ctx, fmt.Errorf("row %d: %w", count+1, err))
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fail(ctx, err)
	}
	fmt.Fprintf(stdout, "Put %d rows\n", count)
	return 0
}
