package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/containerd/log"

	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/cliutil"
	"github.com/nonibytes/querywrap/querywrap"
)

// Replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// fail reports err and returns the runtime-error exit code.
func fail(ctx context.Context, err error) int {
	log.G(ctx).WithError(err).Debug("command failed")
	fmt.Fprintln(stderr, err)
	return 1
}

// usage reports a usage problem and returns the usage exit code.
func usage(msg string) int {
	fmt.Fprintln(stderr, msg)
	return 2
}

func openTable(ctx context.Context, g cliopt.GlobalOptions, spec querywrap.TableSpec) (*querywrap.Table, error) {
	adapter, err := querywrap.NewAdapter(cliutil.OpenOptions(g))
	if err != nil {
		return nil, err
	}
	return querywrap.Open(ctx, adapter, spec, cliutil.TableOptions(g))
}
