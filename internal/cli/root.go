package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/containerd/log"
	"github.com/google/uuid"

	"github.com/nonibytes/querywrap/internal/cli/commands"
	"github.com/nonibytes/querywrap/internal/cliopt"
	"github.com/nonibytes/querywrap/internal/config"
)

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	cfg, err := config.Load(cliopt.ConfigFileArg(argv))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	globalFS := flag.NewFlagSet("querywrap", flag.ContinueOnError)
	globalFS.SetOutput(os.Stderr)
	g := cliopt.FromConfig(cfg)
	cliopt.BindGlobalFlags(globalFS, &g)

	if err := globalFS.Parse(argv); err != nil {
		// flag package already printed the error
		return 2
	}

	if err := setupLogging(g); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	args := globalFS.Args()
	if len(args) == 0 {
		PrintRootHelp(os.Stdout)
		return 0
	}

	verb := args[0]
	rest := args[1:]

	ctx := log.WithLogger(context.Background(), log.L.WithFields(log.Fields{
		"command":    verb,
		"request_id": uuid.NewString(),
	}))

	switch verb {
	case "--help", "-h", "help":
		PrintRootHelp(os.Stdout)
		return 0
	case "compile":
		return commands.RunCompile(ctx, g, rest)
	case "where":
		return commands.RunWhere(ctx, g, rest)
	case "table":
		return commands.RunTable(ctx, g, rest)
	case "put":
		return commands.RunPut(ctx, g, rest)
	case "find":
		return commands.RunFind(ctx, g, rest)
	case "get":
		return commands.RunGet(ctx, g, rest)
	case "update":
		return commands.RunUpdate(ctx, g, rest)
	case "remove":
		return commands.RunRemove(ctx, g, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", verb)
		PrintRootHelp(os.Stderr)
		return 2
	}
}

func setupLogging(g cliopt.GlobalOptions) error {
	if err := log.SetLevel(g.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", g.LogLevel, err)
	}
	if err := log.SetFormat(log.OutputFormat(g.LogFormat)); err != nil {
		return fmt.Errorf("invalid --log-format %q: %w", g.LogFormat, err)
	}
	return nil
}
