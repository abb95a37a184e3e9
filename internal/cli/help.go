package cli

import (
	"fmt"
	"io"
)

func PrintRootHelp(w io.Writer) {
	fmt.Fprintln(w, `querywrap: compile flat query records into SQL filters and list tables with them

USAGE
  querywrap [global flags] <command> [args]

GLOBAL FLAGS
  --config <file>
  --backend sqlite|postgres
  --sqlite-path <file.db>
  --sqlite-driver sqlite|sqlite3
  --pg-dsn <dsn>
  --pg-schema <name>
  --log-level trace|debug|info|warn|error
  --log-format text|json

COMMANDS
  compile [--query q | --json obj] [key=value ...]
  where   --table-spec <file> [--tenant id] [--with-deleted] [key=value ...]
  table   create|verify --table-spec <file>
  put     --table-spec <file> [--tenant id] (--set key=value ... | --json < rows.jsonl)
  find    --table-spec <file> [--tenant id] [--with-deleted] [--explain] [--format json|pretty] [key=value ...]
  get     --table-spec <file> [--tenant id] --id <pk> [--with-deleted]
  update  --table-spec <file> [--tenant id] --id <pk> (--set key=value ... | --json obj)
  remove  --table-spec <file> [--tenant id] --id <pk>

VALUES
  *x* x* *x    LIKE pattern          !x        not equal
  a,b,c        IN list               k_begin + k_end   inclusive range
  gt|ge|lt|le x  comparison          page pageSize sort order   listing parameters

Settings may also come from QUERYWRAP_* environment variables or a .env file.`)
}
