package main

import (
	"os"

	_ "modernc.org/sqlite"

	"github.com/nonibytes/querywrap/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
