// Command nit is a local, single-user issue tracker for coding agents.
package main

import (
	"os"

	"github.com/nit-tools/nit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
