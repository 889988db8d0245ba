// Command metaffi-core is a CLI over the CDTS engine: it constructs,
// traverses, and inspects in-memory element trees without needing a real
// foreign-language binding attached.
package main

import (
	"fmt"
	"os"

	"github.com/MetaFFI/plugin-sdk/cmd/metaffi-core/commands"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
