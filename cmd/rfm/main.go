package main

import (
	"fmt"
	"os"

	"github.com/rfmkit/rfm/internal/commands"
)

var (
	// version, commit and date are set via ldflags during build.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := commands.NewRootCommand(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
