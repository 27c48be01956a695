package main

import (
	"os"

	"github.com/roach88/martlens/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own diagnostics; only the exit code is left.
		os.Exit(cli.GetExitCode(err))
	}
}
