package main

import (
	"fmt"
	"os"

	"github.com/reoring/docskema/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "docskema:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
