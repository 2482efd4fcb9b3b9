package main

import (
	"fmt"
	"os"

	"github.com/coregx/relattice/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "relattice:", err)
		os.Exit(1)
	}
}
