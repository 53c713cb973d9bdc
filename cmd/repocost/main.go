// Command repocost analyzes repositories and estimates development cost.
package main

import (
	"fmt"
	"os"

	"github.com/codeGROOVE-dev/repocost/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
