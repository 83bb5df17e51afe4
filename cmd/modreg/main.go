package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modreg/internal/cli"
	"github.com/arthur-debert/modreg/pkg/output"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, output.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
