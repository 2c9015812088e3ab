// Package main is the entry point for the SecureCheck ledger dashboard.
package main

import (
	"os"

	"github.com/j-veylop/securecheck-dashboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
