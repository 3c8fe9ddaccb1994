// Package main is the entry point for the membershipctl binary.
package main

import (
	"os"

	"github.com/fernandezvara/membership/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
