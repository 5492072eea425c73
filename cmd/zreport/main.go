// Package main is the entry point for the zreport CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/zreport/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
