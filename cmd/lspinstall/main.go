// Package main is the entry point for the lspinstall CLI.
package main

import (
	"os"

	"github.com/thoreinstein/lspinstall/cmd/lspinstall/commands"
)

func main() {
	os.Exit(commands.Execute())
}
