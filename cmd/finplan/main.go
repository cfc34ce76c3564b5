package main

import (
	"os"

	"github.com/finplan-dev/finplan/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
