package main

import (
	"os"

	"github.com/bankbook-dev/bankbook/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
