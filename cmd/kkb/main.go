package main

import (
	"os"

	"github.com/kkb-dev/kkb/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
