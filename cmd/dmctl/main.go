package main

import (
	"dm-lab/cmd/dmctl/commands"
	"os"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
