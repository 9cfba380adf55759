package main

import (
	"os"

	"github.com/godilite/gwa-analytics/cmd/gwactl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
