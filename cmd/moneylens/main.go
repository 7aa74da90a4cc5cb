package main

import (
	"os"

	"github.com/avollmer/moneylens/cmd/moneylens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
