package main

import (
	"os"

	"github.com/rustyeddy/rnndash/cmd/rnndash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
