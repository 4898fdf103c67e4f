package main

import (
	"os"

	"junon/cmd/junonc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
