package main

import (
	"os"

	"github.com/entityauth/entitykit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
