package main

import (
	"os"

	"github.com/statmix/paillier/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
