package main

import (
	"os"

	"github.com/documind-ai/documind/internal/adapters/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
