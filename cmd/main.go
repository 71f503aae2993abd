package main

import (
	"os"

	"github.com/polisearch/polisearch/cmd/polisearch"
)

func main() {
	if err := polisearch.Execute(); err != nil {
		os.Exit(1)
	}
}
