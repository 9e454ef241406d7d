package main

import (
	"os"

	"github.com/kvsearch/ftidx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
