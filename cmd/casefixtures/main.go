package main

import (
	"os"

	"github.com/fjglira/casefixtures/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
