package main

import (
	"os"

	"gitsuggest/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
