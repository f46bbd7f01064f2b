package main

import (
	"os"

	"github.com/second-brain/core/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
