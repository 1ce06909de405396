package main

import (
	"os"

	"github.com/critiq-dev/critiq-cli/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
