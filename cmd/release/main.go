package main

import (
	"os"

	"github.com/xuniorss/releasekit/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
