package main

import (
	"os"

	"github.com/thenoetrevino/paso-threads/cmd"
	"github.com/thenoetrevino/paso-threads/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cmd.Execute()))
}
