// Package main provides the entry point for the testgate CLI.
package main

import (
	"context"
	"os"

	"github.com/wildme/testgate/internal/cli"
)

// Build information, set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse --short HEAD)"
var (
	version string //nolint:gochecknoglobals // Set at build time
	commit  string //nolint:gochecknoglobals // Set at build time
	date    string //nolint:gochecknoglobals // Set at build time
)

func main() {
	ctx := context.Background()

	err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()
	os.Exit(cli.ExitCodeForError(err))
}
