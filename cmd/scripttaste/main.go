// ScriptTaste builds a poster collage from the shows you watched: each
// poster's area is proportional to the time spent on the show, posters are
// packed into a tight rectangle and the gaps are softened with a blur.
//
// Build:
//   go build -o scripttaste ./cmd/scripttaste
//   go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/scripttaste
//
// Usage:
//   scripttaste config init
//   scripttaste render shows.csv -o collage.png --report collage.pdf
//   scripttaste compare shows.xlsx

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/scripttaste/internal/cli"
)

// Set via -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
