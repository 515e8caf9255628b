// Command lingoseo resolves languages, builds SEO metadata and sitemaps,
// prerenders a multilingual single-page site and keeps its translation
// tables complete.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	goerrors "github.com/goliatone/go-errors"

	"github.com/ZaguanLabs/lingoseo"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = lingoseo.Version
	commit    = lingoseo.GitCommit
	buildDate = lingoseo.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, args, stdout, stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(newApp(stdout, stderr))
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// exitCode maps usage and configuration problems to 2, everything else to 1.
func exitCode(err error) int {
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return 2
	}
	return 1
}
