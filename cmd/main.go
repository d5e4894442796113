package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	service "github.com/okian/securescore/internal/app"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %s\n", describe(err))
		return 1
	}
	return 0
}

// describe prefixes err with the kind of failure so that scripts and humans
// can tell them apart without parsing the whole chain.
func describe(err error) string {
	switch service.ErrorType(err) {
	case "parse":
		return "history is not valid JSON: " + err.Error()
	case "validation":
		return "history holds an invalid record: " + err.Error()
	case "source":
		return "could not fetch the new score: " + err.Error()
	case "write":
		return "could not save the history: " + err.Error()
	case "locked":
		return "another run is in progress: " + err.Error()
	case "field_not_numeric":
		return "cannot compare scores: " + err.Error()
	default:
		return err.Error()
	}
}
