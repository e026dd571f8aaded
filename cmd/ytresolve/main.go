// Command ytresolve prints one JSON line describing a playable audio stream
// for a search query or page URL.
//
//	ytresolve --query "artist - song"
//	ytresolve --query https://www.youtube.com/watch?v=...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ytresolve/internal/resolve"
)

// exitUsage matches the argument-parser convention for bad invocations.
const exitUsage = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stderr stays silent: the JSON line on stdout is the only channel.
	log := zap.NewNop()
	ext := resolve.NewYTDLP(resolve.DefaultOptions(), log)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, resolve.NewResolver(ext, log))
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, r *resolve.Resolver) int {
	fs := pflag.NewFlagSet("ytresolve", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	query := fs.String("query", "", "URL or free-text search term (required)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: ytresolve --query QUERY")
		fs.PrintDefaults()
	}

	// ContinueOnError leaves reporting to the caller.
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "ytresolve: %v\n", err)
		fs.Usage()
		return exitUsage
	}
	if !fs.Changed("query") {
		fmt.Fprintln(stderr, "ytresolve: the following arguments are required: --query")
		fs.Usage()
		return exitUsage
	}

	res := r.Resolve(ctx, *query)
	if err := resolve.WriteResult(stdout, res); err != nil {
		return 1
	}
	return resolve.ExitCode(res)
}
