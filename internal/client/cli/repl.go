package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// dispatcher runs one command line; the App is the real implementation.
type dispatcher interface {
	dispatch(ctx context.Context, line string) (quit bool)
}

// runREPL is the read-eval-print loop of the storefront.
//
// It prints a prompt carrying the current status (from statusFn), reads a
// line from in and hands it to d. The loop exits on EOF, when d asks to
// quit, or when ctx is cancelled between commands.
func runREPL(ctx context.Context, d dispatcher, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "express %s > ", statusFn())

		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(out)
			return
		}
		if d.dispatch(ctx, strings.TrimSpace(line)) {
			return
		}
		if err != nil {
			return
		}
	}
}
