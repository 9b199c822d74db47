package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/expressdata/internal/logging"
)

// Notifier prints transient toast-style messages and mirrors them to the log.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer
	log logging.Logger
}

func NewNotifier(out io.Writer, log logging.Logger) *Notifier {
	return &Notifier{out: out, log: log.With("component", "toast")}
}

func (n *Notifier) Success(ctx context.Context, msg string) {
	n.log.Info(ctx, "notice", "message", msg)
	n.write("OK", msg)
}

func (n *Notifier) Error(ctx context.Context, msg string) {
	n.log.Warn(ctx, "notice", "message", msg)
	n.write("ERROR", msg)
}

func (n *Notifier) Info(ctx context.Context, msg string) {
	n.log.Debug(ctx, "notice", "message", msg)
	n.write("--", msg)
}

// write prints msg with its tag on the first line and continuation lines
// indented under it.
func (n *Notifier) write(tag, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	lines := strings.Split(strings.TrimRight(msg, "\n"), "\n")
	pad := strings.Repeat(" ", len(tag)+3)
	fmt.Fprintf(n.out, "[%s] %s\n", tag, lines[0])
	for _, l := range lines[1:] {
		if l == "" {
			fmt.Fprintln(n.out)
			continue
		}
		fmt.Fprintf(n.out, "%s%s\n", pad, l)
	}
}
