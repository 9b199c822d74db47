package cli

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// startBrowser is a test seam; it launches the platform URL opener.
var startBrowser = func(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// browserOpener returns an opener that prints url to w and tries to open
// it. A launcher failure is not an error: the printed link still works.
func browserOpener(w io.Writer) func(url string) error {
	return func(url string) error {
		fmt.Fprintf(w, "Opening %s\n", url)
		if err := startBrowser(url); err != nil {
			fmt.Fprintln(w, "Could not start a browser, open the link above manually.")
		}
		return nil
	}
}
