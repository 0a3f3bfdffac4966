// Package browser opens documentation links in the user's web browser.
package browser

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/thoreinstein/lspinstall/internal/errors"
)

// Open launches the user's browser on url.
// Uses $BROWSER, falling back to the platform opener.
func Open(ctx context.Context, url string, stderr io.Writer) error {
	name, args := command(url, runtime.GOOS)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stderr
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "opening %s with %s", url, name)
	}
	return nil
}

// command returns the program and arguments that open url on goos.
// Fallback chain: $BROWSER → open (darwin) → rundll32 (windows) → xdg-open.
func command(url, goos string) (string, []string) {
	if b := os.Getenv("BROWSER"); b != "" {
		return b, []string{url}
	}
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	}
	return "xdg-open", []string{url}
}
