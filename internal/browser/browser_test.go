package browser

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestCommand_EnvBrowser(t *testing.T) {
	t.Setenv("BROWSER", "firefox")

	name, args := command("https://example.com", "linux")
	if name != "firefox" {
		t.Errorf("command() name = %q, want %q", name, "firefox")
	}
	if !slices.Equal(args, []string{"https://example.com"}) {
		t.Errorf("command() args = %v", args)
	}
}

func TestCommand_PlatformFallback(t *testing.T) {
	t.Setenv("BROWSER", "")

	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{goos: "linux", wantName: "xdg-open", wantArgs: []string{"https://x"}},
		{goos: "freebsd", wantName: "xdg-open", wantArgs: []string{"https://x"}},
		{goos: "darwin", wantName: "open", wantArgs: []string{"https://x"}},
		{goos: "windows", wantName: "rundll32", wantArgs: []string{"url.dll,FileProtocolHandler", "https://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := command("https://x", tt.goos)
			if name != tt.wantName {
				t.Errorf("command() name = %q, want %q", name, tt.wantName)
			}
			if !slices.Equal(args, tt.wantArgs) {
				t.Errorf("command() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestOpen_Integration(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping integration test on windows (uses shell script mock)")
	}

	tmpDir := t.TempDir()
	mockBrowser := filepath.Join(tmpDir, "mock-browser.sh")
	outputFile := filepath.Join(tmpDir, "output.txt")

	// The mock browser records the URL it was asked to open.
	script := "#!/bin/sh\necho \"$@\" > " + outputFile + "\n"
	if err := os.WriteFile(mockBrowser, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BROWSER", mockBrowser)

	var stderr bytes.Buffer
	if err := Open(context.Background(), "https://github.com/emacs-lsp/lsp-mode", &stderr); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(got)) != "https://github.com/emacs-lsp/lsp-mode" {
		t.Errorf("browser received %q", got)
	}
}

func TestOpen_MissingBrowser(t *testing.T) {
	t.Setenv("BROWSER", filepath.Join(t.TempDir(), "no-such-browser"))

	if err := Open(context.Background(), "https://x", &bytes.Buffer{}); err == nil {
		t.Error("Open() expected error for missing browser")
	}
}
