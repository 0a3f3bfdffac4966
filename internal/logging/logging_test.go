package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("indexed", "servers", 3)

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if parsed["msg"] != "indexed" {
		t.Errorf("msg = %v, want %q", parsed["msg"], "indexed")
	}
	if parsed["servers"] != float64(3) {
		t.Errorf("servers = %v, want 3", parsed["servers"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("indexed", "file", "lsp-pyls.el")

	out := buf.String()
	for _, want := range []string{"INFO", "indexed", "file=lsp-pyls.el"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestNew_UnknownFormatDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: Format("yaml"), Output: &buf})

	logger.Info("message")

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err == nil {
		t.Error("unknown format should default to text, not JSON")
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		config   slog.Level
		log      slog.Level
		wantLine bool
	}{
		{"info at info", slog.LevelInfo, slog.LevelInfo, true},
		{"debug at info", slog.LevelInfo, slog.LevelDebug, false},
		{"warn at warn", slog.LevelWarn, slog.LevelWarn, true},
		{"info at warn", slog.LevelWarn, slog.LevelInfo, false},
		{"trace at trace", LevelTrace, LevelTrace, true},
		{"trace at debug", slog.LevelDebug, LevelTrace, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.config, Output: &buf})

			logger.Log(context.Background(), tt.log, "message")

			if got := buf.Len() > 0; got != tt.wantLine {
				t.Errorf("wrote output = %v, want %v (%q)", got, tt.wantLine, buf.String())
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{7, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestContext(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext should return the stored logger")
	}
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext without a logger should return slog.Default()")
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	logger.Debug("debug from test logger")
	logger.Info("info from test logger", "test", t.Name())
}

func TestTestWriter_TrimsNewline(t *testing.T) {
	tw := &testWriter{t: t}

	n, err := tw.Write([]byte("line\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len("line\n") {
		t.Errorf("Write returned %d, want %d", n, len("line\n"))
	}
}
