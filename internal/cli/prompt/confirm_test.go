package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "y", input: "y\n", want: true},
		{name: "yes uppercase", input: "YES\n", want: true},
		{name: "padded", input: "  y \n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "eof", input: "", want: false},
		{name: "yes without newline", input: "y", want: true},
		{name: "anything else", input: "sure\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			c := NewConfirmerWithIO(strings.NewReader(tt.input), &buf, false)

			got, err := c.Confirm("Install xls-server?")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if !strings.HasPrefix(buf.String(), "Install xls-server? [y/N]: ") {
				t.Errorf("unexpected prompt: %q", buf.String())
			}
		})
	}
}

func TestConfirm_AssumeYes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConfirmerWithIO(strings.NewReader("n\n"), &buf, true)

	got, err := c.Confirm("Run cargo install rls?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected yes with assumeYes")
	}
	if buf.String() != "Run cargo install rls? [y/N]: y\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
