package install

import (
	"testing"
)

func TestLooksLikePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{
			name: "relative path with dot slash",
			in:   "./node_modules/.bin/tsserver",
			want: true,
		},
		{
			name: "parent relative path",
			in:   "../bin/gopls",
			want: true,
		},
		{
			name: "absolute path",
			in:   "/usr/local/bin/clangd",
			want: true,
		},
		{
			name: "home relative path",
			in:   "~/.cargo/bin/rls",
			want: true,
		},
		{
			name: "path with separator",
			in:   "bin/pyls",
			want: true,
		},
		{
			name: "simple name",
			in:   "rust-analyzer",
			want: false,
		},
		{
			name: "name with dots",
			in:   "omnisharp.exe",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikePath(tt.in); got != tt.want {
				t.Errorf("LooksLikePath(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "gopls", want: "gopls"},
		{in: "/usr/local/bin/gopls", want: "gopls"},
		{in: "~/.cargo/bin/rls", want: "rls"},
		{in: "./server/bin/OmniSharp.exe", want: "OmniSharp"},
		{in: "omnisharp.exe", want: "omnisharp.exe"},
	}
	for _, tt := range tests {
		if got := CommandName(tt.in); got != tt.want {
			t.Errorf("CommandName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
