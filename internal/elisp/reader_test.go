package elisp

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestParse_Atoms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "symbol", src: "lsp-clients-python-command", want: "lsp-clients-python-command"},
		{name: "keyword", src: ":server-id", want: ":server-id"},
		{name: "string", src: `"pyls"`, want: `"pyls"`},
		{name: "string with escapes", src: `"a\"b\\c\n"`, want: `"a\"b\\c\n"`},
		{name: "integer", src: "42", want: "42"},
		{name: "negative integer", src: "-7", want: "-7"},
		{name: "float", src: "6.1", want: "6.1"},
		{name: "character", src: "?a", want: "97"},
		{name: "escaped character", src: `?\n`, want: "10"},
		{name: "escaped symbol", src: `foo\ bar`, want: "foo bar"},
		{name: "escaped digits are a symbol", src: `\1`, want: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.src, err)
			}
			if got := Format(n); got != tt.want {
				t.Errorf("Format(Parse(%q)) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestParse_EscapedDigitsIsSymbol(t *testing.T) {
	n, err := Parse(`\1`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := n.(*Symbol); !ok {
		t.Errorf("Parse() = %T, want *Symbol", n)
	}
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "quoted symbol",
			src:  ":server-id 'pyls",
			want: ":server-id",
		},
		{
			name: "stdio lambda",
			src:  "(lsp-stdio-connection (lambda () lsp-clients-python-command))",
			want: "(lsp-stdio-connection (lambda () lsp-clients-python-command))",
		},
		{
			name: "backquoted tcp command",
			src:  "`(\"solargraph\" \"socket\" \"--port\" ,(number-to-string port))",
			want: "`(\"solargraph\" \"socket\" \"--port\" ,(number-to-string port))",
		},
		{
			name: "splice",
			src:  "`(,@args \"--stdio\")",
			want: "`(,@args \"--stdio\")",
		},
		{
			name: "dotted pair",
			src:  "'(lsp-mode . \"6.1\")",
			want: "'(lsp-mode . \"6.1\")",
		},
		{
			name: "function quote",
			src:  "#'lsp-clients--rust-command",
			want: "#'lsp-clients--rust-command",
		},
		{
			name: "vector",
			src:  "[a \"b\" 3]",
			want: "[a \"b\" 3]",
		},
		{
			name: "comments and whitespace",
			src:  "(a ; trailing comment\n   b)",
			want: "(a b)",
		},
		{
			name: "empty list",
			src:  "()",
			want: "()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewReader([]byte(tt.src)).Next()
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if got := Format(n); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadAll_Spans(t *testing.T) {
	src := ";;; header\n(defgroup lsp-pyls nil \"doc\")\n\n(defcustom lsp-pyls-command \"pyls\" \"doc\")\n"
	forms, err := ReadAll([]byte(src))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("ReadAll() returned %d forms, want 2", len(forms))
	}

	for i, want := range []string{"(defgroup lsp-pyls nil \"doc\")", "(defcustom lsp-pyls-command \"pyls\" \"doc\")"} {
		sp := forms[i].Span()
		if got := src[sp.Start:sp.End]; got != want {
			t.Errorf("form %d span text = %q, want %q", i, got, want)
		}
	}
	if Head(forms[1]) != "defcustom" {
		t.Errorf("Head() = %q, want %q", Head(forms[1]), "defcustom")
	}
}

func TestReader_EOF(t *testing.T) {
	r := NewReader([]byte("  ; only a comment\n"))
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unterminated list", src: "(a b"},
		{name: "unterminated string", src: `"abc`},
		{name: "stray close", src: ")"},
		{name: "leading dot", src: "(. a)"},
		{name: "two tails", src: "(a . b c)"},
		{name: "empty", src: "   "},
		{name: "trailing text", src: "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.src)
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Errorf("Parse(%q) error = %T, want *SyntaxError", tt.src, err)
			}
		})
	}
}

func TestPlistGet(t *testing.T) {
	n, err := Parse(`(make-lsp-client :new-connection (lsp-stdio-connection "x") :server-id 'x-ls)`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	l := n.(*List)

	v, ok := PlistGet(l.Items[1:], ":server-id")
	if !ok {
		t.Fatal("PlistGet(:server-id) not found")
	}
	id, ok := Unquote(v)
	if !ok {
		t.Fatalf("Unquote(%s) failed", Format(v))
	}
	if s, ok := id.(*Symbol); !ok || s.Name != "x-ls" {
		t.Errorf("server id = %s, want x-ls", Format(id))
	}

	if _, ok := PlistGet(l.Items[1:], ":priority"); ok {
		t.Error("PlistGet(:priority) should not be found")
	}
}

func TestIsNil(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"nil", true},
		{"()", true},
		{"t", false},
		{"(nil)", false},
		{`""`, false},
	}
	for _, tt := range tests {
		n, err := Parse(tt.src)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.src, err)
		}
		if got := IsNil(n); got != tt.want {
			t.Errorf("IsNil(%s) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
