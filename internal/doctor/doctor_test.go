package doctor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/lspinstall/internal/docs"
	"github.com/thoreinstein/lspinstall/internal/install"
)

// staticCheck returns a fixed result.
type staticCheck struct {
	name   string
	result *CheckResult
}

func (c staticCheck) Name() string      { return c.name }
func (c staticCheck) Category() string  { return "test" }
func (c staticCheck) Run() *CheckResult { return c.result }

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []Severity
		wantPassed   int
		wantInfo     int
		wantWarnings int
		wantErrors   int
	}{
		{name: "empty runner"},
		{name: "single pass", statuses: []Severity{SeverityPass}, wantPassed: 1},
		{name: "single info", statuses: []Severity{SeverityInfo}, wantInfo: 1},
		{name: "single warning", statuses: []Severity{SeverityWarning}, wantWarnings: 1},
		{name: "single error", statuses: []Severity{SeverityError}, wantErrors: 1},
		{
			name:         "mixed severities",
			statuses:     []Severity{SeverityPass, SeverityPass, SeverityInfo, SeverityWarning, SeverityWarning, SeverityError},
			wantPassed:   2,
			wantInfo:     1,
			wantWarnings: 2,
			wantErrors:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			for i, s := range tt.statuses {
				r.AddCheck(staticCheck{name: string(rune('a' + i)), result: &CheckResult{Status: s}})
			}

			before := time.Now().UTC()
			report := r.Run()
			after := time.Now().UTC()

			if report.Timestamp.Before(before) || report.Timestamp.After(after) {
				t.Errorf("Timestamp %v not in expected range [%v, %v]", report.Timestamp, before, after)
			}
			if len(report.Results) != len(tt.statuses) {
				t.Errorf("Results count = %d, want %d", len(report.Results), len(tt.statuses))
			}
			got := report.Summary
			want := Summary{Passed: tt.wantPassed, Info: tt.wantInfo, Warnings: tt.wantWarnings, Errors: tt.wantErrors}
			if got != want {
				t.Errorf("Summary = %+v, want %+v", got, want)
			}
			if report.HasErrors() != (tt.wantErrors > 0) {
				t.Errorf("HasErrors() = %v", report.HasErrors())
			}
			if report.HasWarnings() != (tt.wantWarnings > 0) {
				t.Errorf("HasWarnings() = %v", report.HasWarnings())
			}
		})
	}
}

func TestRunner_FillsNameAndCategory(t *testing.T) {
	report := NewRunner(staticCheck{name: "named", result: &CheckResult{}}).Run()

	if report.Results[0].Name != "named" || report.Results[0].Category != "test" {
		t.Errorf("unexpected result %+v", report.Results[0])
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(&CheckResult{Name: "x", Status: SeverityWarning})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"status":"warning"`) {
		t.Errorf("unexpected JSON %s", data)
	}
}

func TestLSPDirCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
		err  error
		want Severity
	}{
		{name: "found", dir: dir, want: SeverityPass},
		{name: "discovery failed", err: errors.New("lsp-mode directory not found"), want: SeverityError},
		{name: "missing", dir: filepath.Join(dir, "missing"), want: SeverityError},
		{name: "not a directory", dir: file, want: SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLSPDirCheck(tt.dir, tt.err).Run()
			if got.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", got.Status, tt.want, got.Message)
			}
		})
	}
}

type indexFunc func() (map[string]string, error)

func (f indexFunc) Build() (map[string]string, error) { return f() }

func TestClientIndexCheck(t *testing.T) {
	got := NewClientIndexCheck(indexFunc(func() (map[string]string, error) {
		return map[string]string{"pyls": "a.el", "rls": "a.el", "xls": "b.el"}, nil
	})).Run()
	if got.Status != SeverityPass || got.Message != "3 clients in 2 modules" {
		t.Errorf("unexpected result %+v", got)
	}

	got = NewClientIndexCheck(indexFunc(func() (map[string]string, error) {
		return map[string]string{}, nil
	})).Run()
	if got.Status != SeverityError {
		t.Errorf("empty index should be an error, got %+v", got)
	}

	got = NewClientIndexCheck(indexFunc(func() (map[string]string, error) {
		return nil, errors.New("invalid client module pattern")
	})).Run()
	if got.Status != SeverityError {
		t.Errorf("build failure should be an error, got %+v", got)
	}
}

func TestDocTableCheck(t *testing.T) {
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.org")
	content := "* Supported languages\n| Language | Installation command |\n|---+---|\n| X | npm i -g xls |\n"
	if err := os.WriteFile(readme, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got := NewDocTableCheck(docs.NewLocator(readme)).Run()
	if got.Status != SeverityPass {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Details["install_column"] != "Installation command" {
		t.Errorf("unexpected details %v", got.Details)
	}

	got = NewDocTableCheck(docs.NewLocator(filepath.Join(dir, "missing.org"))).Run()
	if got.Status != SeverityWarning {
		t.Errorf("missing file should be a warning, got %+v", got)
	}
}

func TestSpecsCheck(t *testing.T) {
	got := NewSpecsCheck(nil).Run()
	if got.Status != SeverityInfo {
		t.Errorf("no specs should be info, got %+v", got)
	}

	got = NewSpecsCheck(install.Specs{
		"foo":   `(npm "foo-language-server")`,
		"gopls": `(function go-install "golang.org/x/tools/gopls")`,
	}).Run()
	if got.Status != SeverityPass {
		t.Errorf("valid specs should pass, got %+v", got)
	}

	got = NewSpecsCheck(install.Specs{
		"foo":  `(npm "foo-language-server")`,
		"ccls": `(brew "ccls")`,
		"x":    `(function brew-install "x")`,
	}).Run()
	if got.Status != SeverityError {
		t.Fatalf("invalid specs should be an error, got %+v", got)
	}
	if got.Message != "unusable install specs: ccls, x" {
		t.Errorf("unexpected message %q", got.Message)
	}
}

func TestNpmClientCheck(t *testing.T) {
	found := func(file string) (string, error) { return "/usr/bin/" + file, nil }
	missing := func(string) (string, error) { return "", errors.New("not found") }

	got := NewNpmClientCheck("pnpm", found).Run()
	if got.Status != SeverityPass || got.Message != "pnpm found at /usr/bin/pnpm" {
		t.Errorf("unexpected result %+v", got)
	}

	got = NewNpmClientCheck("", missing).Run()
	if got.Status != SeverityWarning || !strings.HasPrefix(got.Message, "npm not found") {
		t.Errorf("unexpected result %+v", got)
	}
}
