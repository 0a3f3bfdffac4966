package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/thoreinstein/lspinstall/internal/docs"
	"github.com/thoreinstein/lspinstall/internal/install"
)

// LSPDirCheck verifies that the lsp-mode checkout exists.
type LSPDirCheck struct {
	dir string
	err error
}

var _ Check = (*LSPDirCheck)(nil)

// NewLSPDirCheck creates the check from the result of resolving lsp_dir.
func NewLSPDirCheck(dir string, resolveErr error) *LSPDirCheck {
	return &LSPDirCheck{dir: dir, err: resolveErr}
}

func (c *LSPDirCheck) Name() string     { return "lsp-dir" }
func (c *LSPDirCheck) Category() string { return "library" }

// Run executes the check.
func (c *LSPDirCheck) Run() *CheckResult {
	const hint = "Set lsp_dir in your config to the lsp-mode checkout"
	if c.err != nil {
		return &CheckResult{Status: SeverityError, Message: c.err.Error(), FixHint: hint}
	}
	info, err := os.Stat(c.dir)
	if err != nil {
		return &CheckResult{Status: SeverityError, Message: err.Error(), FixHint: hint}
	}
	if !info.IsDir() {
		return &CheckResult{Status: SeverityError, Message: c.dir + " is not a directory", FixHint: hint}
	}
	return &CheckResult{
		Status:  SeverityPass,
		Message: "lsp-mode found at " + c.dir,
		Details: map[string]any{"path": c.dir},
	}
}

// IndexBuilder builds the client index.
type IndexBuilder interface {
	Build() (map[string]string, error)
}

// ClientIndexCheck verifies that client modules register at least one
// server.
type ClientIndexCheck struct {
	index IndexBuilder
}

var _ Check = (*ClientIndexCheck)(nil)

// NewClientIndexCheck creates the check.
func NewClientIndexCheck(index IndexBuilder) *ClientIndexCheck {
	return &ClientIndexCheck{index: index}
}

func (c *ClientIndexCheck) Name() string     { return "client-index" }
func (c *ClientIndexCheck) Category() string { return "library" }

// Run executes the check.
func (c *ClientIndexCheck) Run() *CheckResult {
	entries, err := c.index.Build()
	if err != nil {
		return &CheckResult{
			Status:  SeverityError,
			Message: err.Error(),
			FixHint: "Check the client_files patterns in your config",
		}
	}
	if len(entries) == 0 {
		return &CheckResult{
			Status:  SeverityError,
			Message: "no client registrations found",
			FixHint: "Check lsp_dir and client_files in your config",
		}
	}

	modules := make(map[string]bool)
	for _, file := range entries {
		modules[file] = true
	}
	return &CheckResult{
		Status:  SeverityPass,
		Message: fmt.Sprintf("%d clients in %d modules", len(entries), len(modules)),
		Details: map[string]any{"clients": len(entries), "modules": len(modules)},
	}
}

// DocTableCheck verifies that the documentation file has a "Supported
// languages" table.
type DocTableCheck struct {
	locator *docs.Locator
}

var _ Check = (*DocTableCheck)(nil)

// NewDocTableCheck creates the check.
func NewDocTableCheck(locator *docs.Locator) *DocTableCheck {
	return &DocTableCheck{locator: locator}
}

func (c *DocTableCheck) Name() string     { return "doc-table" }
func (c *DocTableCheck) Category() string { return "docs" }

// Run executes the check.
func (c *DocTableCheck) Run() *CheckResult {
	table, err := c.locator.Table()
	if err != nil {
		return &CheckResult{
			Status:  SeverityWarning,
			Message: err.Error(),
			Details: map[string]any{"path": c.locator.Path()},
			FixHint: "Set doc_file to the lsp-mode README.org; servers can then only be installed from install_specs",
		}
	}
	details := map[string]any{"path": c.locator.Path(), "rows": len(table.Rows)}
	if table.InstallColumn >= 0 && table.InstallColumn < len(table.Header) {
		details["install_column"] = table.Header[table.InstallColumn]
	}
	return &CheckResult{
		Status:  SeverityPass,
		Message: fmt.Sprintf("%d documented servers", len(table.Rows)),
		Details: details,
	}
}

// SpecsCheck verifies that every static install spec can be carried out.
type SpecsCheck struct {
	specs install.Specs
}

var _ Check = (*SpecsCheck)(nil)

// NewSpecsCheck creates the check.
func NewSpecsCheck(specs install.Specs) *SpecsCheck {
	return &SpecsCheck{specs: specs}
}

func (c *SpecsCheck) Name() string     { return "install-specs" }
func (c *SpecsCheck) Category() string { return "install" }

// Run executes the check.
func (c *SpecsCheck) Run() *CheckResult {
	ids := c.specs.IDs()
	if len(ids) == 0 {
		return &CheckResult{Status: SeverityInfo, Message: "no static install specs configured"}
	}

	invalid := make(map[string]any)
	for _, id := range ids {
		spec, _, err := c.specs.Lookup(id)
		if err == nil {
			if fn, ok := spec.(install.FunctionSpec); ok {
				_, err = install.CommandFor(fn)
			}
		}
		if err != nil {
			invalid[id] = err.Error()
		}
	}
	if len(invalid) > 0 {
		bad := make([]string, 0, len(invalid))
		for id := range invalid {
			bad = append(bad, id)
		}
		sort.Strings(bad)
		return &CheckResult{
			Status:  SeverityError,
			Message: "unusable install specs: " + strings.Join(bad, ", "),
			Details: invalid,
			FixHint: "Use (npm ...), (function " + strings.Join(install.FuncNames(), "|") + " ...), (shell ...) or (error ...)",
		}
	}
	return &CheckResult{
		Status:  SeverityPass,
		Message: fmt.Sprintf("%d install specs", len(ids)),
		Details: map[string]any{"specs": len(ids)},
	}
}

// NpmClientCheck verifies that the configured npm client is on PATH.
type NpmClientCheck struct {
	client   string
	lookPath func(string) (string, error)
}

var _ Check = (*NpmClientCheck)(nil)

// NewNpmClientCheck creates the check. lookPath defaults to exec.LookPath.
func NewNpmClientCheck(client string, lookPath func(string) (string, error)) *NpmClientCheck {
	if client == "" {
		client = "npm"
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &NpmClientCheck{client: client, lookPath: lookPath}
}

func (c *NpmClientCheck) Name() string     { return "npm-client" }
func (c *NpmClientCheck) Category() string { return "install" }

// Run executes the check.
func (c *NpmClientCheck) Run() *CheckResult {
	path, err := c.lookPath(c.client)
	if err != nil {
		return &CheckResult{
			Status:  SeverityWarning,
			Message: c.client + " not found on PATH; npm installs will fail",
			FixHint: "Install " + c.client + " or set npm_client to one of " + strings.Join(install.NpmClients, ", "),
		}
	}
	return &CheckResult{
		Status:  SeverityPass,
		Message: c.client + " found at " + path,
		Details: map[string]any{"path": path},
	}
}
