package install

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/thoreinstein/lspinstall/internal/browser"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/logging"
)

// NpmClients are the supported npm-compatible package managers.
var NpmClients = []string{"npm", "pnpm", "yarn", "bun"}

// NpmCommand returns the argv installing packages globally with client.
func NpmCommand(client string, packages []string) ([]string, error) {
	var prefix []string
	switch client {
	case "", "npm":
		prefix = []string{"npm", "install", "--global"}
	case "pnpm":
		prefix = []string{"pnpm", "add", "--global"}
	case "yarn":
		prefix = []string{"yarn", "global", "add"}
	case "bun":
		prefix = []string{"bun", "add", "--global"}
	default:
		return nil, errors.Newf("unsupported npm client %q (supported: %s)", client, strings.Join(NpmClients, ", "))
	}
	return append(prefix, packages...), nil
}

// SystemOptions configures a SystemInstaller.
type SystemOptions struct {
	// NpmClient selects the package manager for npm instructions.
	NpmClient string

	// DryRun prints the commands instead of running them.
	DryRun bool

	// Dir is the working directory of shell commands. Defaults to the
	// current directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger

	// LookPath and Browse default to exec.LookPath and browser.Open.
	LookPath func(file string) (string, error)
	Browse   func(ctx context.Context, url string, stderr io.Writer) error
}

// SystemInstaller runs install actions on the local machine: npm packages
// through the configured client, shell commands through an in-process POSIX
// shell and links through the user's browser.
type SystemInstaller struct {
	opts   SystemOptions
	logger *slog.Logger
}

var _ Installer = (*SystemInstaller)(nil)

// NewSystemInstaller creates a SystemInstaller.
func NewSystemInstaller(opts SystemOptions) *SystemInstaller {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Browse == nil {
		opts.Browse = browser.Open
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &SystemInstaller{opts: opts, logger: logger}
}

// InstallNpmPackages installs packages globally with the configured client.
func (s *SystemInstaller) InstallNpmPackages(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return errors.New("no npm packages to install")
	}
	argv, err := NpmCommand(s.opts.NpmClient, packages)
	if err != nil {
		return err
	}
	if s.opts.DryRun {
		fmt.Fprintf(s.opts.Stdout, "would run: %s\n", strings.Join(argv, " "))
		return nil
	}

	bin, err := s.opts.LookPath(argv[0])
	if err != nil {
		return errors.Wrapf(err, "%s is required to install %s", argv[0], strings.Join(packages, " "))
	}
	s.logger.Info("installing npm packages", "client", argv[0], "packages", packages)

	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Stdin = s.opts.Stdin
	cmd.Stdout = s.opts.Stdout
	cmd.Stderr = s.opts.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errors.Newf("%s exited with status %d", argv[0], exitErr.ExitCode())
		}
		return errors.Wrapf(err, "running %s", argv[0])
	}
	return nil
}

// RunShellCommand interprets command with a POSIX shell.
func (s *SystemInstaller) RunShellCommand(ctx context.Context, command string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "install")
	if err != nil {
		return errors.Wrapf(err, "parsing install command %q", command)
	}
	if s.opts.DryRun {
		return s.printProgram(prog)
	}

	dir := s.opts.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return errors.Wrap(err, "getting working directory")
		}
	}

	opts := []interp.RunnerOption{
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(s.opts.Stdin, s.opts.Stdout, s.opts.Stderr),
	}
	runner, err := interp.New(opts...)
	if err != nil {
		return errors.Wrap(err, "creating shell interpreter")
	}

	s.logger.Info("running install command", "command", command)
	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return errors.Newf("install command exited with status %d", int(status))
		}
		return errors.Wrap(err, "running install command")
	}
	return nil
}

// printProgram writes each top-level statement of prog without
// interpreting it. Builtins and redirections stay untouched.
func (s *SystemInstaller) printProgram(prog *syntax.File) error {
	printer := syntax.NewPrinter()
	for _, stmt := range prog.Stmts {
		var sb strings.Builder
		if err := printer.Print(&sb, stmt); err != nil {
			return errors.Wrap(err, "printing install command")
		}
		fmt.Fprintf(s.opts.Stdout, "would run: %s\n", strings.TrimSpace(sb.String()))
	}
	return nil
}

// BrowseURL opens url in the user's browser.
func (s *SystemInstaller) BrowseURL(ctx context.Context, url string) error {
	if s.opts.DryRun {
		fmt.Fprintf(s.opts.Stdout, "would open: %s\n", url)
		return nil
	}
	s.logger.Info("opening documentation", "url", url)
	return s.opts.Browse(ctx, url, s.opts.Stderr)
}
