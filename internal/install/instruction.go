// Package install classifies install commands and carries them out.
package install

import (
	"context"
	"regexp"
	"strings"

	"github.com/thoreinstein/lspinstall/internal/errors"
)

var npmGlobalPattern = regexp.MustCompile(`^npm\s+(?:install|i)\s+(?:-g|--global)\s+(.+)$`)

// Instruction is a classified install command: Npm or Shell.
type Instruction interface {
	instruction()

	// String renders the instruction for display.
	String() string
}

// Npm installs packages globally with the configured npm client.
type Npm struct {
	Packages []string
}

// Shell runs an install command as-is.
type Shell struct {
	Command string
}

func (Npm) instruction()   {}
func (Shell) instruction() {}

func (n Npm) String() string   { return "npm install -g " + strings.Join(n.Packages, " ") }
func (s Shell) String() string { return s.Command }

// Classify recognizes global npm installs; any other text is a Shell
// instruction carrying the text verbatim.
func Classify(text string) Instruction {
	if m := npmGlobalPattern.FindStringSubmatch(text); m != nil {
		return Npm{Packages: strings.Fields(m[1])}
	}
	return Shell{Command: text}
}

// Installer performs install actions. Exactly one method is called per
// resolved server.
type Installer interface {
	InstallNpmPackages(ctx context.Context, packages []string) error
	RunShellCommand(ctx context.Context, command string) error
	BrowseURL(ctx context.Context, url string) error
}

// Execute hands inst to the matching Installer method.
func Execute(ctx context.Context, inst Instruction, installer Installer) error {
	switch v := inst.(type) {
	case Npm:
		return installer.InstallNpmPackages(ctx, v.Packages)
	case Shell:
		return installer.RunShellCommand(ctx, v.Command)
	}
	return errors.Newf("unknown instruction %T", inst)
}
