package engine

import (
	"github.com/thoreinstein/lspinstall/internal/client"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/install"
)

// OutcomeKind is how an Install call ended.
type OutcomeKind string

const (
	// OutcomeInstalled means an install instruction was handed to the installer.
	OutcomeInstalled OutcomeKind = "install"

	// OutcomeAlreadyInstalled means the executable is already on PATH.
	OutcomeAlreadyInstalled OutcomeKind = "already-installed"

	// OutcomeBrowsed means a documentation link was opened instead.
	OutcomeBrowsed OutcomeKind = "browse"

	// OutcomeDeclined means the user declined the proposed action.
	OutcomeDeclined OutcomeKind = "declined"
)

// Report actions beyond the outcome kinds.
const (
	actionNone  = "none"
	actionError = "error"
)

// Source is where an install instruction came from.
type Source string

const (
	SourceSpec Source = "spec"
	SourceDocs Source = "docs"
	SourceLink Source = "link"
)

// Outcome describes the action taken (or proposed) for a server id.
type Outcome struct {
	Kind     OutcomeKind
	ServerID string
	Source   Source

	// Executable is the resolved executable name, if any.
	Executable string

	// Path is set for OutcomeAlreadyInstalled.
	Path string

	// Instruction is set when an install command was found; URL when a
	// documentation link is browsed.
	Instruction install.Instruction
	URL         string
}

type plan struct {
	question string
	outcome  *Outcome
}

// Report lists every step of the resolution chain for one server id.
type Report struct {
	ServerID string `json:"server_id" yaml:"server_id"`

	Spec string `json:"spec,omitempty" yaml:"spec,omitempty"`

	File       string   `json:"file,omitempty" yaml:"file,omitempty"`
	Connection string   `json:"connection,omitempty" yaml:"connection,omitempty"`
	Command    string   `json:"command,omitempty" yaml:"command,omitempty"`
	Group      string   `json:"group,omitempty" yaml:"group,omitempty"`
	Links      []string `json:"links,omitempty" yaml:"links,omitempty"`

	Skipped      bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Executable   string `json:"executable,omitempty" yaml:"executable,omitempty"`
	ResolveError string `json:"resolve_error,omitempty" yaml:"resolve_error,omitempty"`
	InstalledAt  string `json:"installed_at,omitempty" yaml:"installed_at,omitempty"`

	InstallCommand string `json:"install_command,omitempty" yaml:"install_command,omitempty"`
	LookupError    string `json:"lookup_error,omitempty" yaml:"lookup_error,omitempty"`
	Instruction    string `json:"instruction,omitempty" yaml:"instruction,omitempty"`

	// Action is what Install would do: an OutcomeKind, "none" or "error".
	Action     string `json:"action" yaml:"action"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	lookupErr error
}

func (r *Report) describe(desc *client.Descriptor, group *client.Group) {
	if desc != nil {
		r.File = desc.File
		r.Connection = string(desc.Connection)
		r.Command = desc.Command.String()
	}
	if group != nil {
		r.Group = group.Name
		r.Links = group.Links
	}
}

// Inspect runs the resolution chain for id without prompting or installing.
// A server without any install information is reported, not an error; an
// unsupported static spec is.
func (e *Engine) Inspect(id string) (*Report, error) {
	r, p, err := e.walk(id)
	if err != nil {
		if r != nil && r.Action == actionError {
			return r, nil
		}
		return nil, err
	}
	if p == nil {
		r.Error = e.noInformation(id, r.lookupErr).Error()
		r.Suggestion = e.suggest(id)
	}
	return r, nil
}

// IsNoInformation reports whether err means the chain found nothing.
func IsNoInformation(err error) bool {
	return errors.Is(err, errors.ErrNoInformation)
}
