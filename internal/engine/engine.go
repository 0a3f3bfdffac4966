// Package engine decides how to install the executable of a language server
// client and hands the decision to an installer.
//
// The decision is made in order: a static install spec for the server id,
// then the executable named by the client registration (skipped when already
// on PATH), the documentation table row for that executable, and finally the
// single documentation link of the client's customization group.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/thoreinstein/lspinstall/internal/client"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/install"
	"github.com/thoreinstein/lspinstall/internal/logging"
	"github.com/thoreinstein/lspinstall/internal/paths"
)

// maxSuggestionDistance bounds the edit distance of a suggested server id.
const maxSuggestionDistance = 3

// Index is the server-id index the engine owns.
type Index interface {
	IDs() ([]string, error)
	Build() (map[string]string, error)
	Invalidate()
}

// Extractor finds the registration of a server id.
type Extractor interface {
	Extract(id string) (*client.Descriptor, *client.Group, error)
}

// Resolver computes the executable name of a registration.
type Resolver interface {
	Resolve(desc *client.Descriptor) (string, error)
}

// Locator looks up install commands in the documentation table.
type Locator interface {
	FindInstallCommand(executable string) (string, error)
}

// Confirmer asks the user before an install action is taken.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Options wires an Engine to its collaborators.
type Options struct {
	Index     Index
	Extractor Extractor
	Resolver  Resolver
	Locator   Locator

	// Specs are consulted before anything else.
	Specs install.Specs

	// SkipList holds server ids whose executable is never resolved.
	SkipList []string

	Installer install.Installer

	// Confirmer may be nil, in which case every action is taken without
	// asking.
	Confirmer Confirmer

	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)

	// Status receives user-facing notices. Defaults to os.Stdout.
	Status io.Writer

	Logger *slog.Logger
}

// Engine runs the resolution flow for one server id at a time.
type Engine struct {
	opts   Options
	skip   map[string]bool
	logger *slog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Status == nil {
		opts.Status = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	skip := make(map[string]bool, len(opts.SkipList))
	for _, id := range opts.SkipList {
		skip[id] = true
	}
	return &Engine{opts: opts, skip: skip, logger: logger}
}

// Rescan drops the cached index and builds it again.
func (e *Engine) Rescan() (map[string]string, error) {
	e.opts.Index.Invalidate()
	return e.opts.Index.Build()
}

// ServerIDs returns every indexed server id together with the ids of the
// static specs, sorted and without duplicates.
func (e *Engine) ServerIDs() ([]string, error) {
	ids, err := e.opts.Index.IDs()
	if err != nil {
		return nil, err
	}
	return mergeIDs(ids, e.opts.Specs.IDs()), nil
}

// Install determines how to install the executable of id and performs it
// after confirmation.
func (e *Engine) Install(ctx context.Context, id string) (*Outcome, error) {
	p, err := e.plan(id)
	if err != nil {
		return nil, err
	}
	out := p.outcome
	if out.Kind == OutcomeAlreadyInstalled {
		e.notify("%s is already installed at %s", out.Executable, out.Path)
		return out, nil
	}

	ok, err := e.confirm(p.question)
	if err != nil {
		return nil, err
	}
	if !ok {
		e.logger.Debug("install declined", "id", id)
		out.Kind = OutcomeDeclined
		return out, nil
	}

	if out.URL != "" {
		if err := e.opts.Installer.BrowseURL(ctx, out.URL); err != nil {
			return nil, errors.Wrapf(err, "opening documentation for %s", id)
		}
		return out, nil
	}
	if err := install.Execute(ctx, out.Instruction, e.opts.Installer); err != nil {
		return nil, errors.Wrapf(err, "installing %s", id)
	}
	return out, nil
}

// plan walks the resolution chain and returns the action for id without
// taking it.
func (e *Engine) plan(id string) (*plan, error) {
	r, p, err := e.walk(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, e.noInformation(id, r.lookupErr)
	}
	return p, nil
}

// walk runs the chain and records each step in a Report. The returned plan
// is nil when no way to install id was found.
func (e *Engine) walk(id string) (*Report, *plan, error) {
	r := &Report{ServerID: id}

	// Static spec
	spec, ok, err := e.opts.Specs.Lookup(id)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		r.Spec = spec.String()
		if es, isErr := spec.(install.ErrorSpec); isErr {
			r.Action = actionError
			r.Error = es.Message
			return r, nil, errors.Newf("%s: %s", id, es.Message)
		}
		p, err := planFromSpec(id, spec)
		if err != nil {
			return r, nil, err
		}
		r.Action = string(p.outcome.Kind)
		return r, p, nil
	}

	// Registration
	desc, group, err := e.opts.Extractor.Extract(id)
	if err != nil {
		e.logger.Warn("reading client registration failed", "id", id, "error", err)
	}
	r.describe(desc, group)

	exe := ""
	switch {
	case desc == nil:
		e.logger.Debug("no client registration found", "id", id)
	case e.skip[id]:
		r.Skipped = true
		e.logger.Debug("executable resolution skipped", "id", id)
	default:
		exe, err = e.opts.Resolver.Resolve(desc)
		if err != nil {
			e.logger.Info("executable could not be resolved", "id", id, "error", err)
			r.ResolveError = err.Error()
			exe = ""
		}
	}
	r.Executable = exe

	if exe != "" {
		if path, err := e.lookPath(exe); err == nil {
			r.InstalledAt = path
			r.Action = string(OutcomeAlreadyInstalled)
			return r, &plan{outcome: &Outcome{
				Kind:       OutcomeAlreadyInstalled,
				ServerID:   id,
				Executable: exe,
				Path:       path,
			}}, nil
		}

		text, err := e.opts.Locator.FindInstallCommand(install.CommandName(exe))
		if err == nil {
			inst := install.Classify(text)
			r.InstallCommand = text
			r.Instruction = inst.String()
			r.Action = string(OutcomeInstalled)
			return r, &plan{
				question: question(inst),
				outcome: &Outcome{
					Kind:        OutcomeInstalled,
					ServerID:    id,
					Source:      SourceDocs,
					Executable:  exe,
					Instruction: inst,
				},
			}, nil
		}
		e.logger.Info("no install command documented", "id", id, "executable", exe, "error", err)
		r.lookupErr = err
		r.LookupError = err.Error()
	}

	// Group link
	if group != nil && len(group.Links) == 1 {
		url := group.Links[0]
		r.Action = string(OutcomeBrowsed)
		return r, &plan{
			question: "No install command is known for " + id + ". Open " + url + "?",
			outcome: &Outcome{
				Kind:       OutcomeBrowsed,
				ServerID:   id,
				Source:     SourceLink,
				Executable: exe,
				URL:        url,
			},
		}, nil
	}

	r.Action = actionNone
	return r, nil, nil
}

func (e *Engine) lookPath(exe string) (string, error) {
	if strings.HasPrefix(exe, "~/") {
		exe = paths.Home() + exe[1:]
	}
	return e.opts.LookPath(exe)
}

func (e *Engine) confirm(q string) (bool, error) {
	if e.opts.Confirmer == nil {
		return true, nil
	}
	ok, err := e.opts.Confirmer.Confirm(q)
	if err != nil {
		return false, errors.Wrap(err, "asking for confirmation")
	}
	return ok, nil
}

func (e *Engine) notify(format string, args ...any) {
	fmt.Fprintf(e.opts.Status, format+"\n", args...)
}

// noInformation builds the terminal error of an exhausted chain. cause is
// the documentation lookup failure, if any.
func (e *Engine) noInformation(id string, cause error) error {
	err := errors.Newf("no information on %s", id)
	if cause != nil {
		err = errors.Wrapf(cause, "no information on %s", id)
	}
	err = errors.Mark(err, errors.ErrNoInformation)

	if s := e.suggest(id); s != "" {
		return errors.NewUserError(err, "Did you mean "+s+"?")
	}
	return err
}

// suggest returns the known server id closest to id, or "".
func (e *Engine) suggest(id string) string {
	ids, err := e.ServerIDs()
	if err != nil {
		return ""
	}
	best, bestDist := "", maxSuggestionDistance+1
	for _, candidate := range ids {
		if candidate == id {
			continue
		}
		if d := edlib.LevenshteinDistance(id, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func planFromSpec(id string, spec install.Spec) (*plan, error) {
	out := &Outcome{Kind: OutcomeInstalled, ServerID: id, Source: SourceSpec}
	switch s := spec.(type) {
	case install.NpmSpec:
		out.Instruction = install.Npm{Packages: s.Packages}
	case install.ShellSpec:
		out.Instruction = install.Shell{Command: s.Command}
	case install.FunctionSpec:
		cmd, err := install.CommandFor(s)
		if err != nil {
			return nil, errors.Wrapf(err, "install spec for %s", id)
		}
		out.Instruction = install.Shell{Command: cmd}
	default:
		return nil, errors.Mark(errors.Newf("unsupported install spec %T for %s", spec, id), errors.ErrUnsupportedSpec)
	}
	return &plan{question: question(out.Instruction), outcome: out}, nil
}

func question(inst install.Instruction) string {
	switch v := inst.(type) {
	case install.Npm:
		return "Install npm packages " + strings.Join(v.Packages, " ") + "?"
	default:
		return "Run `" + inst.String() + "`?"
	}
}

func mergeIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}
