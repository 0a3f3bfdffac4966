// Package resolve computes the executable a client launches from its
// parsed registration.
package resolve

import (
	"log/slog"

	"github.com/thoreinstein/lspinstall/internal/client"
	"github.com/thoreinstein/lspinstall/internal/elisp"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/logging"
)

// PlaceholderPort is passed to tcp command functions in place of a real port.
const PlaceholderPort = 0

// Resolver evaluates command specs. It keeps no state between calls.
type Resolver struct {
	overrides map[string]elisp.Node
	logger    *slog.Logger
}

// NewResolver creates a Resolver. Overrides replace the module value of
// the named variables.
func NewResolver(overrides map[string]elisp.Node) *Resolver {
	return NewResolverWithLogger(overrides, logging.Default())
}

// NewResolverWithLogger creates a Resolver with the given logger.
func NewResolverWithLogger(overrides map[string]elisp.Node, logger *slog.Logger) *Resolver {
	return &Resolver{overrides: overrides, logger: logger}
}

// Resolve returns the executable name of desc. Every failure is marked
// with errors.ErrResolution.
func (r *Resolver) Resolve(desc *client.Descriptor) (string, error) {
	if desc == nil || desc.Command == nil {
		return "", errors.Mark(errors.New("no client descriptor"), errors.ErrResolution)
	}

	ev := newEvaluator(NewEnv(desc.Definitions, r.overrides))
	name, err := ev.resolveSpec(desc.Command, desc.Connection)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "resolving executable of %s", desc.ServerID), errors.ErrResolution)
	}
	r.logger.Debug("resolved executable", "id", desc.ServerID, "spec", desc.Command.String(), "executable", name)
	return name, nil
}

func (ev *evaluator) resolveSpec(spec client.CommandSpec, conn client.ConnectionType) (string, error) {
	switch s := spec.(type) {
	case client.Literal:
		return s.Value, nil
	case client.Deferred:
		fn := &Lambda{Params: s.Params, Body: s.Body}
		v, err := ev.invoke(fn, conn)
		if err != nil {
			return "", err
		}
		return ev.executable(v, conn)
	case client.Reference:
		if s.Quoted && ev.callable(elisp.NewSymbol(s.Name)) {
			v, err := ev.invoke(elisp.NewSymbol(s.Name), conn)
			if err != nil {
				return "", err
			}
			return ev.executable(v, conn)
		}
		v, err := ev.symbolValue(s.Name, nil)
		if err != nil {
			return "", err
		}
		return ev.executable(v, conn)
	case client.Expression:
		v, err := ev.eval(s.Node, nil)
		if err != nil {
			return "", err
		}
		return ev.executable(v, conn)
	}
	return "", errors.Newf("unknown command spec %T", spec)
}

// invoke calls a command function the way lsp-mode does for conn: without
// arguments for stdio, with a port for tcp.
func (ev *evaluator) invoke(fn elisp.Node, conn client.ConnectionType) (elisp.Node, error) {
	var args []elisp.Node
	if conn == client.TCP {
		args = []elisp.Node{&elisp.Int{Value: PlaceholderPort}}
	}
	return ev.apply(fn, args)
}

// executable reduces a command value to the program name: a string is the
// name, a list names it in its first element, a function is invoked and a
// symbol is looked up.
func (ev *evaluator) executable(v elisp.Node, conn client.ConnectionType) (string, error) {
	for range MaxDepth {
		switch x := v.(type) {
		case *elisp.String:
			if x.Value == "" {
				return "", errors.New("empty executable name")
			}
			return x.Value, nil
		case *Lambda:
			next, err := ev.invoke(x, conn)
			if err != nil {
				return "", err
			}
			v = next
			continue
		case *elisp.Symbol:
			if elisp.IsNil(x) {
				return "", errors.New("command evaluates to nil")
			}
			if ev.callable(x) {
				next, err := ev.invoke(x, conn)
				if err != nil {
					return "", err
				}
				v = next
				continue
			}
			next, err := ev.symbolValue(x.Name, nil)
			if err != nil {
				return "", err
			}
			v = next
			continue
		case *elisp.List:
			if elisp.Head(x) == "lambda" {
				next, err := ev.invoke(x, conn)
				if err != nil {
					return "", err
				}
				v = next
				continue
			}
			if len(x.Items) == 0 {
				return "", errors.New("command evaluates to an empty list")
			}
			v = x.Items[0]
			continue
		}
		return "", errors.Newf("command evaluates to %s", describe(v))
	}
	return "", errors.Newf("command indirection exceeds depth %d", MaxDepth)
}
