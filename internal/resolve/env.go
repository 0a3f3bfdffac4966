package resolve

import (
	"strings"

	"github.com/thoreinstein/lspinstall/internal/elisp"
)

// Env holds the global bindings of one client module: variable init forms,
// function definitions and configured overrides.
type Env struct {
	vars      map[string]elisp.Node
	funcs     map[string]elisp.Node
	overrides map[string]elisp.Node
}

// NewEnv collects bindings from top-level definition forms. Overrides take
// precedence over any variable defined in the module.
func NewEnv(defs []elisp.Node, overrides map[string]elisp.Node) *Env {
	env := &Env{
		vars:      make(map[string]elisp.Node),
		funcs:     make(map[string]elisp.Node),
		overrides: overrides,
	}
	for _, d := range defs {
		env.define(d)
	}
	return env
}

func (e *Env) define(n elisp.Node) {
	l, ok := n.(*elisp.List)
	if !ok || len(l.Items) < 2 {
		return
	}
	switch elisp.Head(l) {
	case "defvar", "defcustom", "defconst", "lsp-defcustom":
		name, ok := l.Items[1].(*elisp.Symbol)
		if !ok || len(l.Items) < 3 {
			return
		}
		if _, seen := e.vars[name.Name]; !seen {
			e.vars[name.Name] = l.Items[2]
		}
	case "defun":
		name, ok := l.Items[1].(*elisp.Symbol)
		if !ok || len(l.Items) < 3 {
			return
		}
		e.funcs[name.Name] = defunLambda(l.Items[2], l.Items[3:])
	case "defalias":
		if len(l.Items) < 3 {
			return
		}
		target, ok := elisp.Unquote(l.Items[1])
		if !ok {
			return
		}
		if name, ok := target.(*elisp.Symbol); ok {
			e.funcs[name.Name] = l.Items[2]
		}
	}
}

// defunLambda turns a defun argument list and body into a lambda form,
// dropping the docstring and declare/interactive forms.
func defunLambda(params elisp.Node, body []elisp.Node) elisp.Node {
	for len(body) > 1 {
		if _, ok := body[0].(*elisp.String); ok {
			body = body[1:]
			continue
		}
		if h := elisp.Head(body[0]); h == "declare" || h == "interactive" {
			body = body[1:]
			continue
		}
		break
	}
	items := append([]elisp.Node{elisp.NewSymbol("lambda"), params}, body...)
	return elisp.NewList(items...)
}

// variable returns the init form or override bound to name. Overrides are
// already values; init forms still need evaluating. Override keys may have
// been lowercased by the config loader.
func (e *Env) variable(name string) (node elisp.Node, isValue bool, ok bool) {
	if v, ok := e.overrides[name]; ok {
		return v, true, true
	}
	if v, ok := e.overrides[strings.ToLower(name)]; ok {
		return v, true, true
	}
	if v, ok := e.vars[name]; ok {
		return v, false, true
	}
	return nil, false, false
}

// HasFunction reports whether name is defined with defun or defalias.
func (e *Env) HasFunction(name string) bool {
	_, ok := e.funcs[name]
	return ok
}
