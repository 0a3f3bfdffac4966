package resolve

import (
	"github.com/thoreinstein/lspinstall/internal/elisp"
	"github.com/thoreinstein/lspinstall/internal/errors"
)

// MaxDepth bounds nested evaluation, including variable and function
// indirection.
const MaxDepth = 32

// evaluator interprets a small, side-effect free subset of Emacs Lisp.
// Anything outside the subset is an error.
type evaluator struct {
	env   *Env
	depth int
}

func newEvaluator(env *Env) *evaluator {
	return &evaluator{env: env}
}

func (ev *evaluator) enter() error {
	ev.depth++
	if ev.depth > MaxDepth {
		return errors.Newf("evaluation exceeds depth %d", MaxDepth)
	}
	return nil
}

func (ev *evaluator) leave() { ev.depth-- }

func truthy(n elisp.Node) bool { return !elisp.IsNil(n) }

func boolValue(b bool) elisp.Node {
	if b {
		return elisp.NewSymbol(elisp.SymT)
	}
	return elisp.Nil
}

// eval evaluates n in the lexical scope sc.
func (ev *evaluator) eval(n elisp.Node, sc *scope) (elisp.Node, error) {
	if err := ev.enter(); err != nil {
		return nil, err
	}
	defer ev.leave()

	switch v := n.(type) {
	case *elisp.Symbol:
		return ev.symbolValue(v.Name, sc)
	case *elisp.List:
		return ev.evalList(v, sc)
	}
	// Strings, numbers, vectors and closures evaluate to themselves.
	return n, nil
}

func (ev *evaluator) symbolValue(name string, sc *scope) (elisp.Node, error) {
	if name == elisp.SymNil || name == elisp.SymT || (len(name) > 0 && name[0] == ':') {
		return elisp.NewSymbol(name), nil
	}
	if v, ok := sc.lookup(name); ok {
		return v, nil
	}
	node, isValue, ok := ev.env.variable(name)
	if !ok {
		return nil, errors.Newf("void variable %s", name)
	}
	if isValue {
		return node, nil
	}
	v, err := ev.eval(node, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "value of %s", name)
	}
	return v, nil
}

func (ev *evaluator) evalList(l *elisp.List, sc *scope) (elisp.Node, error) {
	if elisp.IsNil(l) {
		return elisp.Nil, nil
	}
	if l.Tail != nil {
		return nil, errors.Newf("cannot evaluate dotted list %s", elisp.Format(l))
	}
	args := l.Items[1:]

	if head, ok := l.Items[0].(*elisp.List); ok {
		if elisp.Head(head) != "lambda" {
			return nil, errors.Newf("invalid function %s", elisp.Format(head))
		}
		fn, err := ev.makeLambda(head, sc)
		if err != nil {
			return nil, err
		}
		return ev.applyForm(fn, args, sc)
	}

	sym, ok := l.Items[0].(*elisp.Symbol)
	if !ok {
		return nil, errors.Newf("invalid function %s", elisp.Format(l.Items[0]))
	}
	if form, ok := specialForms[sym.Name]; ok {
		return form(ev, args, sc)
	}
	if fn, ok := builtins[sym.Name]; ok {
		vals, err := ev.evalArgs(args, sc)
		if err != nil {
			return nil, err
		}
		return fn(ev, vals)
	}
	if ev.env.HasFunction(sym.Name) {
		return ev.applyForm(sym, args, sc)
	}
	return nil, errors.Newf("unsupported function %s", sym.Name)
}

func (ev *evaluator) applyForm(fn elisp.Node, args []elisp.Node, sc *scope) (elisp.Node, error) {
	vals, err := ev.evalArgs(args, sc)
	if err != nil {
		return nil, err
	}
	return ev.apply(fn, vals)
}

func (ev *evaluator) evalArgs(args []elisp.Node, sc *scope) ([]elisp.Node, error) {
	vals := make([]elisp.Node, len(args))
	for i, a := range args {
		v, err := ev.eval(a, sc)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (ev *evaluator) progn(body []elisp.Node, sc *scope) (elisp.Node, error) {
	var result elisp.Node = elisp.Nil
	for _, form := range body {
		v, err := ev.eval(form, sc)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (ev *evaluator) makeLambda(l *elisp.List, sc *scope) (*Lambda, error) {
	if len(l.Items) < 2 {
		return nil, errors.New("lambda without argument list")
	}
	var params []string
	if !elisp.IsNil(l.Items[1]) {
		plist, ok := l.Items[1].(*elisp.List)
		if !ok {
			return nil, errors.Newf("invalid lambda list %s", elisp.Format(l.Items[1]))
		}
		for _, p := range plist.Items {
			s, ok := p.(*elisp.Symbol)
			if !ok {
				return nil, errors.Newf("invalid lambda parameter %s", elisp.Format(p))
			}
			params = append(params, s.Name)
		}
	}
	return &Lambda{Params: params, Body: l.Items[2:], scope: sc}, nil
}

// callable reports whether n can be applied.
func (ev *evaluator) callable(n elisp.Node) bool {
	switch v := n.(type) {
	case *Lambda:
		return true
	case *elisp.Symbol:
		_, builtin := builtins[v.Name]
		return builtin || ev.env.HasFunction(v.Name)
	case *elisp.List:
		return elisp.Head(v) == "lambda"
	}
	return false
}

// apply calls fn with already evaluated arguments.
func (ev *evaluator) apply(fn elisp.Node, args []elisp.Node) (elisp.Node, error) {
	if err := ev.enter(); err != nil {
		return nil, err
	}
	defer ev.leave()

	switch f := fn.(type) {
	case *Lambda:
		bindings, err := bindParams(f.Params, args)
		if err != nil {
			return nil, err
		}
		return ev.progn(f.Body, f.scope.child(bindings))
	case *elisp.List:
		if elisp.Head(f) != "lambda" {
			break
		}
		l, err := ev.makeLambda(f, nil)
		if err != nil {
			return nil, err
		}
		return ev.apply(l, args)
	case *elisp.Symbol:
		if b, ok := builtins[f.Name]; ok {
			return b(ev, args)
		}
		def, ok := ev.env.funcs[f.Name]
		if !ok {
			return nil, errors.Newf("void function %s", f.Name)
		}
		target, err := ev.eval(def, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "definition of %s", f.Name)
		}
		return ev.apply(target, args)
	}
	return nil, errors.Newf("invalid function %s", describe(fn))
}

func bindParams(params []string, args []elisp.Node) (map[string]elisp.Node, error) {
	bindings := make(map[string]elisp.Node, len(params))
	optional := false
	i := 0
	for p := 0; p < len(params); p++ {
		switch params[p] {
		case "&optional":
			optional = true
			continue
		case "&rest":
			if p+1 >= len(params) {
				return nil, errors.New("&rest without a parameter")
			}
			rest := []elisp.Node{}
			if i < len(args) {
				rest = args[i:]
			}
			bindings[params[p+1]] = elisp.NewList(rest...)
			return bindings, nil
		}
		if i < len(args) {
			bindings[params[p]] = args[i]
			i++
			continue
		}
		if !optional {
			return nil, errors.Newf("wrong number of arguments: %d", len(args))
		}
		bindings[params[p]] = elisp.Nil
	}
	if i < len(args) {
		return nil, errors.Newf("wrong number of arguments: %d", len(args))
	}
	return bindings, nil
}
