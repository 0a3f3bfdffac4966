package resolve

import (
	"github.com/thoreinstein/lspinstall/internal/elisp"
	"github.com/thoreinstein/lspinstall/internal/errors"
)

type specialForm func(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error)

// specialForms receive their arguments unevaluated. Populated in init to
// break the initialization cycle through eval.
var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		elisp.SymQuote:     formQuote,
		elisp.SymFunction:  formFunction,
		elisp.SymBackquote: formBackquote,
		"lambda":           formLambda,
		"if":               formIf,
		"when":             formWhen,
		"unless":           formUnless,
		"or":               formOr,
		"and":              formAnd,
		"progn":            formProgn,
		"let":              formLet,
		"let*":             formLetStar,
	}
}

func wantArgs(name string, args []elisp.Node, n int) error {
	if len(args) < n {
		return errors.Newf("%s: expected at least %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func formQuote(_ *evaluator, args []elisp.Node, _ *scope) (elisp.Node, error) {
	if len(args) != 1 {
		return nil, errors.New("quote: expected 1 argument")
	}
	return args[0], nil
}

func formFunction(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	if len(args) != 1 {
		return nil, errors.New("function: expected 1 argument")
	}
	if l, ok := args[0].(*elisp.List); ok && elisp.Head(l) == "lambda" {
		return ev.makeLambda(l, sc)
	}
	return args[0], nil
}

func formLambda(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	items := append([]elisp.Node{elisp.NewSymbol("lambda")}, args...)
	return ev.makeLambda(elisp.NewList(items...), sc)
}

func formIf(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	if err := wantArgs("if", args, 2); err != nil {
		return nil, err
	}
	cond, err := ev.eval(args[0], sc)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return ev.eval(args[1], sc)
	}
	return ev.progn(args[2:], sc)
}

func formWhen(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	if err := wantArgs("when", args, 1); err != nil {
		return nil, err
	}
	cond, err := ev.eval(args[0], sc)
	if err != nil || !truthy(cond) {
		return elisp.Nil, err
	}
	return ev.progn(args[1:], sc)
}

func formUnless(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	if err := wantArgs("unless", args, 1); err != nil {
		return nil, err
	}
	cond, err := ev.eval(args[0], sc)
	if err != nil || truthy(cond) {
		return elisp.Nil, err
	}
	return ev.progn(args[1:], sc)
}

func formOr(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	for _, a := range args {
		v, err := ev.eval(a, sc)
		if err != nil {
			return nil, err
		}
		if truthy(v) {
			return v, nil
		}
	}
	return elisp.Nil, nil
}

func formAnd(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	var result elisp.Node = elisp.NewSymbol(elisp.SymT)
	for _, a := range args {
		v, err := ev.eval(a, sc)
		if err != nil {
			return nil, err
		}
		if !truthy(v) {
			return elisp.Nil, nil
		}
		result = v
	}
	return result, nil
}

func formProgn(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	return ev.progn(args, sc)
}

func formLet(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	return ev.let(args, sc, false)
}

func formLetStar(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	return ev.let(args, sc, true)
}

// let binds (VAR INIT) or VAR entries. Sequential bindings see the earlier
// ones, as in let*.
func (ev *evaluator) let(args []elisp.Node, sc *scope, sequential bool) (elisp.Node, error) {
	if err := wantArgs("let", args, 1); err != nil {
		return nil, err
	}
	var specs []elisp.Node
	if !elisp.IsNil(args[0]) {
		l, ok := args[0].(*elisp.List)
		if !ok {
			return nil, errors.Newf("let: invalid bindings %s", elisp.Format(args[0]))
		}
		specs = l.Items
	}

	bindings := make(map[string]elisp.Node, len(specs))
	inner := sc.child(bindings)
	initScope := sc
	if sequential {
		initScope = inner
	}
	for _, spec := range specs {
		name, initForm, err := letBinding(spec)
		if err != nil {
			return nil, err
		}
		var v elisp.Node = elisp.Nil
		if initForm != nil {
			if v, err = ev.eval(initForm, initScope); err != nil {
				return nil, err
			}
		}
		bindings[name] = v
	}
	return ev.progn(args[1:], inner)
}

func letBinding(spec elisp.Node) (string, elisp.Node, error) {
	switch s := spec.(type) {
	case *elisp.Symbol:
		return s.Name, nil, nil
	case *elisp.List:
		if len(s.Items) >= 1 && len(s.Items) <= 2 {
			if name, ok := s.Items[0].(*elisp.Symbol); ok {
				if len(s.Items) == 2 {
					return name.Name, s.Items[1], nil
				}
				return name.Name, nil, nil
			}
		}
	}
	return "", nil, errors.Newf("let: invalid binding %s", elisp.Format(spec))
}

// formBackquote expands `TEMPLATE with , and ,@ substitutions. Nested
// backquotes are not supported.
func formBackquote(ev *evaluator, args []elisp.Node, sc *scope) (elisp.Node, error) {
	if len(args) != 1 {
		return nil, errors.New("backquote: expected 1 argument")
	}
	return ev.expandTemplate(args[0], sc)
}

func (ev *evaluator) expandTemplate(n elisp.Node, sc *scope) (elisp.Node, error) {
	switch elisp.Head(n) {
	case elisp.SymUnquote:
		arg, err := unquoteArg(n)
		if err != nil {
			return nil, err
		}
		return ev.eval(arg, sc)
	case elisp.SymUnquoteSplice:
		return nil, errors.New(",@ outside of a list")
	case elisp.SymBackquote:
		return nil, errors.New("nested backquote")
	}

	switch v := n.(type) {
	case *elisp.List:
		out := &elisp.List{}
		for _, item := range v.Items {
			if elisp.Head(item) == elisp.SymUnquoteSplice {
				arg, err := unquoteArg(item)
				if err != nil {
					return nil, err
				}
				spliced, err := ev.eval(arg, sc)
				if err != nil {
					return nil, err
				}
				items, err := listItems(spliced)
				if err != nil {
					return nil, errors.Wrap(err, ",@")
				}
				out.Items = append(out.Items, items...)
				continue
			}
			x, err := ev.expandTemplate(item, sc)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, x)
		}
		if v.Tail != nil {
			tail, err := ev.expandTemplate(v.Tail, sc)
			if err != nil {
				return nil, err
			}
			out.Tail = tail
		}
		return out, nil
	case *elisp.Vector:
		out := &elisp.Vector{}
		for _, item := range v.Items {
			x, err := ev.expandTemplate(item, sc)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, x)
		}
		return out, nil
	}
	return n, nil
}

// unquoteArg returns the form of a (, FORM) or (,@ FORM) list.
func unquoteArg(n elisp.Node) (elisp.Node, error) {
	l := n.(*elisp.List)
	if len(l.Items) != 2 || l.Tail != nil {
		return nil, errors.Newf("malformed %s in template: %s", elisp.Head(n), elisp.Format(n))
	}
	return l.Items[1], nil
}
