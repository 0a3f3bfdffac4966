package resolve

import (
	"fmt"
	"sort"

	"github.com/thoreinstein/lspinstall/internal/elisp"
	"github.com/thoreinstein/lspinstall/internal/errors"
)

// Lambda is a closure produced by evaluating a lambda form.
type Lambda struct {
	Params []string
	Body   []elisp.Node
	scope  *scope
}

// Span returns an empty span; closures have no source text of their own.
func (l *Lambda) Span() elisp.Span { return elisp.Span{} }

// scope is a chain of lexical bindings.
type scope struct {
	vars   map[string]elisp.Node
	parent *scope
}

func (s *scope) lookup(name string) (elisp.Node, bool) {
	for ; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) child(vars map[string]elisp.Node) *scope {
	return &scope{vars: vars, parent: s}
}

// ValueOf converts a configuration value into a Lisp value: strings stay
// strings, integers become integers, booleans become t or nil and lists
// become lists.
func ValueOf(v any) (elisp.Node, error) {
	switch x := v.(type) {
	case nil:
		return elisp.Nil, nil
	case string:
		return elisp.NewString(x), nil
	case bool:
		if x {
			return elisp.NewSymbol(elisp.SymT), nil
		}
		return elisp.Nil, nil
	case int:
		return &elisp.Int{Value: int64(x)}, nil
	case int64:
		return &elisp.Int{Value: x}, nil
	case float64:
		return &elisp.Float{Value: x}, nil
	case []string:
		items := make([]elisp.Node, len(x))
		for i, s := range x {
			items[i] = elisp.NewString(s)
		}
		return elisp.NewList(items...), nil
	case []any:
		items := make([]elisp.Node, 0, len(x))
		for _, e := range x {
			n, err := ValueOf(e)
			if err != nil {
				return nil, err
			}
			items = append(items, n)
		}
		return elisp.NewList(items...), nil
	}
	return nil, errors.Newf("unsupported variable value of type %T", v)
}

// ValuesOf converts a map of configuration values with ValueOf.
func ValuesOf(vars map[string]any) (map[string]elisp.Node, error) {
	out := make(map[string]elisp.Node, len(vars))
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n, err := ValueOf(vars[name])
		if err != nil {
			return nil, errors.Wrapf(err, "variable %s", name)
		}
		out[name] = n
	}
	return out, nil
}

func describe(n elisp.Node) string {
	if l, ok := n.(*Lambda); ok {
		return fmt.Sprintf("#<lambda %d>", len(l.Params))
	}
	return elisp.Format(n)
}
