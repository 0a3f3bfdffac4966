package resolve

import (
	"strconv"
	"strings"

	"github.com/thoreinstein/lspinstall/internal/elisp"
	"github.com/thoreinstein/lspinstall/internal/errors"
)

type builtin func(ev *evaluator, args []elisp.Node) (elisp.Node, error)

// builtins receive evaluated arguments. None of them has side effects.
var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"list":             builtinList,
		"cons":             builtinCons,
		"append":           builtinAppend,
		"car":              builtinCar,
		"cdr":              builtinCdr,
		"concat":           builtinConcat,
		"format":           builtinFormat,
		"number-to-string": builtinNumberToString,
		"identity":         builtinIdentity,
		"funcall":          builtinFuncall,
		"null":             builtinNull,
		"not":              builtinNull,
	}
}

// listItems returns the elements of a proper list; nil is the empty list.
func listItems(n elisp.Node) ([]elisp.Node, error) {
	if elisp.IsNil(n) {
		return nil, nil
	}
	l, ok := n.(*elisp.List)
	if !ok || l.Tail != nil {
		return nil, errors.Newf("wrong type argument: listp %s", describe(n))
	}
	return l.Items, nil
}

func exactly(name string, args []elisp.Node, n int) error {
	if len(args) != n {
		return errors.Newf("%s: expected %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func builtinList(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if len(args) == 0 {
		return elisp.Nil, nil
	}
	return elisp.NewList(append([]elisp.Node(nil), args...)...), nil
}

func builtinCons(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if err := exactly("cons", args, 2); err != nil {
		return nil, err
	}
	if elisp.IsNil(args[1]) {
		return elisp.NewList(args[0]), nil
	}
	if l, ok := args[1].(*elisp.List); ok {
		items := append([]elisp.Node{args[0]}, l.Items...)
		return &elisp.List{Items: items, Tail: l.Tail}, nil
	}
	return &elisp.List{Items: []elisp.Node{args[0]}, Tail: args[1]}, nil
}

func builtinAppend(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if len(args) == 0 {
		return elisp.Nil, nil
	}
	var items []elisp.Node
	for _, a := range args[:len(args)-1] {
		xs, err := listItems(a)
		if err != nil {
			return nil, errors.Wrap(err, "append")
		}
		items = append(items, xs...)
	}
	last := args[len(args)-1]
	if elisp.IsNil(last) {
		if len(items) == 0 {
			return elisp.Nil, nil
		}
		return elisp.NewList(items...), nil
	}
	if l, ok := last.(*elisp.List); ok {
		return &elisp.List{Items: append(items, l.Items...), Tail: l.Tail}, nil
	}
	if len(items) == 0 {
		return last, nil
	}
	return &elisp.List{Items: items, Tail: last}, nil
}

func builtinCar(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if err := exactly("car", args, 1); err != nil {
		return nil, err
	}
	if elisp.IsNil(args[0]) {
		return elisp.Nil, nil
	}
	l, ok := args[0].(*elisp.List)
	if !ok {
		return nil, errors.Newf("car: wrong type argument %s", describe(args[0]))
	}
	return l.Items[0], nil
}

func builtinCdr(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if err := exactly("cdr", args, 1); err != nil {
		return nil, err
	}
	if elisp.IsNil(args[0]) {
		return elisp.Nil, nil
	}
	l, ok := args[0].(*elisp.List)
	if !ok {
		return nil, errors.Newf("cdr: wrong type argument %s", describe(args[0]))
	}
	if len(l.Items) == 1 {
		if l.Tail != nil {
			return l.Tail, nil
		}
		return elisp.Nil, nil
	}
	return &elisp.List{Items: l.Items[1:], Tail: l.Tail}, nil
}

func builtinConcat(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	var sb strings.Builder
	for _, a := range args {
		switch v := a.(type) {
		case *elisp.String:
			sb.WriteString(v.Value)
		default:
			if elisp.IsNil(a) {
				continue
			}
			return nil, errors.Newf("concat: wrong type argument %s", describe(a))
		}
	}
	return elisp.NewString(sb.String()), nil
}

// builtinFormat supports the %s, %d and %% directives.
func builtinFormat(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if len(args) == 0 {
		return nil, errors.New("format: missing format string")
	}
	f, ok := args[0].(*elisp.String)
	if !ok {
		return nil, errors.Newf("format: wrong type argument %s", describe(args[0]))
	}
	rest := args[1:]
	var sb strings.Builder
	s := f.Value
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			sb.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return nil, errors.New("format: string ends in %")
		}
		verb := s[i]
		if verb == '%' {
			sb.WriteByte('%')
			continue
		}
		if len(rest) == 0 {
			return nil, errors.New("format: not enough arguments")
		}
		arg := rest[0]
		rest = rest[1:]
		switch verb {
		case 's':
			if str, ok := arg.(*elisp.String); ok {
				sb.WriteString(str.Value)
			} else {
				sb.WriteString(describe(arg))
			}
		case 'd':
			switch n := arg.(type) {
			case *elisp.Int:
				sb.WriteString(strconv.FormatInt(n.Value, 10))
			case *elisp.Float:
				sb.WriteString(strconv.FormatInt(int64(n.Value), 10))
			default:
				return nil, errors.Newf("format: %%d given %s", describe(arg))
			}
		default:
			return nil, errors.Newf("format: unsupported directive %%%c", verb)
		}
	}
	return elisp.NewString(sb.String()), nil
}

func builtinNumberToString(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if err := exactly("number-to-string", args, 1); err != nil {
		return nil, err
	}
	switch n := args[0].(type) {
	case *elisp.Int:
		return elisp.NewString(strconv.FormatInt(n.Value, 10)), nil
	case *elisp.Float:
		return elisp.NewString(strconv.FormatFloat(n.Value, 'g', -1, 64)), nil
	}
	return nil, errors.Newf("number-to-string: wrong type argument %s", describe(args[0]))
}

func builtinIdentity(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if err := exactly("identity", args, 1); err != nil {
		return nil, err
	}
	return args[0], nil
}

func builtinFuncall(ev *evaluator, args []elisp.Node) (elisp.Node, error) {
	if len(args) == 0 {
		return nil, errors.New("funcall: missing function")
	}
	return ev.apply(args[0], args[1:])
}

func builtinNull(_ *evaluator, args []elisp.Node) (elisp.Node, error) {
	if err := exactly("null", args, 1); err != nil {
		return nil, err
	}
	return boolValue(elisp.IsNil(args[0])), nil
}
