package client

import (
	"github.com/thoreinstein/lspinstall/internal/elisp"
)

var connectionTypes = map[string]ConnectionType{
	"lsp-stdio-connection":   Stdio,
	"lsp-tramp-connection":   Stdio,
	"lsp-tcp-connection":     TCP,
	"lsp-tcp-server-command": TCP,
}

// ParseConnection recognizes a :new-connection value. It reports false for
// shapes it does not know.
func ParseConnection(n elisp.Node) (ConnectionType, CommandSpec, bool) {
	ct, ok := connectionTypes[elisp.Head(n)]
	if !ok {
		return "", nil, false
	}
	l := n.(*elisp.List)
	if len(l.Items) < 2 {
		return "", nil, false
	}
	spec, ok := ParseCommand(l.Items[1])
	if !ok {
		return "", nil, false
	}
	return ct, spec, true
}

// ParseCommand classifies the command argument of a connection.
func ParseCommand(n elisp.Node) (CommandSpec, bool) {
	if elisp.IsNil(n) {
		return nil, false
	}
	switch v := n.(type) {
	case *elisp.String:
		return Literal{Value: v.Value}, true
	case *elisp.Symbol:
		if v.Name == elisp.SymT || elisp.IsKeyword(v) {
			return nil, false
		}
		return Reference{Name: v.Name}, true
	}

	if inner, ok := elisp.Unquote(n); ok {
		switch v := inner.(type) {
		case *elisp.Symbol:
			return Reference{Name: v.Name, Quoted: true}, true
		case *elisp.List:
			if d, ok := parseLambda(v); ok {
				return d, true
			}
		}
	}
	if l, ok := n.(*elisp.List); ok {
		if d, ok := parseLambda(l); ok {
			return d, true
		}
	}
	return Expression{Node: n}, true
}

func parseLambda(l *elisp.List) (Deferred, bool) {
	if elisp.Head(l) != "lambda" || len(l.Items) < 2 {
		return Deferred{}, false
	}
	var params []string
	switch p := l.Items[1].(type) {
	case *elisp.List:
		for _, item := range p.Items {
			s, ok := item.(*elisp.Symbol)
			if !ok {
				return Deferred{}, false
			}
			params = append(params, s.Name)
		}
	case *elisp.Symbol:
		if p.Name != elisp.SymNil {
			return Deferred{}, false
		}
	default:
		return Deferred{}, false
	}
	return Deferred{Params: params, Body: l.Items[2:]}, true
}
