package elisp

import (
	"strconv"
	"strings"
)

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Node is one datum read from source text.
type Node interface {
	Span() Span
}

// Symbol is a symbol or keyword (a symbol whose name starts with ':').
type Symbol struct {
	Name string
	Pos  Span
}

// String is a string literal with escapes already decoded.
type String struct {
	Value string
	Pos   Span
}

// Int is an integer or character literal.
type Int struct {
	Value int64
	Pos   Span
}

// Float is a floating point literal.
type Float struct {
	Value float64
	Pos   Span
}

// List is a proper list, or a dotted list when Tail is non-nil.
type List struct {
	Items []Node
	Tail  Node
	Pos   Span
}

// Vector is a bracketed vector literal.
type Vector struct {
	Items []Node
	Pos   Span
}

func (n *Symbol) Span() Span { return n.Pos }
func (n *String) Span() Span { return n.Pos }
func (n *Int) Span() Span    { return n.Pos }
func (n *Float) Span() Span  { return n.Pos }
func (n *List) Span() Span   { return n.Pos }
func (n *Vector) Span() Span { return n.Pos }

// Reader-macro expansions produce lists headed by these symbols.
const (
	SymQuote         = "quote"
	SymFunction      = "function"
	SymBackquote     = "`"
	SymUnquote       = ","
	SymUnquoteSplice = ",@"
	SymNil           = "nil"
	SymT             = "t"
)

// NewSymbol returns a symbol without a source position.
func NewSymbol(name string) *Symbol { return &Symbol{Name: name} }

// NewString returns a string without a source position.
func NewString(s string) *String { return &String{Value: s} }

// NewList returns a proper list without a source position.
func NewList(items ...Node) *List { return &List{Items: items} }

// Nil is the empty list.
var Nil Node = &Symbol{Name: SymNil}

// IsNil reports whether n is nil: a Go nil, the symbol nil, or ().
func IsNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Symbol:
		return v.Name == SymNil
	case *List:
		return len(v.Items) == 0 && v.Tail == nil
	}
	return false
}

// IsKeyword reports whether n is a keyword symbol such as :server-id.
func IsKeyword(n Node) bool {
	s, ok := n.(*Symbol)
	return ok && strings.HasPrefix(s.Name, ":")
}

// Head returns the name of the symbol heading the list n, or "".
func Head(n Node) string {
	l, ok := n.(*List)
	if !ok || len(l.Items) == 0 {
		return ""
	}
	if s, ok := l.Items[0].(*Symbol); ok {
		return s.Name
	}
	return ""
}

// Unquote returns X for (quote X) and (function X).
func Unquote(n Node) (Node, bool) {
	switch Head(n) {
	case SymQuote, SymFunction:
		l := n.(*List)
		if len(l.Items) == 2 && l.Tail == nil {
			return l.Items[1], true
		}
	}
	return nil, false
}

// PlistGet returns the value following key in a property list of items.
func PlistGet(items []Node, key string) (Node, bool) {
	for i := 0; i+1 < len(items); i++ {
		if s, ok := items[i].(*Symbol); ok && s.Name == key {
			return items[i+1], true
		}
	}
	return nil, false
}

// Format renders n back to source syntax, using reader shorthands for
// quote, function and backquote forms.
func Format(n Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

var shorthands = map[string]string{
	SymQuote:         "'",
	SymFunction:      "#'",
	SymBackquote:     "`",
	SymUnquote:       ",",
	SymUnquoteSplice: ",@",
}

func format(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case nil:
		sb.WriteString(SymNil)
	case *Symbol:
		sb.WriteString(v.Name)
	case *String:
		sb.WriteString(strconv.Quote(v.Value))
	case *Int:
		sb.WriteString(strconv.FormatInt(v.Value, 10))
	case *Float:
		sb.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *Vector:
		sb.WriteByte('[')
		formatItems(sb, v.Items)
		sb.WriteByte(']')
	case *List:
		if prefix, ok := shorthands[Head(v)]; ok && len(v.Items) == 2 && v.Tail == nil {
			sb.WriteString(prefix)
			format(sb, v.Items[1])
			return
		}
		sb.WriteByte('(')
		formatItems(sb, v.Items)
		if v.Tail != nil {
			sb.WriteString(" . ")
			format(sb, v.Tail)
		}
		sb.WriteByte(')')
	}
}

func formatItems(sb *strings.Builder, items []Node) {
	for i, item := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		format(sb, item)
	}
}
