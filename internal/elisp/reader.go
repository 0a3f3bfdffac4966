package elisp

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports malformed source text at a byte offset.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+\.?$`)
	floatPattern = regexp.MustCompile(`^[+-]?([0-9]+\.[0-9]*|[0-9]*\.[0-9]+|[0-9]+)(e[+-]?[0-9]+)?$`)
)

// Reader reads successive top-level forms from source text. Positions in
// the returned nodes are byte offsets into the text.
type Reader struct {
	src string
	pos int
}

// NewReader returns a Reader over src.
func NewReader(src []byte) *Reader {
	return &Reader{src: string(src)}
}

// Next returns the next top-level form, or io.EOF when only whitespace and
// comments remain.
func (r *Reader) Next() (Node, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return nil, io.EOF
	}
	n, err := r.read()
	if err != nil {
		return nil, err
	}
	if _, ok := n.(dotMarker); ok {
		return nil, r.errorf(n.Span().Start, "unexpected '.'")
	}
	return n, nil
}

// ReadAll reads every top-level form in src. On a syntax error it returns
// the forms read so far together with the error.
func ReadAll(src []byte) ([]Node, error) {
	r := NewReader(src)
	var forms []Node
	for {
		n, err := r.Next()
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			return forms, err
		}
		forms = append(forms, n)
	}
}

// Parse reads exactly one form from s.
func Parse(s string) (Node, error) {
	r := &Reader{src: s}
	n, err := r.Next()
	if err == io.EOF {
		return nil, r.errorf(0, "empty input")
	}
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if r.pos < len(r.src) {
		return nil, r.errorf(r.pos, "trailing text after form")
	}
	return n, nil
}

// dotMarker is the bare "." token inside a list.
type dotMarker struct{ pos Span }

func (d dotMarker) Span() Span { return d.pos }

func (r *Reader) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (r *Reader) peek() byte {
	if r.pos < len(r.src) {
		return r.src[r.pos]
	}
	return 0
}

func (r *Reader) skipSpace() {
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch {
		case c == ';':
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
		case c < utf8.RuneSelf && (unicode.IsSpace(rune(c)) || c == '\f'):
			r.pos++
		default:
			ru, size := utf8.DecodeRuneInString(r.src[r.pos:])
			if !unicode.IsSpace(ru) {
				return
			}
			r.pos += size
		}
	}
}

func (r *Reader) read() (Node, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return nil, r.errorf(r.pos, "unexpected end of input")
	}
	start := r.pos
	switch c := r.src[r.pos]; c {
	case '(':
		r.pos++
		return r.readList(start)
	case '[':
		r.pos++
		items, err := r.readSeq(']')
		if err != nil {
			return nil, err
		}
		return &Vector{Items: items, Pos: Span{start, r.pos}}, nil
	case ')', ']':
		return nil, r.errorf(start, "unexpected %q", c)
	case '\'':
		r.pos++
		return r.readWrapped(start, SymQuote)
	case '`':
		r.pos++
		return r.readWrapped(start, SymBackquote)
	case ',':
		r.pos++
		if r.peek() == '@' {
			r.pos++
			return r.readWrapped(start, SymUnquoteSplice)
		}
		return r.readWrapped(start, SymUnquote)
	case '"':
		return r.readString()
	case '?':
		return r.readChar()
	case '#':
		return r.readHash()
	default:
		return r.readAtom()
	}
}

func (r *Reader) readWrapped(start int, head string) (Node, error) {
	inner, err := r.read()
	if err != nil {
		return nil, err
	}
	if _, ok := inner.(dotMarker); ok {
		return nil, r.errorf(inner.Span().Start, "unexpected '.'")
	}
	sym := &Symbol{Name: head, Pos: Span{start, inner.Span().Start}}
	return &List{Items: []Node{sym, inner}, Pos: Span{start, r.pos}}, nil
}

func (r *Reader) readList(start int) (Node, error) {
	list := &List{}
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return nil, r.errorf(start, "unterminated list")
		}
		if r.src[r.pos] == ')' {
			r.pos++
			list.Pos = Span{start, r.pos}
			return list, nil
		}
		n, err := r.read()
		if err != nil {
			return nil, err
		}
		if dot, ok := n.(dotMarker); ok {
			if len(list.Items) == 0 {
				return nil, r.errorf(dot.pos.Start, "'.' at start of list")
			}
			tail, err := r.read()
			if err != nil {
				return nil, err
			}
			r.skipSpace()
			if r.peek() != ')' {
				return nil, r.errorf(r.pos, "expected ')' after dotted tail")
			}
			r.pos++
			list.Tail = tail
			list.Pos = Span{start, r.pos}
			return list, nil
		}
		list.Items = append(list.Items, n)
	}
}

func (r *Reader) readSeq(closer byte) ([]Node, error) {
	start := r.pos - 1
	var items []Node
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return nil, r.errorf(start, "unterminated %q", r.src[start])
		}
		if r.src[r.pos] == closer {
			r.pos++
			return items, nil
		}
		n, err := r.read()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
}

func (r *Reader) readString() (Node, error) {
	start := r.pos
	r.pos++
	var sb strings.Builder
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch c {
		case '"':
			r.pos++
			return &String{Value: sb.String(), Pos: Span{start, r.pos}}, nil
		case '\\':
			r.pos++
			if err := r.readEscape(&sb, true); err != nil {
				return nil, err
			}
		default:
			sb.WriteByte(c)
			r.pos++
		}
	}
	return nil, r.errorf(start, "unterminated string")
}

var simpleEscapes = map[byte]rune{
	'n': '\n', 't': '\t', 'r': '\r', 'a': '\a', 'b': '\b', 'f': '\f',
	'v': '\v', 'e': 27, 's': ' ', 'd': 127,
}

// readEscape decodes the escape after a backslash. In strings an escaped
// newline or space is dropped.
func (r *Reader) readEscape(sb *strings.Builder, inString bool) error {
	if r.pos >= len(r.src) {
		return r.errorf(r.pos, "unterminated escape")
	}
	c := r.src[r.pos]
	r.pos++
	if inString && (c == '\n' || c == ' ') {
		return nil
	}
	if ru, ok := simpleEscapes[c]; ok {
		sb.WriteRune(ru)
		return nil
	}
	switch {
	case c == 'x':
		end := r.pos
		for end < len(r.src) && isHex(r.src[end]) {
			end++
		}
		v, err := strconv.ParseUint(r.src[r.pos:end], 16, 32)
		if err != nil {
			return r.errorf(r.pos, "bad hex escape")
		}
		r.pos = end
		if r.peek() == ';' {
			r.pos++
		}
		sb.WriteRune(rune(v))
	case c >= '0' && c <= '7':
		end := r.pos - 1
		for end < len(r.src) && end < r.pos+2 && r.src[end] >= '0' && r.src[end] <= '7' {
			end++
		}
		v, _ := strconv.ParseUint(r.src[r.pos-1:end], 8, 32)
		r.pos = end
		sb.WriteRune(rune(v))
	default:
		ru, size := utf8.DecodeRuneInString(r.src[r.pos-1:])
		r.pos += size - 1
		sb.WriteRune(ru)
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// readChar reads a character literal such as ?a, ?\n or ?\C-x. Modifier
// prefixes are consumed but not applied to the value.
func (r *Reader) readChar() (Node, error) {
	start := r.pos
	r.pos++
	if r.pos >= len(r.src) {
		return nil, r.errorf(start, "unterminated character literal")
	}
	if r.src[r.pos] != '\\' {
		ru, size := utf8.DecodeRuneInString(r.src[r.pos:])
		r.pos += size
		return &Int{Value: int64(ru), Pos: Span{start, r.pos}}, nil
	}
	r.pos++
	for r.pos+1 < len(r.src) && strings.ContainsRune("CMSHsA^", rune(r.src[r.pos])) && r.src[r.pos+1] == '-' {
		r.pos += 2
		if r.peek() == '\\' {
			r.pos++
		}
	}
	var sb strings.Builder
	if err := r.readEscape(&sb, false); err != nil {
		return nil, err
	}
	ru, _ := utf8.DecodeRuneInString(sb.String())
	return &Int{Value: int64(ru), Pos: Span{start, r.pos}}, nil
}

func (r *Reader) readHash() (Node, error) {
	start := r.pos
	r.pos++
	switch r.peek() {
	case '\'':
		r.pos++
		return r.readWrapped(start, SymFunction)
	case 's':
		// Record literal #s(...): read as a plain list.
		r.pos++
		if r.peek() != '(' {
			return nil, r.errorf(start, "malformed #s literal")
		}
		r.pos++
		return r.readList(start)
	case '(':
		// Propertized string #("text" 0 4 (face bold)): keep the text.
		r.pos++
		n, err := r.readList(start)
		if err != nil {
			return nil, err
		}
		if l := n.(*List); len(l.Items) > 0 {
			if s, ok := l.Items[0].(*String); ok {
				return &String{Value: s.Value, Pos: l.Pos}, nil
			}
		}
		return n, nil
	case '[':
		r.pos++
		items, err := r.readSeq(']')
		if err != nil {
			return nil, err
		}
		return &Vector{Items: items, Pos: Span{start, r.pos}}, nil
	}
	return nil, r.errorf(start, "unsupported '#' syntax")
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '"', '\'', ';', '`', ',':
		return true
	}
	return c < utf8.RuneSelf && unicode.IsSpace(rune(c))
}

func (r *Reader) readAtom() (Node, error) {
	start := r.pos
	escaped := false
	var sb strings.Builder
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		c := r.src[r.pos]
		if c == '\\' {
			escaped = true
			r.pos++
			if r.pos >= len(r.src) {
				return nil, r.errorf(start, "escape at end of input")
			}
			ru, size := utf8.DecodeRuneInString(r.src[r.pos:])
			sb.WriteRune(ru)
			r.pos += size
			continue
		}
		if c >= utf8.RuneSelf {
			ru, size := utf8.DecodeRuneInString(r.src[r.pos:])
			if unicode.IsSpace(ru) {
				break
			}
			sb.WriteRune(ru)
			r.pos += size
			continue
		}
		sb.WriteByte(c)
		r.pos++
	}
	text := sb.String()
	pos := Span{start, r.pos}
	if escaped {
		return &Symbol{Name: text, Pos: pos}, nil
	}
	if text == "." {
		return dotMarker{pos: pos}, nil
	}
	if intPattern.MatchString(text) {
		v, err := strconv.ParseInt(strings.TrimSuffix(text, "."), 10, 64)
		if err == nil {
			return &Int{Value: v, Pos: pos}, nil
		}
	}
	if floatPattern.MatchString(text) {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return &Float{Value: v, Pos: pos}, nil
		}
	}
	return &Symbol{Name: text, Pos: pos}, nil
}

// FormAt returns the top-level form whose span contains offset, or nil.
func FormAt(forms []Node, offset int) Node {
	for _, f := range forms {
		if f.Span().Contains(offset) {
			return f
		}
	}
	return nil
}
