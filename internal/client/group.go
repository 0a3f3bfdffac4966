package client

import (
	"github.com/thoreinstein/lspinstall/internal/elisp"
)

// groupBefore returns the last defgroup starting before offset, or nil.
func groupBefore(forms []elisp.Node, offset int) *Group {
	var last *elisp.List
	for _, f := range forms {
		if f.Span().Start >= offset {
			break
		}
		if elisp.Head(f) == "defgroup" {
			last = f.(*elisp.List)
		}
	}
	if last == nil {
		return nil
	}
	return parseGroup(last)
}

// parseGroup reads (defgroup NAME MEMBERS DOC [KEYWORD VALUE]...).
func parseGroup(l *elisp.List) *Group {
	if len(l.Items) < 2 {
		return nil
	}
	name, ok := l.Items[1].(*elisp.Symbol)
	if !ok {
		return nil
	}
	g := &Group{Name: name.Name}
	if len(l.Items) <= 4 {
		return g
	}
	props := l.Items[4:]
	for i := 0; i+1 < len(props); i += 2 {
		key, ok := props[i].(*elisp.Symbol)
		if !ok || key.Name != ":link" {
			continue
		}
		if url, ok := linkURL(props[i+1]); ok {
			g.Links = append(g.Links, url)
		}
	}
	return g
}

// linkURL extracts the target of '(url-link [:tag "..."] "URL").
func linkURL(n elisp.Node) (string, bool) {
	if inner, ok := elisp.Unquote(n); ok {
		n = inner
	}
	if elisp.Head(n) != "url-link" {
		return "", false
	}
	items := n.(*elisp.List).Items[1:]
	for i := 0; i < len(items); i++ {
		if elisp.IsKeyword(items[i]) {
			i++
			continue
		}
		if s, ok := items[i].(*elisp.String); ok {
			return s.Value, true
		}
	}
	return "", false
}
