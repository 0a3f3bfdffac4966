package client

import (
	"log/slog"
	"regexp"

	"github.com/thoreinstein/lspinstall/internal/elisp"
	"github.com/thoreinstein/lspinstall/internal/library"
	"github.com/thoreinstein/lspinstall/internal/logging"
	"github.com/thoreinstein/lspinstall/pkg/fileutil"
)

var definitionHeads = map[string]bool{
	"defun":         true,
	"defalias":      true,
	"defvar":        true,
	"defcustom":     true,
	"defconst":      true,
	"lsp-defcustom": true,
}

// Extractor finds client registrations through a shared library index.
type Extractor struct {
	index    *library.Index
	fallback string
	logger   *slog.Logger
}

// NewExtractor creates an Extractor. Server ids missing from index are
// searched for in fallbackFile, which may be empty.
func NewExtractor(index *library.Index, fallbackFile string) *Extractor {
	return NewExtractorWithLogger(index, fallbackFile, logging.Default())
}

// NewExtractorWithLogger creates an Extractor with the given logger.
func NewExtractorWithLogger(index *library.Index, fallbackFile string, logger *slog.Logger) *Extractor {
	return &Extractor{index: index, fallback: fallbackFile, logger: logger}
}

// Extract returns the descriptor and group of the client registered as id.
// Either may be nil when the module holds no recognizable registration or
// group; only index and read failures are errors.
func (e *Extractor) Extract(id string) (*Descriptor, *Group, error) {
	file, ok, err := e.index.Lookup(id)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		if e.fallback == "" {
			return nil, nil, nil
		}
		e.logger.Debug("server id not indexed, using fallback module", "id", id, "file", e.fallback)
		file = e.fallback
	}

	data, err := fileutil.ReadFileWithLimit(file)
	if err != nil {
		return nil, nil, err
	}

	locs := markerPattern(id).FindAllIndex(data, -1)
	if locs == nil {
		e.logger.Debug("no registration marker", "id", id, "file", file)
		return nil, nil, nil
	}
	forms, err := elisp.ReadAll(data)
	if err != nil {
		// Forms before the syntax error are still usable.
		e.logger.Debug("partial parse of client module", "file", file, "error", err)
	}

	// Markers in docstrings or helper forms are passed over.
	for _, loc := range locs {
		if desc := e.descriptor(id, file, forms, loc[0]); desc != nil {
			return desc, groupBefore(forms, loc[0]), nil
		}
	}
	return nil, groupBefore(forms, locs[0][0]), nil
}

func markerPattern(id string) *regexp.Regexp {
	return regexp.MustCompile(`:server-id\s+'` + regexp.QuoteMeta(id) + `(?:[\s()\[\]]|$)`)
}

func (e *Extractor) descriptor(id, file string, forms []elisp.Node, offset int) *Descriptor {
	form := elisp.FormAt(forms, offset)
	if form == nil {
		return nil
	}

	call := findClient(form, id)
	if call == nil {
		e.logger.Debug("marker is not inside make-lsp-client", "id", id, "file", file)
		return nil
	}
	conn, ok := elisp.PlistGet(call.Items[1:], ":new-connection")
	if !ok {
		return nil
	}
	ct, spec, ok := ParseConnection(conn)
	if !ok {
		e.logger.Debug("unrecognized connection", "id", id, "connection", elisp.Format(conn))
		return nil
	}

	return &Descriptor{
		ServerID:    id,
		File:        file,
		Connection:  ct,
		Command:     spec,
		Definitions: definitions(forms),
	}
}

// findClient returns the make-lsp-client call inside n whose :server-id is id.
func findClient(n elisp.Node, id string) *elisp.List {
	l, ok := n.(*elisp.List)
	if !ok {
		return nil
	}
	if elisp.Head(l) == "make-lsp-client" && len(l.Items) > 1 {
		if v, ok := elisp.PlistGet(l.Items[1:], ":server-id"); ok {
			if sym, ok := unquoteSymbol(v); ok && sym == id {
				return l
			}
		}
	}
	for _, item := range l.Items {
		if found := findClient(item, id); found != nil {
			return found
		}
	}
	return nil
}

func unquoteSymbol(n elisp.Node) (string, bool) {
	if inner, ok := elisp.Unquote(n); ok {
		n = inner
	}
	s, ok := n.(*elisp.Symbol)
	if !ok {
		return "", false
	}
	return s.Name, true
}

func definitions(forms []elisp.Node) []elisp.Node {
	var defs []elisp.Node
	for _, f := range forms {
		if definitionHeads[elisp.Head(f)] {
			defs = append(defs, f)
		}
	}
	return defs
}
