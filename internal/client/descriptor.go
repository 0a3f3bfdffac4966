// Package client extracts client registrations from lsp-mode modules.
//
// A registration is a (make-lsp-client ...) call. The extractor locates the
// call for a server id, parses its :new-connection argument into a
// [Descriptor] and recovers the customization group that owns it.
package client

import (
	"github.com/thoreinstein/lspinstall/internal/elisp"
)

// ConnectionType is the transport a client uses to reach its server.
type ConnectionType string

// Connection types.
const (
	Stdio ConnectionType = "stdio"
	TCP   ConnectionType = "tcp"
)

// CommandSpec describes how a client computes its server command. It is one
// of Literal, Deferred, Reference or Expression.
type CommandSpec interface {
	commandSpec()

	// String renders the spec as source text.
	String() string
}

// Literal is a command given directly as a string.
type Literal struct {
	Value string
}

// Deferred is a lambda computing the command when the client starts.
type Deferred struct {
	Params []string
	Body   []elisp.Node
}

// Reference names a variable (or, when Quoted, a function) holding the command.
type Reference struct {
	Name   string
	Quoted bool
}

// Expression is any other form; it is evaluated to find the command.
type Expression struct {
	Node elisp.Node
}

func (Literal) commandSpec()    {}
func (Deferred) commandSpec()   {}
func (Reference) commandSpec()  {}
func (Expression) commandSpec() {}

func (l Literal) String() string { return elisp.Format(elisp.NewString(l.Value)) }

func (d Deferred) String() string {
	params := make([]elisp.Node, len(d.Params))
	for i, p := range d.Params {
		params[i] = elisp.NewSymbol(p)
	}
	items := append([]elisp.Node{elisp.NewSymbol("lambda"), elisp.NewList(params...)}, d.Body...)
	return elisp.Format(elisp.NewList(items...))
}

func (r Reference) String() string {
	if r.Quoted {
		return "#'" + r.Name
	}
	return r.Name
}

func (e Expression) String() string { return elisp.Format(e.Node) }

// Descriptor is the parsed registration of one client.
type Descriptor struct {
	ServerID   string
	File       string
	Connection ConnectionType
	Command    CommandSpec

	// Definitions are the top-level defun, defalias, defvar, defcustom and
	// defconst forms of File, in source order.
	Definitions []elisp.Node
}

// Group is the customization group owning a client.
type Group struct {
	Name  string
	Links []string
}
