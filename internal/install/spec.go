package install

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lspinstall/internal/elisp"
	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/pkg/fileutil"
)

// Spec is a user-configured install specification for one server id:
// NpmSpec, FunctionSpec, ErrorSpec or ShellSpec.
type Spec interface {
	spec()

	// String renders the spec in its Lisp form.
	String() string
}

// NpmSpec is (npm PACKAGE...).
type NpmSpec struct {
	Packages []string `json:"packages" yaml:"packages"`
}

// FunctionSpec is (function NAME ARG...), naming an install function.
type FunctionSpec struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// ErrorSpec is (error MESSAGE): the server cannot be installed automatically.
type ErrorSpec struct {
	Message string `json:"message" yaml:"message"`
}

// ShellSpec is (shell COMMAND).
type ShellSpec struct {
	Command string `json:"command" yaml:"command"`
}

func (NpmSpec) spec()      {}
func (FunctionSpec) spec() {}
func (ErrorSpec) spec()    {}
func (ShellSpec) spec()    {}

func lispForm(head string, args ...string) string {
	items := []elisp.Node{elisp.NewSymbol(head)}
	for _, a := range args {
		items = append(items, elisp.NewString(a))
	}
	return elisp.Format(elisp.NewList(items...))
}

func (s NpmSpec) String() string { return lispForm("npm", s.Packages...) }

func (s FunctionSpec) String() string {
	items := []elisp.Node{elisp.NewSymbol("function"), elisp.NewSymbol(s.Name)}
	for _, a := range s.Args {
		items = append(items, elisp.NewString(a))
	}
	return elisp.Format(elisp.NewList(items...))
}

func (s ErrorSpec) String() string { return lispForm("error", s.Message) }
func (s ShellSpec) String() string { return lispForm("shell", s.Command) }

// Specs maps server ids to unparsed specifications. Entries are parsed on
// lookup so that one malformed entry only affects its own server.
type Specs map[string]any

// Lookup returns the parsed spec of id. ok is false when id has no spec.
// Keys from the config file arrive lowercased, so a lowercase key matches
// when id has none of its own.
func (s Specs) Lookup(id string) (spec Spec, ok bool, err error) {
	raw, found := s[id]
	if !found {
		raw, found = s[strings.ToLower(id)]
	}
	if !found {
		return nil, false, nil
	}
	spec, err = ParseSpec(raw)
	if err != nil {
		return nil, true, errors.Wrapf(err, "install spec for %s", id)
	}
	return spec, true, nil
}

// IDs returns the configured server ids in sorted order.
func (s Specs) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Merge returns a copy of s with the entries of other added; other wins on
// conflicts.
func (s Specs) Merge(other Specs) Specs {
	out := make(Specs, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

func unsupported(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrUnsupportedSpec)
}

// ParseSpec parses a spec written as a Lisp form string, such as
// `(npm "pyright")`, or as a single-key map such as {npm: [pyright]}.
// Unknown shapes are marked with errors.ErrUnsupportedSpec.
func ParseSpec(raw any) (Spec, error) {
	switch v := raw.(type) {
	case Spec:
		return v, nil
	case string:
		return parseLispSpec(v)
	case map[string]any:
		return parseMapSpec(v)
	}
	return nil, unsupported("unsupported install spec of type %T", raw)
}

func parseLispSpec(src string) (Spec, error) {
	n, err := elisp.Parse(src)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing install spec %q", src), errors.ErrUnsupportedSpec)
	}
	if inner, ok := elisp.Unquote(n); ok {
		n = inner
	}
	l, ok := n.(*elisp.List)
	if !ok || l.Tail != nil || len(l.Items) < 2 {
		return nil, unsupported("unsupported install spec %s", src)
	}
	head := elisp.Head(l)
	args := l.Items[1:]

	switch head {
	case "npm":
		pkgs, err := stringArgs(args)
		if err != nil {
			return nil, err
		}
		return NpmSpec{Packages: pkgs}, nil
	case "error", "shell":
		strs, err := stringArgs(args)
		if err != nil {
			return nil, err
		}
		if len(strs) != 1 {
			return nil, unsupported("(%s ...) takes one string", head)
		}
		if head == "error" {
			return ErrorSpec{Message: strs[0]}, nil
		}
		return ShellSpec{Command: strs[0]}, nil
	case "function":
		target := args[0]
		if inner, ok := elisp.Unquote(target); ok {
			target = inner
		}
		name, ok := target.(*elisp.Symbol)
		if !ok {
			return nil, unsupported("function spec needs a function name, got %s", elisp.Format(target))
		}
		rest, err := stringArgs(args[1:])
		if err != nil {
			return nil, err
		}
		return FunctionSpec{Name: name.Name, Args: rest}, nil
	}
	return nil, unsupported("unsupported install spec kind %q", head)
}

func stringArgs(nodes []elisp.Node) ([]string, error) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, ok := n.(*elisp.String)
		if !ok {
			return nil, unsupported("expected a string, got %s", elisp.Format(n))
		}
		out = append(out, s.Value)
	}
	return out, nil
}

func parseMapSpec(m map[string]any) (Spec, error) {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, unsupported("install spec must have exactly one kind, got [%s]", strings.Join(keys, ", "))
	}
	for kind, v := range m {
		switch kind {
		case "npm":
			pkgs, err := stringList(v)
			if err != nil || len(pkgs) == 0 {
				return nil, unsupported("npm spec needs package names")
			}
			return NpmSpec{Packages: pkgs}, nil
		case "error":
			s, ok := v.(string)
			if !ok {
				return nil, unsupported("error spec needs a message")
			}
			return ErrorSpec{Message: s}, nil
		case "shell":
			s, ok := v.(string)
			if !ok || s == "" {
				return nil, unsupported("shell spec needs a command")
			}
			return ShellSpec{Command: s}, nil
		case "function":
			return parseFunctionMap(v)
		}
		return nil, unsupported("unsupported install spec kind %q", kind)
	}
	return nil, unsupported("empty install spec")
}

func parseFunctionMap(v any) (Spec, error) {
	switch f := v.(type) {
	case string:
		return FunctionSpec{Name: f}, nil
	case map[string]any:
		name, _ := f["name"].(string)
		if name == "" {
			return nil, unsupported("function spec needs a name")
		}
		var args []string
		if raw, ok := f["args"]; ok {
			var err error
			if args, err = stringList(raw); err != nil {
				return nil, unsupported("function spec args must be strings")
			}
		}
		return FunctionSpec{Name: name, Args: args}, nil
	}
	return nil, unsupported("function spec must be a name or a map")
}

func stringList(v any) ([]string, error) {
	switch x := v.(type) {
	case string:
		return strings.Fields(x), nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, errors.Newf("expected string, got %T", e)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.Newf("expected a list of strings, got %T", v)
}

// LoadSpecsFile reads a specs file mapping server ids to specs. Files
// ending in .toml are TOML; anything else is YAML.
func LoadSpecsFile(path string) (Specs, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading install specs")
	}

	raw := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing install specs %s", path)
	}
	return Specs(raw), nil
}

// Describe renders a spec for display, or the raw value if it does not parse.
func Describe(raw any) string {
	if s, err := ParseSpec(raw); err == nil {
		return s.String()
	}
	return fmt.Sprint(raw)
}
