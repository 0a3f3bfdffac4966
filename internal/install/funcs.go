package install

import (
	"sort"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/thoreinstein/lspinstall/internal/errors"
)

// InstallFunc builds the shell command for a (function NAME ARG...) spec.
type InstallFunc func(args []string) (string, error)

// Funcs are the install functions available to function specs.
var Funcs = map[string]InstallFunc{
	"go-install":    goInstall,
	"pip-install":   toolInstall("python3", "-m", "pip", "install", "--user"),
	"cargo-install": toolInstall("cargo", "install"),
	"gem-install":   toolInstall("gem", "install"),
	"dotnet-tool":   toolInstall("dotnet", "tool", "install", "--global"),
}

// FuncNames returns the registered install function names in sorted order.
func FuncNames() []string {
	names := make([]string, 0, len(Funcs))
	for n := range Funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CommandFor builds the shell command of a function spec.
func CommandFor(spec FunctionSpec) (string, error) {
	fn, ok := Funcs[spec.Name]
	if !ok {
		return "", errors.Mark(
			errors.Newf("unknown install function %q (known: %s)", spec.Name, strings.Join(FuncNames(), ", ")),
			errors.ErrUnsupportedSpec)
	}
	return fn(spec.Args)
}

func goInstall(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("go-install needs a module path")
	}
	pkgs := make([]string, len(args))
	for i, a := range args {
		if !strings.Contains(a, "@") {
			a += "@latest"
		}
		pkgs[i] = a
	}
	return joinCommand([]string{"go", "install"}, pkgs)
}

func toolInstall(prefix ...string) InstallFunc {
	return func(args []string) (string, error) {
		if len(args) == 0 {
			return "", errors.Newf("%s needs at least one package", prefix[0])
		}
		return joinCommand(prefix, args)
	}
}

// joinCommand quotes args for a POSIX shell and appends them to prefix.
func joinCommand(prefix, args []string) (string, error) {
	words := append([]string(nil), prefix...)
	for _, a := range args {
		q, err := syntax.Quote(a, syntax.LangPOSIX)
		if err != nil {
			return "", errors.Wrapf(err, "quoting %q", a)
		}
		words = append(words, q)
	}
	return strings.Join(words, " "), nil
}
