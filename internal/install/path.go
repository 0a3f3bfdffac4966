package install

import (
	"path/filepath"
	"strings"
)

// LooksLikePath reports whether an executable name is a path rather than a
// bare command name, e.g. "~/.cargo/bin/rls" or "./node_modules/.bin/x".
func LooksLikePath(name string) bool {
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") ||
		strings.HasPrefix(name, "/") || strings.HasPrefix(name, "~/") {
		return true
	}
	if strings.Contains(name, string(filepath.Separator)) {
		return true
	}
	// On Windows, also check for forward slashes
	if filepath.Separator != '/' && strings.Contains(name, "/") {
		return true
	}
	return false
}

// CommandName returns the bare command of an executable name, stripping any
// directory and a Windows .exe suffix.
func CommandName(name string) string {
	if !LooksLikePath(name) {
		return name
	}
	base := filepath.Base(filepath.FromSlash(name))
	return strings.TrimSuffix(base, ".exe")
}
