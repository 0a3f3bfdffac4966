package library

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/thoreinstein/lspinstall/internal/errors"
)

// GroupRegistry discovers client modules beyond the static base set. Each
// group names a feature library that may register clients.
type GroupRegistry interface {
	// Groups returns the group names known to the registry.
	Groups() []string

	// Locate returns the file that defines group.
	Locate(group string) (string, error)
}

// LoadPathRegistry locates "<group>.el" along an ordered load path, the
// way Emacs resolves (require 'group).
type LoadPathRegistry struct {
	groups   []string
	loadPath []string
}

// NewLoadPathRegistry creates a registry for groups searched in loadPath.
func NewLoadPathRegistry(groups, loadPath []string) *LoadPathRegistry {
	return &LoadPathRegistry{
		groups:   slices.Clone(groups),
		loadPath: slices.Clone(loadPath),
	}
}

// Groups returns the configured group names.
func (r *LoadPathRegistry) Groups() []string {
	return slices.Clone(r.groups)
}

// Locate returns the first regular file named group+".el" on the load path.
func (r *LoadPathRegistry) Locate(group string) (string, error) {
	for _, dir := range r.loadPath {
		p := filepath.Join(dir, group+".el")
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", errors.Newf("library %s not found on load path", group)
}
