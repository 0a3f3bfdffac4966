package paths

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used below the XDG base directories.
const AppName = "lspinstall"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrLSPDirNotFound indicates no lsp-mode checkout was found in the
	// usual Emacs package locations.
	ErrLSPDirNotFound = errors.New("lsp-mode directory not found")
)

// lspDirPatterns are searched in order below the home directory. Within one
// pattern the lexically greatest match wins, which for package.el directories
// (lsp-mode-YYYYMMDD.NNNN) is the newest install.
var lspDirPatterns = []string{
	".emacs.d/elpa/lsp-mode-*",
	".config/emacs/elpa/lsp-mode-*",
	".emacs.d/straight/repos/lsp-mode",
	".config/emacs/.local/straight/repos/lsp-mode",
	".emacs.d/.local/straight/repos/lsp-mode",
}

// Home returns the user's home directory, or "" when it cannot be determined.
// Use ResolveHome when the error matters.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns <ConfigHome>/lspinstall, where config.yaml lives.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// DiscoverLSPDir locates an lsp-mode checkout below the home directory.
func DiscoverLSPDir() (string, error) {
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return discoverLSPDir(home)
}

func discoverLSPDir(root string) (string, error) {
	fsys := os.DirFS(root)
	for _, pattern := range lspDirPatterns {
		dirs, err := globDirs(fsys, pattern)
		if err != nil {
			return "", err
		}
		if len(dirs) > 0 {
			sort.Strings(dirs)
			return filepath.Join(root, filepath.FromSlash(dirs[len(dirs)-1])), nil
		}
	}
	return "", errors.Wrapf(ErrLSPDirNotFound, "searched below %s", root)
}

func globDirs(fsys fs.FS, pattern string) ([]string, error) {
	var dirs []string
	err := doublestar.GlobWalk(fsys, pattern, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "globbing %s", pattern)
	}
	return dirs, nil
}
