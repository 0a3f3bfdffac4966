// Package library maps client server ids to the module files that register
// them.
package library

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/logging"
	"github.com/thoreinstein/lspinstall/pkg/fileutil"
)

// DefaultPatterns are the client module globs below the lsp-mode directory.
var DefaultPatterns = []string{
	"clients/lsp-*.el",
	"lsp-*.el",
}

// serverIDPattern matches a server id declaration such as :server-id 'pyls.
var serverIDPattern = regexp.MustCompile(`:server-id\s+'([^\s()\[\]"';]+)`)

// Options configures an Index.
type Options struct {
	// BaseDir is the lsp-mode directory the patterns are relative to.
	BaseDir string

	// Patterns are doublestar globs relative to BaseDir. Defaults to
	// DefaultPatterns when empty.
	Patterns []string

	// Registry supplies additional modules. May be nil.
	Registry GroupRegistry

	// Status receives progress messages. Defaults to io.Discard.
	Status io.Writer

	// Logger receives scan diagnostics. Defaults to logging.Default().
	Logger *slog.Logger
}

// Index is a lazily built cache of server id to module file. It is built
// on the first Get and kept until Invalidate.
type Index struct {
	opts    Options
	logger  *slog.Logger
	entries map[string]string
	files   []string
}

// NewIndex creates an empty Index. Nothing is scanned until first use.
func NewIndex(opts Options) *Index {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns
	}
	if opts.Status == nil {
		opts.Status = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Index{opts: opts, logger: logger}
}

// Build scans every module and replaces the cached entries. The cache is
// only replaced once the scan has completed.
func (i *Index) Build() (map[string]string, error) {
	fmt.Fprintln(i.opts.Status, "Indexing client modules...")

	files, err := i.collectFiles()
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string)
	for _, file := range files {
		data, err := fileutil.ReadFileWithLimit(file)
		if err != nil {
			i.logger.Warn("skipping client module",
				"file", file,
				"error", errors.Mark(err, errors.ErrIndexUnavailable))
			continue
		}
		for _, m := range serverIDPattern.FindAllSubmatch(data, -1) {
			id := string(m[1])
			if prev, ok := entries[id]; ok {
				if prev != file {
					i.logger.Debug("duplicate server id ignored", "id", id, "file", file, "kept", prev)
				}
				continue
			}
			entries[id] = file
		}
	}

	i.entries = entries
	i.files = files
	fmt.Fprintf(i.opts.Status, "Indexed %d clients from %d modules\n", len(entries), len(files))
	i.logger.Debug("client index built", "clients", len(entries), "modules", len(files))
	return entries, nil
}

// Get returns the cached entries, building them on first use.
func (i *Index) Get() (map[string]string, error) {
	if i.entries != nil {
		return i.entries, nil
	}
	return i.Build()
}

// Invalidate drops the cached entries so the next Get re-scans.
func (i *Index) Invalidate() {
	i.entries = nil
	i.files = nil
}

// Lookup returns the module file registering id.
func (i *Index) Lookup(id string) (string, bool, error) {
	entries, err := i.Get()
	if err != nil {
		return "", false, err
	}
	file, ok := entries[id]
	return file, ok, nil
}

// IDs returns every indexed server id in sorted order.
func (i *Index) IDs() ([]string, error) {
	entries, err := i.Get()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Files returns the modules scanned by the last build.
func (i *Index) Files() []string {
	return i.files
}

// collectFiles merges the base globs with the registry modules, dropping
// paths that refer to a file already seen.
func (i *Index) collectFiles() ([]string, error) {
	var candidates []string

	if i.opts.BaseDir != "" {
		fsys := os.DirFS(i.opts.BaseDir)
		for _, pattern := range i.opts.Patterns {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Wrapf(err, "invalid client module pattern %q", pattern)
			}
			sort.Strings(matches)
			for _, m := range matches {
				candidates = append(candidates, filepath.Join(i.opts.BaseDir, filepath.FromSlash(m)))
			}
		}
	}

	if i.opts.Registry != nil {
		for _, group := range i.opts.Registry.Groups() {
			path, err := i.opts.Registry.Locate(group)
			if err != nil {
				i.logger.Warn("skipping configuration group",
					"group", group,
					"error", errors.Mark(err, errors.ErrIndexUnavailable))
				continue
			}
			candidates = append(candidates, path)
		}
	}

	var (
		files []string
		seen  []os.FileInfo
	)
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			i.logger.Warn("skipping client module",
				"file", path,
				"error", errors.Mark(err, errors.ErrIndexUnavailable))
			continue
		}
		if sameAsAny(info, seen) {
			i.logger.Debug("duplicate client module ignored", "file", path)
			continue
		}
		seen = append(seen, info)
		files = append(files, path)
	}
	return files, nil
}

func sameAsAny(info os.FileInfo, seen []os.FileInfo) bool {
	for _, s := range seen {
		if os.SameFile(info, s) {
			return true
		}
	}
	return false
}
