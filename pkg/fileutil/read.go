// Package fileutil reads the text files lspinstall indexes.
package fileutil

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/thoreinstein/lspinstall/internal/errors"
)

// MaxFileSize is the largest client module or documentation file read (4MB).
// lsp-mode.el itself is well under 1MB.
const MaxFileSize = 4 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a whole file, refusing files above MaxFileSize.
// The file handle is closed before returning on every path.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// IsNotExist reports whether err, however wrapped, means the file is missing.
func IsNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
