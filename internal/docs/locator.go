// Package docs reads install commands from the "Supported languages" table
// of the lsp-mode README.
package docs

import (
	"bufio"
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/logging"
	"github.com/thoreinstein/lspinstall/pkg/fileutil"
)

var (
	sectionPattern = regexp.MustCompile(`^\*+\s+Supported languages`)
	headingPattern = regexp.MustCompile(`^\*+\s`)
	columnPattern  = regexp.MustCompile(`(?i)install|command`)
	separatorRow   = regexp.MustCompile(`^\|[-+|\s]*$`)
)

// Row is one data row of the table.
type Row struct {
	// Line is the 1-based line number in the documentation file.
	Line  int
	Cells []string
}

// Table is the parsed "Supported languages" table.
type Table struct {
	Header []string
	Rows   []Row

	// InstallColumn is the index of the install command column.
	InstallColumn int
}

// Locator finds install commands in a documentation file.
type Locator struct {
	path   string
	logger *slog.Logger
}

// NewLocator creates a Locator reading the org file at path.
func NewLocator(path string) *Locator {
	return NewLocatorWithLogger(path, logging.Default())
}

// NewLocatorWithLogger creates a Locator with the given logger.
func NewLocatorWithLogger(path string, logger *slog.Logger) *Locator {
	return &Locator{path: path, logger: logger}
}

// Path returns the documentation file location.
func (l *Locator) Path() string {
	return l.path
}

// FindInstallCommand returns the install command of the first row that
// mentions executable. Every failure is marked with errors.ErrNotFound.
func (l *Locator) FindInstallCommand(executable string) (string, error) {
	if executable == "" {
		return "", notFound(errors.New("empty executable name"))
	}
	table, err := l.Table()
	if err != nil {
		return "", err
	}
	row, ok := table.Find(executable)
	if !ok {
		return "", notFound(errors.Newf("no row for %s in %s", executable, l.path))
	}
	if table.InstallColumn >= len(row.Cells) {
		return "", notFound(errors.Newf("row for %s at line %d has no install column", executable, row.Line))
	}
	cmd := cleanCell(row.Cells[table.InstallColumn])
	if cmd == "" {
		return "", notFound(errors.Newf("row for %s at line %d has no install command", executable, row.Line))
	}
	l.logger.Debug("found install command", "executable", executable, "line", row.Line, "command", cmd)
	return cmd, nil
}

// Table reads and parses the documentation table.
func (l *Locator) Table() (*Table, error) {
	data, err := fileutil.ReadFileWithLimit(l.path)
	if err != nil {
		return nil, notFound(errors.Wrap(err, "reading documentation"))
	}
	table, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", l.path)
	}
	return table, nil
}

// Find returns the first row containing executable in any cell.
func (t *Table) Find(executable string) (Row, bool) {
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			if strings.Contains(c, executable) {
				return r, true
			}
		}
	}
	return Row{}, false
}

// Parse extracts the first table below the "Supported languages" heading.
func Parse(data []byte) (*Table, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), fileutil.MaxFileSize)

	var (
		line      int
		inSection bool
		lines     []Row
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if !inSection {
			inSection = sectionPattern.MatchString(text)
			continue
		}
		if headingPattern.MatchString(text) {
			break
		}
		if strings.HasPrefix(text, "|") {
			lines = append(lines, Row{Line: line, Cells: []string{text}})
			continue
		}
		if len(lines) > 0 {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, notFound(errors.Wrap(err, "scanning documentation"))
	}
	if !inSection {
		return nil, notFound(errors.New("no Supported languages section"))
	}
	if len(lines) == 0 {
		return nil, notFound(errors.New("no table under Supported languages"))
	}
	return buildTable(lines), nil
}

func buildTable(lines []Row) *Table {
	t := &Table{InstallColumn: -1}
	for i, l := range lines {
		text := l.Cells[0]
		if separatorRow.MatchString(text) {
			continue
		}
		cells := splitRow(text)
		if i == 0 && len(lines) > 1 && separatorRow.MatchString(lines[1].Cells[0]) {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, Row{Line: l.Line, Cells: cells})
	}

	for i, h := range t.Header {
		if columnPattern.MatchString(h) {
			t.InstallColumn = i
			break
		}
	}
	if t.InstallColumn < 0 {
		width := len(t.Header)
		for _, r := range t.Rows {
			width = max(width, len(r.Cells))
		}
		t.InstallColumn = width - 1
	}
	return t
}

func splitRow(text string) []string {
	text = strings.TrimPrefix(text, "|")
	text = strings.TrimSuffix(text, "|")
	parts := strings.Split(text, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// cleanCell trims a cell and removes org ~code~ and =verbatim= markers
// wrapping the whole text.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	for _, m := range []string{"~", "="} {
		if len(s) >= 2 && strings.HasPrefix(s, m) && strings.HasSuffix(s, m) {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

func notFound(err error) error {
	return errors.Mark(err, errors.ErrNotFound)
}
