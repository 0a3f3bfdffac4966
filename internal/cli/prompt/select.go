// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/lspinstall/internal/errors"
	"github.com/thoreinstein/lspinstall/internal/logging"
)

// Sentinel errors for server selection.
var (
	ErrNoServers          = errors.New("no servers to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// FindFunc picks one of n items interactively. label renders item i and
// preview renders the detail pane for it.
type FindFunc func(n int, label, preview func(i int) string) (int, error)

// Selector handles interactive server-id selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer

	// find is nil when no terminal is attached; the numbered list is
	// used instead.
	find FindFunc
}

// NewSelector creates a Selector using stdin and stdout. The fuzzy finder is
// used when both are terminals.
func NewSelector() *Selector {
	s := &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
	if logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout) {
		s.find = fuzzyFind
	}
	return s
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
// It always uses the numbered list.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// WithFinder replaces the interactive finder.
func (s *Selector) WithFinder(find FindFunc) *Selector {
	s.find = find
	return s
}

// SelectServer prompts the user to choose one of ids. describe, when not
// nil, supplies the preview text for an id.
//
// Returns:
//   - ErrNoServers if the list is empty
//   - The id if only one exists (auto-selects without prompting)
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF or the finder was aborted
func (s *Selector) SelectServer(ids []string, describe func(id string) string) (string, error) {
	if len(ids) == 0 {
		return "", ErrNoServers
	}
	if len(ids) == 1 {
		return ids[0], nil
	}
	if s.find != nil {
		return s.selectFuzzy(ids, describe)
	}
	return s.selectNumbered(ids)
}

func (s *Selector) selectFuzzy(ids []string, describe func(string) string) (string, error) {
	preview := func(i int) string {
		if describe == nil {
			return ids[i]
		}
		return describe(ids[i])
	}
	idx, err := s.find(len(ids), func(i int) string { return ids[i] }, preview)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}
	if idx < 0 || idx >= len(ids) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range", idx)
	}
	return ids[idx], nil
}

func (s *Selector) selectNumbered(ids []string) (string, error) {
	fmt.Fprintln(s.writer, "Available servers:")
	for i, id := range ids {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, id)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return ids[0], nil
	}

	// A typed id is accepted as well as its number.
	for _, id := range ids {
		if input == id {
			return id, nil
		}
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSelection, "%q is not a number or server id", input)
	}
	if selection < 1 || selection > len(ids) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(ids))
	}
	return ids[selection-1], nil
}

func fuzzyFind(n int, label, preview func(i int) string) (int, error) {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return fuzzyfinder.Find(
		items,
		label,
		fuzzyfinder.WithPromptString("server> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return preview(i)
		}),
	)
}
