package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thoreinstein/lspinstall/internal/errors"
)

// Confirmer asks yes/no questions. The default answer is no.
type Confirmer struct {
	reader    io.Reader
	writer    io.Writer
	assumeYes bool
}

// NewConfirmer creates a Confirmer using stdin and stdout. With assumeYes
// every question is answered yes without reading input.
func NewConfirmer(assumeYes bool) *Confirmer {
	return &Confirmer{
		reader:    os.Stdin,
		writer:    os.Stdout,
		assumeYes: assumeYes,
	}
}

// NewConfirmerWithIO creates a Confirmer with custom reader and writer for testing.
func NewConfirmerWithIO(r io.Reader, w io.Writer, assumeYes bool) *Confirmer {
	return &Confirmer{
		reader:    r,
		writer:    w,
		assumeYes: assumeYes,
	}
}

// Confirm prints question and reports whether the user answered yes.
// EOF counts as no.
func (c *Confirmer) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.writer, "%s [y/N]: ", question)
	if c.assumeYes {
		fmt.Fprintln(c.writer, "y")
		return true, nil
	}

	input, err := bufio.NewReader(c.reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, errors.Wrap(err, "reading answer")
	}
	if err != nil {
		fmt.Fprintln(c.writer)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
