package status

import (
	"fmt"
	"io"
	"sync"
)

// Theme holds the markers the Writer prints in front of each line.
type Theme struct {
	SuccessPrefix string
	ErrorPrefix   string
}

// DefaultTheme uses plain ASCII markers.
var DefaultTheme = Theme{SuccessPrefix: "[ok]", ErrorPrefix: "[!!]"}

// Writer prints one line per status to an io.Writer.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	theme Theme
	err   error
}

// NewWriter creates a Writer. A zero theme falls back to DefaultTheme.
func NewWriter(out io.Writer, theme Theme) *Writer {
	if theme == (Theme{}) {
		theme = DefaultTheme
	}
	return &Writer{out: out, theme: theme}
}

// Status writes "<prefix> <name>: <text>".
func (w *Writer) Status(name string, valid bool, message string) {
	prefix, text := w.theme.ErrorPrefix, message
	if valid {
		prefix, text = w.theme.SuccessPrefix, SuccessText
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, "%s %s: %s\n", prefix, name, text)
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
