// Package output renders search results and status messages for the
// CLI. Styling is applied only when writing to a terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/docdex/docdex/internal/search"
)

// maxSnippetLen bounds how much chunk text a result row shows.
const maxSnippetLen = 300

// Writer renders CLI output.
type Writer struct {
	out     io.Writer
	styled  bool
	heading lipgloss.Style
	score   lipgloss.Style
	link    lipgloss.Style
	dim     lipgloss.Style
	errMark lipgloss.Style
}

// New creates a Writer. Styles activate when out is a terminal.
func New(out io.Writer) *Writer {
	w := &Writer{out: out, styled: isTerminal(out)}
	if w.styled {
		w.heading = lipgloss.NewStyle().Bold(true)
		w.score = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		w.link = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
		w.dim = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		w.errMark = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	}
	return w
}

// Results renders a ranked result list.
func (w *Writer) Results(query string, results []search.Result) {
	if len(results) == 0 {
		w.printf("%s\n", w.render(w.dim, fmt.Sprintf("no results for %q", query)))
		return
	}

	for i, r := range results {
		title := r.Heading
		if title == "" {
			title = r.DocumentID
		}
		w.printf("%s %s  %s\n",
			w.render(w.dim, fmt.Sprintf("%2d.", i+1)),
			w.render(w.heading, title),
			w.render(w.score, fmt.Sprintf("(%.4f)", r.Score)))

		if snippet := snippet(r.Text); snippet != "" {
			w.printf("    %s\n", snippet)
		}
		if r.SourceLink != "" {
			w.printf("    %s\n", w.render(w.link, r.SourceLink))
		}
		w.printf("\n")
	}
}

// Stats renders index statistics.
func (w *Writer) Stats(stats *search.Stats) {
	if stats == nil {
		w.printf("%s\n", w.render(w.dim, "no index built"))
		return
	}
	w.printf("%s\n", w.render(w.heading, "index status"))
	w.printf("  documents:  %d\n", stats.Documents)
	w.printf("  chunks:     %d\n", stats.Chunks)
	w.printf("  terms:      %d\n", stats.Terms)
	w.printf("  dimensions: %d\n", stats.Dimensions)
	w.printf("  model:      %s\n", stats.Model)
	w.printf("  built at:   %s\n", stats.BuiltAt.Format("2006-01-02 15:04:05"))
}

// Error renders an error message.
func (w *Writer) Error(err error) {
	w.printf("%s %v\n", w.render(w.errMark, "error:"), err)
}

// Info renders a plain status line.
func (w *Writer) Info(format string, args ...any) {
	w.printf(format+"\n", args...)
}

func (w *Writer) render(style lipgloss.Style, s string) string {
	if !w.styled {
		return s
	}
	return style.Render(s)
}

func (w *Writer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}

// snippet collapses whitespace and truncates long chunk text.
func snippet(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if len(collapsed) <= maxSnippetLen {
		return collapsed
	}
	return collapsed[:maxSnippetLen] + "…"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
