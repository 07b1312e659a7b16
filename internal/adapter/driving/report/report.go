package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// DefaultSamples is the number of actionable comments shown by the
// human-oriented formats.
const DefaultSamples = 5

// Writer writes an analysis in a specific format.
type Writer interface {
	Write(w io.Writer, a *model.Analysis) error
}

// ComparisonWriter is implemented by formats that render a with-bots and a
// human-only analysis as a single document.
type ComparisonWriter interface {
	WriteComparison(w io.Writer, withBots, humanOnly *model.Analysis) error
}

// Options tunes the rendered output.
type Options struct {
	// Samples is the number of actionable comments listed by text, markdown
	// and html output. Zero uses DefaultSamples; negative lists none.
	Samples int
	// IncludeFiltered adds every classified comment to json and yaml output.
	IncludeFiltered bool
}

func (o Options) samples() int {
	if o.Samples == 0 {
		return DefaultSamples
	}
	if o.Samples < 0 {
		return 0
	}
	return o.Samples
}

var formats = map[string]func(Options) Writer{
	"text":     func(o Options) Writer { return &TextWriter{opts: o} },
	"json":     func(o Options) Writer { return &JSONWriter{opts: o} },
	"yaml":     func(o Options) Writer { return &YAMLWriter{opts: o} },
	"markdown": func(o Options) Writer { return &MarkdownWriter{opts: o} },
	"html":     func(o Options) Writer { return &HTMLWriter{opts: o} },
}

// Formats returns the supported format names in alphabetical order.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string, opts Options) (Writer, error) {
	newWriter, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return newWriter(opts), nil
}

// WriteComparison renders both analyses with writer. Formats without a
// combined document write the two reports one after the other.
func WriteComparison(w io.Writer, writer Writer, withBots, humanOnly *model.Analysis) error {
	if cw, ok := writer.(ComparisonWriter); ok {
		return cw.WriteComparison(w, withBots, humanOnly)
	}

	if err := writer.Write(w, withBots); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n\n"); err != nil {
		return err
	}
	return writer.Write(w, humanOnly)
}

// OpenOutput returns the destination for a report: the named file, or
// fallback when path is empty. The returned close function is always non-nil.
func OpenOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

// bodyPreviewRunes is how much of a comment body the sample listings show.
const bodyPreviewRunes = 150

// preview truncates body to bodyPreviewRunes runes and reports how many
// runes were cut.
func preview(body string) (string, int) {
	runes := []rune(body)
	if len(runes) <= bodyPreviewRunes {
		return body, 0
	}
	return string(runes[:bodyPreviewRunes]), len(runes) - bodyPreviewRunes
}

func sampleComments(a *model.Analysis, n int) []model.ClassifiedComment {
	if n > len(a.Actionable) {
		n = len(a.Actionable)
	}
	return a.Actionable[:n]
}

func authorKind(cc model.ClassifiedComment) string {
	if cc.IsBot {
		return "BOT"
	}
	return "HUMAN"
}

func categoryNames(cats []model.Category) []string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

func analysisTitle(a *model.Analysis) string {
	if a.ExcludeBots {
		return "ANALYSIS WITHOUT BOTS (HUMAN ONLY): " + a.Repo
	}
	return "ANALYSIS WITH BOTS: " + a.Repo
}

func sampleHeading(n int) string {
	return fmt.Sprintf("=== Sample Actionable Comments (first %d) ===", n)
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

func moreChars(n int) string {
	return fmt.Sprintf("(...%d more chars)", n)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
