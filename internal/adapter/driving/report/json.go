package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// JSONWriter outputs the analysis as an indented JSON document.
type JSONWriter struct {
	opts Options
}

func (j *JSONWriter) Write(w io.Writer, a *model.Analysis) error {
	return writeJSON(w, NewDocument(a, j.opts.IncludeFiltered))
}

// WriteComparison outputs both analyses as one ComparisonDoc.
func (j *JSONWriter) WriteComparison(w io.Writer, withBots, humanOnly *model.Analysis) error {
	return writeJSON(w, ComparisonDoc{
		WithBots:  NewDocument(withBots, j.opts.IncludeFiltered),
		HumanOnly: NewDocument(humanOnly, j.opts.IncludeFiltered),
	})
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
