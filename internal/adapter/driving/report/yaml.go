package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// YAMLWriter outputs the analysis as YAML using the same document shape as
// JSONWriter.
type YAMLWriter struct {
	opts Options
}

func (y *YAMLWriter) Write(w io.Writer, a *model.Analysis) error {
	return writeYAML(w, NewDocument(a, y.opts.IncludeFiltered))
}

// WriteComparison outputs both analyses as one ComparisonDoc.
func (y *YAMLWriter) WriteComparison(w io.Writer, withBots, humanOnly *model.Analysis) error {
	return writeYAML(w, ComparisonDoc{
		WithBots:  NewDocument(withBots, y.opts.IncludeFiltered),
		HumanOnly: NewDocument(humanOnly, y.opts.IncludeFiltered),
	})
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
