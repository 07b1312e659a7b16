package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var htmlTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{"counts": newCountTable}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

// HTMLWriter outputs a standalone HTML page. Comment bodies are rendered as
// sanitized markdown next to the diff they were left on.
type HTMLWriter struct {
	opts Options
}

type htmlPage struct {
	Title    string
	Analyses []htmlAnalysis
}

type htmlAnalysis struct {
	Heading     string
	RunID       string
	GeneratedAt string
	ExcludeBots bool
	Total       int
	Rate        string
	Summary     model.AnalysisSummary
	Samples     []htmlComment
}

type htmlComment struct {
	PRNumber   int
	Path       string
	Line       int
	Reviewer   string
	Kind       string
	KindClass  string
	Categories []string
	Hunk       template.HTML
	Body       template.HTML
}

type countTable struct {
	Label string
	Rows  []model.Count
}

func newCountTable(label string, rows []model.Count) countTable {
	return countTable{Label: label, Rows: rows}
}

func (h *HTMLWriter) Write(w io.Writer, a *model.Analysis) error {
	return h.render(w, htmlPage{
		Title:    "Review Comment Analysis: " + a.Repo,
		Analyses: []htmlAnalysis{h.analysis(a)},
	})
}

// WriteComparison puts both analyses on one page.
func (h *HTMLWriter) WriteComparison(w io.Writer, withBots, humanOnly *model.Analysis) error {
	return h.render(w, htmlPage{
		Title:    "Review Comment Comparison: " + withBots.Repo,
		Analyses: []htmlAnalysis{h.analysis(withBots), h.analysis(humanOnly)},
	})
}

func (h *HTMLWriter) render(w io.Writer, page htmlPage) error {
	if err := htmlTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

func (h *HTMLWriter) analysis(a *model.Analysis) htmlAnalysis {
	samples := sampleComments(a, h.opts.samples())

	view := htmlAnalysis{
		Heading:     analysisTitle(a),
		RunID:       a.RunID,
		GeneratedAt: a.GeneratedAt.Format(time.RFC3339),
		ExcludeBots: a.ExcludeBots,
		Total:       a.TotalComments,
		Rate:        formatRate(a.Summary.ActionableRate),
		Summary:     a.Summary,
		Samples:     make([]htmlComment, 0, len(samples)),
	}

	for _, cc := range samples {
		c := cc.Comment
		line := 0
		if c.Line != nil {
			line = *c.Line
		}

		kind := authorKind(cc)
		view.Samples = append(view.Samples, htmlComment{
			PRNumber:   c.PRNumber,
			Path:       c.Path,
			Line:       line,
			Reviewer:   c.Reviewer.Login,
			Kind:       kind,
			KindClass:  strings.ToLower(kind),
			Categories: categoryNames(cc.Categories),
			Hunk:       renderHunk(c.DiffHunk),
			Body:       renderBody(c.Body),
		})
	}

	return view
}
