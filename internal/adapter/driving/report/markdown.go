package report

import (
	"io"
	"strings"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// MarkdownWriter outputs a report suitable for pasting into an issue or PR.
type MarkdownWriter struct {
	opts Options
}

func (m *MarkdownWriter) Write(w io.Writer, a *model.Analysis) error {
	ew := &errWriter{w: w}
	s := a.Summary

	ew.printf("## Review Comment Analysis: %s\n\n", a.Repo)
	if a.ExcludeBots {
		ew.printf("_Human reviewers only. %d bot comments excluded._\n\n", s.ExcludedBots)
	}

	ew.printf("| Metric | Value |\n")
	ew.printf("|--------|-------|\n")
	ew.printf("| Total comments | %d |\n", a.TotalComments)
	ew.printf("| After filtering | %d |\n", s.FilteredCount)
	ew.printf("| Actionable comments | %d |\n", s.ActionableCount)
	ew.printf("| Actionable rate | %s |\n", formatRate(s.ActionableRate))
	ew.printf("| Bot comments | %d |\n", s.BotComments)
	ew.printf("| Human comments | %d |\n", s.HumanComments)
	ew.printf("| Actionable bot comments | %d |\n", s.ActionableBots)
	ew.printf("| Actionable human comments | %d |\n\n", s.ActionableHumans)

	m.countTable(ew, "Category", s.ByCategory)
	m.countTable(ew, "Language", s.ByLanguage)

	samples := sampleComments(a, m.opts.samples())
	if len(samples) == 0 {
		return ew.err
	}

	ew.printf("### Sample Actionable Comments (first %d)\n\n", len(samples))
	for i, cc := range samples {
		c := cc.Comment
		ew.printf("%d. **PR #%d** `%s` by %s (%s)", i+1, c.PRNumber, c.Path, c.Reviewer.Login, authorKind(cc))
		ew.printf(" | %s\n\n", strings.Join(categoryNames(cc.Categories), ", "))

		body, cut := preview(c.Body)
		ew.printf("   > %s", strings.ReplaceAll(body, "\n", "\n   > "))
		if cut > 0 {
			ew.printf("... _%s_", moreChars(cut))
		}
		ew.printf("\n\n")
	}

	return ew.err
}

func (m *MarkdownWriter) countTable(ew *errWriter, label string, counts []model.Count) {
	ew.printf("### Actionable Comments by %s\n\n", label)
	if len(counts) == 0 {
		ew.printf("_None._\n\n")
		return
	}

	ew.printf("| %s | Count |\n", label)
	ew.printf("|%s|-------|\n", strings.Repeat("-", len(label)+2))
	for _, c := range counts {
		ew.printf("| %s | %d |\n", mdCell(c.Name), c.Count)
	}
	ew.printf("\n")
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
