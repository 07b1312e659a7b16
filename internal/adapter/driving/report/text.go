package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// TextWriter outputs a human-readable terminal report. Colors are used only
// when the destination is a terminal.
type TextWriter struct {
	opts Options
}

// textStyles holds the styles for one destination, since lipgloss detects
// color support per renderer.
type textStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	bot     lipgloss.Style
	human   lipgloss.Style
	muted   lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)

	return textStyles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Border(lipgloss.DoubleBorder(), true, false).
			Width(70),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		label:   r.NewStyle().Foreground(lipgloss.Color("252")),
		value:   r.NewStyle().Bold(true),
		bot:     r.NewStyle().Foreground(lipgloss.Color("214")),
		human:   r.NewStyle().Foreground(lipgloss.Color("42")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (t *TextWriter) Write(w io.Writer, a *model.Analysis) error {
	ew := &errWriter{w: w}
	s := newTextStyles(w)

	ew.println(s.title.Render(analysisTitle(a)))

	ew.printf("\n%s\n", s.section.Render("=== Comment Analysis ==="))
	t.stat(ew, s, "Total comments", a.TotalComments)
	t.stat(ew, s, "After filtering", a.Summary.FilteredCount)
	if a.ExcludeBots {
		t.stat(ew, s, "Excluded bot comments", a.Summary.ExcludedBots)
	}
	t.stat(ew, s, "Actionable comments", a.Summary.ActionableCount)
	ew.printf("%s %s\n", s.label.Render("Actionable rate:"), s.value.Render(formatRate(a.Summary.ActionableRate)))

	ew.println("")
	t.stat(ew, s, "Bot comments", a.Summary.BotComments)
	t.stat(ew, s, "Human comments", a.Summary.HumanComments)

	ew.println("")
	t.stat(ew, s, "Actionable bot comments", a.Summary.ActionableBots)
	t.stat(ew, s, "Actionable human comments", a.Summary.ActionableHumans)

	t.counts(ew, s, "=== Actionable Comments by Category ===", a.Summary.ByCategory)
	t.counts(ew, s, "=== Actionable Comments by Language ===", a.Summary.ByLanguage)

	samples := sampleComments(a, t.opts.samples())
	if len(samples) == 0 {
		return ew.err
	}

	ew.printf("\n%s\n", s.section.Render(sampleHeading(len(samples))))
	for i, cc := range samples {
		c := cc.Comment

		kind := s.human.Render(authorKind(cc))
		if cc.IsBot {
			kind = s.bot.Render(authorKind(cc))
		}

		ew.printf("\n%d. PR #%d - %s\n", i+1, c.PRNumber, c.Path)
		ew.printf("   Reviewer: %s (%s)\n", c.Reviewer.Login, kind)
		ew.printf("   Categories: %s\n", strings.Join(categoryNames(cc.Categories), ", "))

		body, cut := preview(c.Body)
		if cut == 0 {
			ew.printf("   Comment: %s\n", body)
			continue
		}
		ew.printf("   Comment: %s...\n", body)
		ew.printf("            %s\n", s.muted.Render(moreChars(cut)))
	}

	return ew.err
}

func (t *TextWriter) stat(ew *errWriter, s textStyles, label string, n int) {
	ew.printf("%s %s\n", s.label.Render(label+":"), s.value.Render(itoa(n)))
}

func (t *TextWriter) counts(ew *errWriter, s textStyles, heading string, counts []model.Count) {
	ew.printf("\n%s\n", s.section.Render(heading))
	if len(counts) == 0 {
		ew.println(s.muted.Render("(none)"))
		return
	}
	for _, c := range counts {
		ew.printf("%s: %d\n", c.Name, c.Count)
	}
}
