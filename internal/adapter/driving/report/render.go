package report

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// hunkTailLines is how much of a diff hunk is shown above a comment. GitHub
// hunks end at the commented line, so the tail is the relevant part.
const hunkTailLines = 8

var (
	bodyMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	bodyPolicy = bluemonday.UGCPolicy()
)

// renderBody converts a comment body from GitHub-flavored markdown to
// sanitized HTML. Suggestion blocks and raw HTML from reviewers pass through
// the sanitizer.
func renderBody(src string) template.HTML {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := bodyMarkdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(bodyPolicy.Sanitize(html.EscapeString(src))) //nolint:gosec // sanitized
	}

	return template.HTML(bodyPolicy.Sanitize(buf.String())) //nolint:gosec // sanitized
}

// renderHunk renders the tail of a unified diff hunk with one span per line,
// classed by its diff role.
func renderHunk(hunk string) template.HTML {
	if hunk == "" {
		return ""
	}

	lines := strings.Split(strings.TrimRight(hunk, "\n"), "\n")
	if len(lines) > hunkTailLines {
		lines = lines[len(lines)-hunkTailLines:]
	}

	var buf strings.Builder
	buf.Grow(len(hunk) * 2)

	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(`<span class="`)
		buf.WriteString(diffLineClass(line))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(line))
		buf.WriteString(`</span>`)
	}

	return template.HTML(buf.String()) //nolint:gosec // every line is escaped
}

func diffLineClass(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return "diff-header"
	case strings.HasPrefix(line, "+"):
		return "diff-add"
	case strings.HasPrefix(line, "-"):
		return "diff-del"
	default:
		return "diff-ctx"
	}
}
