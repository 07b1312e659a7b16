package report

import (
	"time"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// Document is the serialized form of an analysis shared by the json and yaml
// formats and the HTTP API.
type Document struct {
	RunID         string       `json:"run_id" yaml:"run_id"`
	Repo          string       `json:"repo" yaml:"repo"`
	ExcludeBots   bool         `json:"exclude_bots" yaml:"exclude_bots"`
	GeneratedAt   time.Time    `json:"generated_at" yaml:"generated_at"`
	TotalComments int          `json:"total_comments" yaml:"total_comments"`
	Summary       SummaryDoc   `json:"summary" yaml:"summary"`
	Actionable    []CommentDoc `json:"actionable" yaml:"actionable"`
	Filtered      []CommentDoc `json:"filtered,omitempty" yaml:"filtered,omitempty"`
}

// SummaryDoc mirrors model.AnalysisSummary.
type SummaryDoc struct {
	FilteredCount    int        `json:"filtered_count" yaml:"filtered_count"`
	ActionableCount  int        `json:"actionable_count" yaml:"actionable_count"`
	ActionableRate   float64    `json:"actionable_rate" yaml:"actionable_rate"`
	BotComments      int        `json:"bot_comments" yaml:"bot_comments"`
	HumanComments    int        `json:"human_comments" yaml:"human_comments"`
	ExcludedBots     int        `json:"excluded_bots" yaml:"excluded_bots"`
	ActionableBots   int        `json:"actionable_bots" yaml:"actionable_bots"`
	ActionableHumans int        `json:"actionable_humans" yaml:"actionable_humans"`
	ByCategory       []CountDoc `json:"by_category" yaml:"by_category"`
	ByLanguage       []CountDoc `json:"by_language" yaml:"by_language"`
}

// CountDoc is one row of a breakdown table.
type CountDoc struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// CommentDoc is a classified comment with the fields a reader needs to find
// it again.
type CommentDoc struct {
	ID           int64      `json:"id" yaml:"id"`
	PRNumber     int        `json:"pr_number" yaml:"pr_number"`
	Repo         string     `json:"repo" yaml:"repo"`
	Path         string     `json:"path" yaml:"path"`
	Line         *int       `json:"line,omitempty" yaml:"line,omitempty"`
	Language     string     `json:"language,omitempty" yaml:"language,omitempty"`
	Reviewer     string     `json:"reviewer" yaml:"reviewer"`
	ReviewerType string     `json:"reviewer_type" yaml:"reviewer_type"`
	CreatedAt    *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Body         string     `json:"body" yaml:"body"`

	ClassificationDoc `yaml:",inline"`
}

// ClassificationDoc is the serialized classifier verdict.
type ClassificationDoc struct {
	IsActionable bool     `json:"is_actionable" yaml:"is_actionable"`
	Categories   []string `json:"categories" yaml:"categories"`
	IsBot        bool     `json:"is_bot" yaml:"is_bot"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
}

// ComparisonDoc holds the with-bots and human-only documents side by side.
type ComparisonDoc struct {
	WithBots  Document `json:"with_bots" yaml:"with_bots"`
	HumanOnly Document `json:"human_only" yaml:"human_only"`
}

// NewDocument converts an analysis. Filtered comments are included only when
// includeFiltered is set.
func NewDocument(a *model.Analysis, includeFiltered bool) Document {
	doc := Document{
		RunID:         a.RunID,
		Repo:          a.Repo,
		ExcludeBots:   a.ExcludeBots,
		GeneratedAt:   a.GeneratedAt,
		TotalComments: a.TotalComments,
		Summary: SummaryDoc{
			FilteredCount:    a.Summary.FilteredCount,
			ActionableCount:  a.Summary.ActionableCount,
			ActionableRate:   a.Summary.ActionableRate,
			BotComments:      a.Summary.BotComments,
			HumanComments:    a.Summary.HumanComments,
			ExcludedBots:     a.Summary.ExcludedBots,
			ActionableBots:   a.Summary.ActionableBots,
			ActionableHumans: a.Summary.ActionableHumans,
			ByCategory:       countDocs(a.Summary.ByCategory),
			ByLanguage:       countDocs(a.Summary.ByLanguage),
		},
		Actionable: commentDocs(a.Actionable),
	}

	if includeFiltered {
		doc.Filtered = commentDocs(a.Filtered)
	}

	return doc
}

// NewClassificationDoc converts a classifier verdict. Slices are never nil so
// they serialize as empty lists.
func NewClassificationDoc(c model.Classification) ClassificationDoc {
	keywords := c.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return ClassificationDoc{
		IsActionable: c.IsActionable,
		Categories:   categoryNames(c.Categories),
		IsBot:        c.IsBot,
		Keywords:     keywords,
	}
}

// NewCommentDoc converts a classified comment.
func NewCommentDoc(cc model.ClassifiedComment) CommentDoc {
	c := cc.Comment

	doc := CommentDoc{
		ID:                c.ID,
		PRNumber:          c.PRNumber,
		Repo:              c.Repo,
		Path:              c.Path,
		Line:              c.Line,
		Language:          c.Language,
		Reviewer:          c.Reviewer.Login,
		ReviewerType:      c.Reviewer.Type,
		Body:              c.Body,
		ClassificationDoc: NewClassificationDoc(cc.Classification),
	}
	if !c.CreatedAt.IsZero() {
		created := c.CreatedAt
		doc.CreatedAt = &created
	}

	return doc
}

func commentDocs(ccs []model.ClassifiedComment) []CommentDoc {
	docs := make([]CommentDoc, 0, len(ccs))
	for _, cc := range ccs {
		docs = append(docs, NewCommentDoc(cc))
	}
	return docs
}

func countDocs(counts []model.Count) []CountDoc {
	docs := make([]CountDoc, 0, len(counts))
	for _, c := range counts {
		docs = append(docs, CountDoc{Name: c.Name, Count: c.Count})
	}
	return docs
}
