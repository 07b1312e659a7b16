package model

// Category is a topical bucket assigned to a review comment.
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryErrorHandling Category = "error_handling"
	CategoryStyle         Category = "style"
	CategoryTesting       Category = "testing"
	CategoryDocumentation Category = "documentation"
	CategoryAPIDesign     Category = "api_design"
	CategoryConcurrency   Category = "concurrency"
	CategoryKubernetes    Category = "kubernetes"
	CategoryBestPractices Category = "best_practices"

	// CategoryGeneral is assigned when no other category matches.
	CategoryGeneral Category = "general"
)

// Classification is the result of running the comment classifier over a
// single review comment. Categories is never empty and Keywords is sorted,
// deduplicated, and holds at most 10 entries.
type Classification struct {
	IsActionable bool
	Categories   []Category
	IsBot        bool
	Keywords     []string
}

// HasCategory reports whether c was assigned the given category.
func (c Classification) HasCategory(cat Category) bool {
	for _, got := range c.Categories {
		if got == cat {
			return true
		}
	}
	return false
}

// ClassifiedComment pairs a review comment with its classification.
type ClassifiedComment struct {
	Comment ReviewComment
	Classification
}
