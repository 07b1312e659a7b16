package application

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

const contextExample = "You should use context.Context instead of a raw channel here to avoid a goroutine leak"

func makeComment(id int64, login, userType, body string) model.ReviewComment {
	return model.ReviewComment{
		ID:       id,
		PRNumber: 1,
		Repo:     "octocat/hello-world",
		Body:     body,
		Reviewer: model.User{Login: login, Type: userType},
		Path:     "main.go",
		Language: "go",
	}
}

// --- IsBot ---

func TestIsBot(t *testing.T) {
	tests := []struct {
		name  string
		login string
		typ   string
		want  bool
	}{
		{"dependabot with bot type", "dependabot[bot]", "Bot", true},
		{"human user", "alice", "User", false},
		{"bot type lowercase", "someone", "bot", true},
		{"bot type uppercase", "someone", "BOT", true},
		{"bracket suffix", "github-actions[bot]", "User", true},
		{"renovate without type", "renovate", "", true},
		{"copilot mixed case", "Copilot", "User", true},
		{"coderabbit", "coderabbitai", "User", true},
		{"automated account", "automated-release", "User", true},
		{"bare bot substring matches human login", "robotic-rob", "User", true},
		{"organization", "octo-org", "Organization", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBot(tt.login, tt.typ))
		})
	}
}

// --- IsActionable ---

func TestIsActionable_Noise(t *testing.T) {
	bodies := []string{
		"lgtm",
		"LGTM",
		"lgtm\n",
		"Looks good to me, but you should add tests",
		"+1",
		"thanks",
		"Thank",
		"Thank you for fixing the bug",
		"👍 nice",
		":thumbsup: should be fine",
		"There is a merge conflict in go.mod, must fix",
		"failing test on CI, should investigate",
		"Please rebase, the error handling changed",
		"Can you please add a comment?",
		"Could you add a nil check here?",
		"",
		"   \n\t ",
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			assert.False(t, IsActionable(body))
		})
	}
}

func TestIsActionable_NoisePrecedence(t *testing.T) {
	// The anchored lgtm rule only matches a bare "lgtm", so trailing
	// feedback is still picked up by the indicator rule.
	assert.False(t, IsActionable("lgtm"))
	assert.True(t, IsActionable("lgtm, should fix later"))

	// An unanchored noise rule wins even though "add" is an indicator.
	assert.False(t, IsActionable("could you add a nil check"))
}

func TestIsActionable_Signals(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"indicator", "This is a bug"},
		{"indicator mixed case", "You MUST close the body"},
		{"code fence", "```go\nx := 1\n```"},
		{"instead of", "Use a map instead of a slice here."},
		{"why not", "Why not inline this?"},
		{"what about", "What about caching this value?"},
		{"have you considered", "Have you considered a map?"},
		{"long with code entity", "I am not sure this function behaves as expected for empty inputs"},
		{"context example", contextExample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsActionable(tt.body))
		})
	}
}

func TestIsActionable_NoSignal(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short with code entity", "Is this function ok?"},
		{"plain remark", "Hmm, interesting approach."},
		{"lgtm thanks", "LGTM, thanks!"},
		{"thanks lgtm", "thanks, lgtm"},
		{"long without code entity", strings.Repeat("a", 10000)},
		{"short multi-byte with code entity", strings.Repeat("这", 16) + " type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsActionable(tt.body))
		})
	}
}

// --- Categorize ---

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []model.Category
	}{
		{"no match", "LGTM, thanks!", []model.Category{model.CategoryGeneral}},
		{"empty", "", []model.Category{model.CategoryGeneral}},
		{"context example", contextExample, []model.Category{model.CategorySecurity, model.CategoryConcurrency}},
		{"rule order", "Add a test for the error path", []model.Category{model.CategoryErrorHandling, model.CategoryTesting}},
		{"substring match outside concurrency", "Please update the context in the README", []model.Category{model.CategoryDocumentation, model.CategoryConcurrency}},
		{"multiple keywords count once", "mutex lock race deadlock", []model.Category{model.CategoryConcurrency}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.body))
		})
	}
}

// --- ExtractKeywords ---

func TestExtractKeywords_ContextExample(t *testing.T) {
	got := ExtractKeywords(contextExample)

	assert.Equal(t, []string{"avoid", "channel", "context", "goroutine", "leak", "should"}, got)
}

func TestExtractKeywords_CapitalizedWords(t *testing.T) {
	got := ExtractKeywords("Timeout and Cancel")

	assert.Equal(t, []string{"cancel", "timeout"}, got)
}

func TestExtractKeywords_IgnoresWordsInsideNonASCIIWords(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"letter before", "écheck", []string{}},
		{"letter after", "Timeouté", []string{}},
		{"digit before", "٣cancel", []string{}},
		{"separated by space", "é check", []string{"check"}},
		{"separated by punctuation", "naïve: cancel!", []string{"cancel"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.body))
		})
	}
}

func TestExtractKeywords_Empty(t *testing.T) {
	assert.Empty(t, ExtractKeywords(""))
	assert.Empty(t, ExtractKeywords(strings.Repeat("a", 10000)))
}

func TestExtractKeywords_TruncatesAfterSorting(t *testing.T) {
	body := "security vulnerability exploit sanitize escape injection xss csrf authentication authorization password secret token"

	got := ExtractKeywords(body)

	require.Len(t, got, 10)
	assert.Equal(t, []string{
		"authentication", "authorization", "csrf", "escape", "exploit",
		"injection", "password", "sanitize", "secret", "security",
	}, got)
	assert.NotContains(t, got, "xss")
}

// --- Classify ---

func TestClassify_Examples(t *testing.T) {
	t.Run("context example", func(t *testing.T) {
		got := Classify(makeComment(1, "alice", "User", contextExample))

		assert.True(t, got.IsActionable)
		assert.False(t, got.IsBot)
		assert.True(t, got.HasCategory(model.CategoryConcurrency))
		assert.Subset(t, got.Keywords, []string{"context", "goroutine", "avoid", "channel"})
	})

	t.Run("lgtm thanks", func(t *testing.T) {
		got := Classify(makeComment(2, "alice", "User", "LGTM, thanks!"))

		assert.False(t, got.IsActionable)
		assert.Equal(t, []model.Category{model.CategoryGeneral}, got.Categories)
	})

	t.Run("long run of a", func(t *testing.T) {
		got := Classify(makeComment(3, "alice", "User", strings.Repeat("a", 10000)))

		assert.False(t, got.IsActionable)
		assert.Equal(t, []model.Category{model.CategoryGeneral}, got.Categories)
		assert.Empty(t, got.Keywords)
	})

	t.Run("bot author", func(t *testing.T) {
		got := Classify(makeComment(4, "dependabot[bot]", "Bot", "Bumps x from 1.0 to 1.1"))

		assert.True(t, got.IsBot)
	})
}

var propertyBodies = []string{
	"",
	"lgtm",
	"LGTM, thanks!",
	contextExample,
	"Add a test for the error path",
	"security vulnerability exploit sanitize escape injection xss csrf authentication authorization password secret token",
	"mutex lock race deadlock thread async parallel context goroutine concurrent",
	"Refactor: extract, rename, simplify. Return nil error on timeout; defer cancel; check validation; handle mock assert expect test",
	"```suggestion\nreturn fmt.Errorf(\"load: %w\", err)\n```",
	"日本語のコメント: この関数は遅いです",
	strings.Repeat("a", 10000),
	"k8s pod deployment service configmap secret namespace crd controller reconcile operator rbac",
}

func TestClassify_Invariants(t *testing.T) {
	for _, body := range propertyBodies {
		got := Classify(makeComment(1, "alice", "User", body))

		assert.NotEmpty(t, got.Categories, "categories for %q", body)
		assert.LessOrEqual(t, len(got.Keywords), 10, "keywords for %q", body)
		assert.True(t, sort.StringsAreSorted(got.Keywords), "keywords sorted for %q", body)

		seen := make(map[string]bool)
		for _, kw := range got.Keywords {
			assert.False(t, seen[kw], "duplicate keyword %q", kw)
			seen[kw] = true
			assert.Equal(t, strings.ToLower(kw), kw)
		}

		seenCat := make(map[model.Category]bool)
		for _, c := range got.Categories {
			assert.False(t, seenCat[c], "duplicate category %q", c)
			seenCat[c] = true
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	for _, body := range propertyBodies {
		c := makeComment(1, "renovate[bot]", "Bot", body)
		assert.Equal(t, Classify(c), Classify(c))
	}
}

func TestClassify_IgnoresLocationFields(t *testing.T) {
	line := 42
	a := makeComment(1, "alice", "User", contextExample)
	b := a
	b.ID = 99
	b.Path = "docs/README.md"
	b.Language = "markdown"
	b.Line = &line

	assert.Equal(t, Classify(a), Classify(b))
}

// --- CommentFilter ---

func batchFixture() []model.ReviewComment {
	return []model.ReviewComment{
		makeComment(1, "alice", "User", contextExample),
		makeComment(2, "dependabot[bot]", "Bot", "You should bump this dependency"),
		makeComment(3, "bob", "User", "lgtm"),
		makeComment(4, "coderabbitai", "User", "Missing error handling for the nil case"),
		makeComment(5, "carol", "User", "Add a test for the error path"),
		makeComment(6, "renovate", "Bot", "thanks"),
	}
}

func TestFilterComments_KeepsBotsByDefault(t *testing.T) {
	filter := NewCommentFilter(false)

	got := filter.FilterComments(batchFixture())

	require.Len(t, got, 6)
	for i, cc := range got {
		assert.Equal(t, int64(i+1), cc.Comment.ID, "input order preserved")
	}
	assert.False(t, filter.ExcludeBots())
}

func TestFilterComments_ExcludeBots(t *testing.T) {
	filter := NewCommentFilter(true)

	got := filter.FilterComments(batchFixture())

	ids := make([]int64, 0, len(got))
	for _, cc := range got {
		assert.False(t, cc.IsBot)
		ids = append(ids, cc.Comment.ID)
	}
	assert.Equal(t, []int64{1, 3, 5}, ids)
}

func TestActionableComments(t *testing.T) {
	withBots := ActionableComments(NewCommentFilter(false).FilterComments(batchFixture()))
	withoutBots := ActionableComments(NewCommentFilter(true).FilterComments(batchFixture()))

	var actionableBots int
	for _, cc := range withBots {
		assert.True(t, cc.IsActionable)
		if cc.IsBot {
			actionableBots++
		}
	}

	assert.Equal(t, []int64{1, 2, 4, 5}, commentIDs(withBots))
	assert.Equal(t, 2, actionableBots)
	assert.LessOrEqual(t, len(withoutBots), len(withBots))
	assert.Equal(t, len(withBots)-actionableBots, len(withoutBots))
}

func TestActionableComments_Empty(t *testing.T) {
	assert.Empty(t, ActionableComments(nil))
}

func commentIDs(ccs []model.ClassifiedComment) []int64 {
	ids := make([]int64, 0, len(ccs))
	for _, cc := range ccs {
		ids = append(ids, cc.Comment.ID)
	}
	return ids
}
