package application

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// IsBot reports whether a comment author is an automated account. The
// account type wins when it is "bot" (any case); otherwise the lowercased
// login is checked against the known bot identifiers.
func IsBot(login, accountType string) bool {
	if strings.EqualFold(accountType, "bot") {
		return true
	}

	lowerLogin := strings.ToLower(login)
	for _, id := range botIdentifiers {
		if strings.Contains(lowerLogin, id) {
			return true
		}
	}
	return false
}

// IsActionable reports whether a comment body contains feedback the author
// of the PR is expected to act on. Noise suppression is checked first and
// always wins over every positive signal.
func IsActionable(body string) bool {
	lowerBody := strings.ToLower(body)

	for _, pattern := range noisePatterns {
		if pattern.MatchString(lowerBody) {
			return false
		}
	}

	if containsAny(lowerBody, actionableIndicators) {
		return true
	}

	// Fenced code usually carries a concrete suggestion.
	if strings.Contains(body, "```") {
		return true
	}

	if strings.Contains(lowerBody, "instead of") {
		return true
	}

	if containsAny(lowerBody, suggestionQuestions) {
		return true
	}

	if utf8.RuneCountInString(body) > minSubstantialLength && containsAny(lowerBody, codeEntityWords) {
		return true
	}

	return false
}

// Categorize returns the categories whose keywords appear in body, in rule
// order. Matching is plain substring containment on the lowercased body.
// A body matching nothing is categorized as general.
func Categorize(body string) []model.Category {
	lowerBody := strings.ToLower(body)

	var categories []model.Category
	for _, rule := range categoryRules {
		if containsAny(lowerBody, rule.keywords) {
			categories = append(categories, rule.category)
		}
	}

	if len(categories) == 0 {
		return []model.Category{model.CategoryGeneral}
	}
	return categories
}

// ExtractKeywords collects the indicator phrases, category keywords, and
// important technical words found in body. The result is sorted and cut to
// the first maxKeywords entries.
func ExtractKeywords(body string) []string {
	lowerBody := strings.ToLower(body)
	seen := make(map[string]struct{})

	for _, indicator := range actionableIndicators {
		if strings.Contains(lowerBody, indicator) {
			seen[indicator] = struct{}{}
		}
	}

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowerBody, kw) {
				seen[kw] = struct{}{}
			}
		}
	}

	for _, word := range words(body) {
		w := strings.ToLower(word)
		if _, ok := importantWords[w]; ok {
			seen[w] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(seen))
	for kw := range seen {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// words returns the wordPattern matches of body that stand alone. The regexp
// only knows ASCII word boundaries, so a match touching any other letter,
// digit or underscore is part of a longer word and is dropped.
func words(body string) []string {
	var out []string
	for _, loc := range wordPattern.FindAllStringIndex(body, -1) {
		before, _ := utf8.DecodeLastRuneInString(body[:loc[0]])
		after, _ := utf8.DecodeRuneInString(body[loc[1]:])
		if isWordRune(before) || isWordRune(after) {
			continue
		}
		out = append(out, body[loc[0]:loc[1]])
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Classify runs every detector over a single comment. Only the body and the
// reviewer's login and type are consulted.
func Classify(comment model.ReviewComment) model.Classification {
	return model.Classification{
		IsActionable: IsActionable(comment.Body),
		Categories:   Categorize(comment.Body),
		IsBot:        IsBot(comment.Reviewer.Login, comment.Reviewer.Type),
		Keywords:     ExtractKeywords(comment.Body),
	}
}

// CommentFilter applies the classifier to batches of comments.
type CommentFilter struct {
	excludeBots bool
}

// NewCommentFilter creates a CommentFilter. When excludeBots is true, bot
// comments are dropped from FilterComments output.
func NewCommentFilter(excludeBots bool) *CommentFilter {
	return &CommentFilter{excludeBots: excludeBots}
}

// ExcludeBots reports whether the filter drops bot-authored comments.
func (f *CommentFilter) ExcludeBots() bool {
	return f.excludeBots
}

// Classify classifies a single comment.
func (f *CommentFilter) Classify(comment model.ReviewComment) model.ClassifiedComment {
	return model.ClassifiedComment{
		Comment:        comment,
		Classification: Classify(comment),
	}
}

// FilterComments classifies comments in input order, skipping bot comments
// when the filter excludes bots.
func (f *CommentFilter) FilterComments(comments []model.ReviewComment) []model.ClassifiedComment {
	filtered := make([]model.ClassifiedComment, 0, len(comments))

	for _, c := range comments {
		cc := f.Classify(c)
		if f.excludeBots && cc.IsBot {
			continue
		}
		filtered = append(filtered, cc)
	}

	return filtered
}

// ActionableComments returns the actionable subset of classified, preserving
// order.
func ActionableComments(classified []model.ClassifiedComment) []model.ClassifiedComment {
	actionable := make([]model.ClassifiedComment, 0, len(classified))
	for _, cc := range classified {
		if cc.IsActionable {
			actionable = append(actionable, cc)
		}
	}
	return actionable
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
