package application

import (
	"regexp"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// The tables below are built once at package init and only ever read.

// noisePatterns match acknowledgements and administrative remarks. They are
// applied to the lowercased body. A trailing "\n?" before "$" lets an
// anchored pattern tolerate the single trailing newline GitHub often keeps.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^lgtm\n?$`),
	regexp.MustCompile(`(?i)^looks good`),
	regexp.MustCompile(`(?i)^\+1\n?$`),
	regexp.MustCompile(`(?i)^thanks?\n?$`),
	regexp.MustCompile(`(?i)^thank you`),
	regexp.MustCompile(`(?i)^👍`),
	regexp.MustCompile(`(?i)^:thumbsup:`),
	regexp.MustCompile(`(?i)merge conflict`),
	regexp.MustCompile(`(?i)failing test`),
	regexp.MustCompile(`(?i)rebase`),
	regexp.MustCompile(`(?i)can you please`),
	regexp.MustCompile(`(?i)could you`),
	regexp.MustCompile(`^\s*$`),
}

// actionableIndicators are phrases that signal a requested change or critique.
var actionableIndicators = []string{
	"should", "must", "need to", "needs to", "required",
	"consider", "suggest", "recommend",
	"use instead", "prefer", "better to",
	"avoid", "don't", "do not",
	"missing", "add", "remove", "change",
	"incorrect", "wrong", "issue", "problem",
	"bug", "error", "warning",
}

var suggestionQuestions = []string{"why not", "what about", "have you considered"}

// codeEntityWords mark a longer comment as discussing a specific code element.
var codeEntityWords = []string{
	"function", "method", "variable", "struct", "class",
	"field", "parameter", "return", "type", "interface",
}

// minSubstantialLength is the body length, in runes, a comment must exceed
// before the code-entity heuristic applies.
const minSubstantialLength = 50

type categoryRule struct {
	category model.Category
	keywords []string
}

// categoryRules are evaluated in order; the order is the order categories
// appear in a classification.
var categoryRules = []categoryRule{
	{model.CategorySecurity, []string{
		"security", "vulnerability", "exploit", "sanitize", "escape",
		"injection", "xss", "csrf", "authentication", "authorization",
		"password", "secret", "token", "leak", "exposure",
	}},
	{model.CategoryPerformance, []string{
		"performance", "slow", "optimize", "cache", "memory",
		"cpu", "inefficient", "bottleneck", "scale", "latency",
	}},
	{model.CategoryErrorHandling, []string{
		"error", "exception", "panic", "nil check", "null",
		"validation", "handle", "catch", "try", "defer",
	}},
	{model.CategoryStyle, []string{
		"style", "idiomatic", "convention", "naming", "format",
		"lint", "clean", "readable", "consistent",
	}},
	{model.CategoryTesting, []string{
		"test", "coverage", "mock", "assertion", "unit test",
		"integration test", "e2e", "testcase",
	}},
	{model.CategoryDocumentation, []string{
		"comment", "document", "doc", "explain", "godoc",
		"docstring", "readme", "description",
	}},
	{model.CategoryAPIDesign, []string{
		"api", "interface", "contract", "signature", "parameter",
		"return", "public", "private", "exported",
	}},
	{model.CategoryConcurrency, []string{
		"concurrent", "goroutine", "mutex", "lock", "race",
		"deadlock", "thread", "async", "parallel", "context",
	}},
	{model.CategoryKubernetes, []string{
		"kubernetes", "k8s", "pod", "deployment", "service",
		"configmap", "secret", "namespace", "crd", "controller",
		"reconcile", "operator", "rbac",
	}},
	{model.CategoryBestPractices, []string{
		"best practice", "pattern", "antipattern", "refactor",
		"clean code", "solid", "dry", "kiss",
	}},
}

// botIdentifiers are login substrings that mark automated accounts. The bare
// "bot" entry also matches human logins such as "robotic"; that is accepted.
var botIdentifiers = []string{
	"[bot]",
	"bot",
	"automated",
	"ci-bot",
	"dependabot",
	"renovate",
	"coderabbit",
	"copilot",
}

// wordPattern splits a body into capitalized or all-lowercase ASCII words.
var wordPattern = regexp.MustCompile(`\b[A-Z][a-z]+\b|\b[a-z]+\b`)

// importantWords is the allowlist of technical terms kept from wordPattern.
var importantWords = map[string]struct{}{
	"context": {}, "error": {}, "nil": {}, "null": {}, "timeout": {}, "cancel": {},
	"mutex": {}, "lock": {}, "race": {}, "goroutine": {}, "channel": {},
	"validation": {}, "check": {}, "handle": {}, "return": {}, "defer": {},
	"test": {}, "mock": {}, "assert": {}, "expect": {},
	"refactor": {}, "simplify": {}, "extract": {}, "rename": {},
}

// maxKeywords caps the keyword list after alphabetical sorting.
const maxKeywords = 10
