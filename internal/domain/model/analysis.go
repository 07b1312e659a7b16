package model

import "time"

// Analysis is the outcome of classifying every comment of a repository.
type Analysis struct {
	RunID       string
	Repo        string
	ExcludeBots bool
	GeneratedAt time.Time

	// TotalComments counts the comments handed to the classifier, before
	// bot exclusion.
	TotalComments int
	Filtered      []ClassifiedComment
	Actionable    []ClassifiedComment
	Summary       AnalysisSummary
}

// AnalysisSummary holds the aggregate counts reported for an analysis.
type AnalysisSummary struct {
	FilteredCount    int
	ActionableCount  int
	ActionableRate   float64 // Percentage of filtered comments that are actionable.
	BotComments      int
	HumanComments    int
	ExcludedBots     int
	ActionableBots   int
	ActionableHumans int
	ByCategory       []Count
	ByLanguage       []Count
}

// Count is a labelled tally, used for category and language breakdowns.
type Count struct {
	Name  string
	Count int
}
