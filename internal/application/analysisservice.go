package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

// unknownLanguage labels comments whose file extension was not recognized.
const unknownLanguage = "unknown"

// AnalyzeOptions controls a single analysis run.
type AnalyzeOptions struct {
	ExcludeBots bool
	// Since and Until bound comment creation time (inclusive). Zero values
	// leave the bound open.
	Since time.Time
	Until time.Time
}

// Comparison holds the same repository analyzed with and without bot comments.
type Comparison struct {
	WithBots  *model.Analysis
	HumanOnly *model.Analysis
}

// AnalysisService loads review comments from a PRSource and classifies them.
// It depends only on port interfaces.
type AnalysisService struct {
	source driven.PRSource
	now    func() time.Time
}

// NewAnalysisService creates a new AnalysisService reading from source.
func NewAnalysisService(source driven.PRSource) *AnalysisService {
	return &AnalysisService{
		source: source,
		now:    time.Now,
	}
}

// Repositories returns the repositories available from the source.
func (s *AnalysisService) Repositories(ctx context.Context) ([]string, error) {
	repos, err := s.source.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	return repos, nil
}

// Analyze classifies every inline review comment of owner/repo.
func (s *AnalysisService) Analyze(ctx context.Context, owner, repo string, opts AnalyzeOptions) (*model.Analysis, error) {
	comments, err := s.loadComments(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	analysis := s.AnalyzeComments(owner+"/"+repo, comments, opts)
	logAnalysis(analysis)

	return analysis, nil
}

// Compare analyzes owner/repo twice from a single load: once including bot
// comments and once with them excluded.
func (s *AnalysisService) Compare(ctx context.Context, owner, repo string, opts AnalyzeOptions) (*Comparison, error) {
	comments, err := s.loadComments(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	repoFullName := owner + "/" + repo

	withOpts := opts
	withOpts.ExcludeBots = false
	withBots := s.AnalyzeComments(repoFullName, comments, withOpts)
	logAnalysis(withBots)

	humanOpts := opts
	humanOpts.ExcludeBots = true
	humanOnly := s.AnalyzeComments(repoFullName, comments, humanOpts)
	logAnalysis(humanOnly)

	return &Comparison{WithBots: withBots, HumanOnly: humanOnly}, nil
}

// AnalyzeComments classifies an in-memory batch of comments. Comments outside
// the options' time window are dropped before classification.
func (s *AnalysisService) AnalyzeComments(repoFullName string, comments []model.ReviewComment, opts AnalyzeOptions) *model.Analysis {
	windowed := filterByWindow(comments, opts.Since, opts.Until)

	filter := NewCommentFilter(opts.ExcludeBots)
	filtered := filter.FilterComments(windowed)
	actionable := ActionableComments(filtered)

	summary := summarize(filtered, actionable)
	summary.ExcludedBots = len(windowed) - len(filtered)

	return &model.Analysis{
		RunID:         uuid.NewString(),
		Repo:          repoFullName,
		ExcludeBots:   opts.ExcludeBots,
		GeneratedAt:   s.now().UTC(),
		TotalComments: len(windowed),
		Filtered:      filtered,
		Actionable:    actionable,
		Summary:       summary,
	}
}

func (s *AnalysisService) loadComments(ctx context.Context, owner, repo string) ([]model.ReviewComment, error) {
	prs, err := s.source.LoadRepository(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", owner, repo, err)
	}

	comments := model.FlattenComments(prs)
	slog.Debug("comments loaded",
		"repo", owner+"/"+repo,
		"pull_requests", len(prs),
		"comments", len(comments),
	)

	return comments, nil
}

// filterByWindow keeps comments created within [since, until]. Zero bounds
// are open.
func filterByWindow(comments []model.ReviewComment, since, until time.Time) []model.ReviewComment {
	if since.IsZero() && until.IsZero() {
		return comments
	}

	kept := make([]model.ReviewComment, 0, len(comments))
	for _, c := range comments {
		if !since.IsZero() && c.CreatedAt.Before(since) {
			continue
		}
		if !until.IsZero() && c.CreatedAt.After(until) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// summarize computes the aggregate counts for a filtered set and its
// actionable subset.
func summarize(filtered, actionable []model.ClassifiedComment) model.AnalysisSummary {
	summary := model.AnalysisSummary{
		FilteredCount:   len(filtered),
		ActionableCount: len(actionable),
	}

	if len(filtered) > 0 {
		summary.ActionableRate = float64(len(actionable)) / float64(len(filtered)) * 100
	}

	for _, cc := range filtered {
		if cc.IsBot {
			summary.BotComments++
		}
	}
	summary.HumanComments = len(filtered) - summary.BotComments

	categoryCounts := make(map[string]int)
	languageCounts := make(map[string]int)

	for _, cc := range actionable {
		if cc.IsBot {
			summary.ActionableBots++
		}
		for _, cat := range cc.Categories {
			categoryCounts[string(cat)]++
		}

		lang := cc.Comment.Language
		if lang == "" {
			lang = unknownLanguage
		}
		languageCounts[lang]++
	}
	summary.ActionableHumans = len(actionable) - summary.ActionableBots

	summary.ByCategory = sortedCounts(categoryCounts)
	summary.ByLanguage = sortedCounts(languageCounts)

	return summary
}

// sortedCounts orders tallies by count descending, breaking ties by name.
func sortedCounts(m map[string]int) []model.Count {
	counts := make([]model.Count, 0, len(m))
	for name, n := range m {
		counts = append(counts, model.Count{Name: name, Count: n})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})

	return counts
}

func logAnalysis(a *model.Analysis) {
	slog.Info("analysis complete",
		"repo", a.Repo,
		"run_id", a.RunID,
		"exclude_bots", a.ExcludeBots,
		"total", a.TotalComments,
		"filtered", a.Summary.FilteredCount,
		"actionable", a.Summary.ActionableCount,
	)
}
