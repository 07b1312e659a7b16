package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

// ErrSyncIncomplete is returned when some pull requests could not be fetched.
// The ones that could were still written.
var ErrSyncIncomplete = errors.New("sync incomplete")

const defaultSyncState = "all"

// SyncOptions narrows which pull requests a sync fetches.
type SyncOptions struct {
	// State is "open", "closed" or "all"; empty means "all".
	State string
	// Since skips PRs last updated before it. Zero fetches everything.
	Since time.Time
	// Limit caps the number of PRs fetched, newest first. Zero is unlimited.
	Limit int
}

// SyncResult summarizes a completed sync.
type SyncResult struct {
	Repo     string
	Listed   int
	Written  int
	Failed   int
	Comments int
}

// SyncService fetches pull requests with their files and review comments
// from GitHub and writes them into the scraper cache.
type SyncService struct {
	ghClient driven.GitHubClient
	writer   driven.CacheWriter
}

// NewSyncService creates a new SyncService with all required dependencies.
func NewSyncService(ghClient driven.GitHubClient, writer driven.CacheWriter) *SyncService {
	return &SyncService{
		ghClient: ghClient,
		writer:   writer,
	}
}

// Sync fetches the pull requests of repoFullName sequentially and writes one
// cache file per PR. A PR whose data cannot be fetched is logged and skipped;
// the returned error then wraps ErrSyncIncomplete. Cache write failures abort
// the sync.
func (s *SyncService) Sync(ctx context.Context, repoFullName string, opts SyncOptions) (SyncResult, error) {
	result := SyncResult{Repo: repoFullName}

	if _, err := model.ParseRepository(repoFullName); err != nil {
		return result, err
	}

	state := opts.State
	if state == "" {
		state = defaultSyncState
	}

	prs, err := s.ghClient.FetchPullRequests(ctx, repoFullName, state, opts.Since)
	if err != nil {
		return result, fmt.Errorf("list pull requests: %w", err)
	}

	if opts.Limit > 0 && len(prs) > opts.Limit {
		prs = prs[:opts.Limit]
	}
	result.Listed = len(prs)

	slog.Info("sync started", "repo", repoFullName, "state", state, "pull_requests", len(prs))

	for _, listed := range prs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pr, err := s.fetchPullRequest(ctx, repoFullName, listed.Number)
		if err != nil {
			slog.Error("fetch pull request failed", "repo", repoFullName, "pr", listed.Number, "error", err)
			result.Failed++
			continue
		}

		if err := s.writer.WritePullRequest(ctx, pr); err != nil {
			return result, fmt.Errorf("write %s#%d: %w", repoFullName, pr.Number, err)
		}

		result.Written++
		result.Comments += len(pr.Comments)

		slog.Debug("pull request synced", "repo", repoFullName, "pr", pr.Number, "comments", len(pr.Comments))
	}

	slog.Info("sync complete",
		"repo", repoFullName,
		"written", result.Written,
		"failed", result.Failed,
		"comments", result.Comments,
	)

	if result.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d pull requests failed", ErrSyncIncomplete, result.Failed, result.Listed)
	}

	return result, nil
}

// fetchPullRequest assembles one PR from its detail, files and review comments.
func (s *SyncService) fetchPullRequest(ctx context.Context, repoFullName string, number int) (model.PullRequest, error) {
	detail, err := s.ghClient.FetchPRDetail(ctx, repoFullName, number)
	if err != nil {
		return model.PullRequest{}, err
	}

	files, err := s.ghClient.FetchFiles(ctx, repoFullName, number)
	if err != nil {
		return model.PullRequest{}, err
	}

	comments, err := s.ghClient.FetchReviewComments(ctx, repoFullName, number)
	if err != nil {
		return model.PullRequest{}, err
	}

	pr := *detail
	pr.Repo = repoFullName
	pr.Files = files
	pr.Comments = comments

	return pr, nil
}
