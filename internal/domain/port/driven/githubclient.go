package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request review data
// from the GitHub API.
type GitHubClient interface {
	// FetchPullRequests lists pull requests in the given state ("open",
	// "closed" or "all") sorted by last update, newest first. Listing stops
	// at the first PR updated before since; a zero since lists everything.
	// The returned PRs carry metadata only.
	FetchPullRequests(ctx context.Context, repoFullName, state string, since time.Time) ([]model.PullRequest, error)
	// FetchPRDetail returns a single PR including diff stats and merge state.
	FetchPRDetail(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error)
	FetchFiles(ctx context.Context, repoFullName string, prNumber int) ([]model.FileChange, error)
	FetchReviewComments(ctx context.Context, repoFullName string, prNumber int) ([]model.ReviewComment, error)
}
