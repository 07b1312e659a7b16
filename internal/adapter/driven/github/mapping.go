package github

import (
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
// List responses omit "merged", so a set merged_at also counts as merged.
func mapPullRequest(pr *gh.PullRequest, repoFullName string) model.PullRequest {
	return model.PullRequest{
		Repo:         repoFullName,
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		State:        pr.GetState(),
		Merged:       pr.GetMerged() || !pr.GetMergedAt().IsZero(),
		Author:       mapUser(pr.GetUser()),
		CreatedAt:    pr.GetCreatedAt().Time,
		UpdatedAt:    pr.GetUpdatedAt().Time,
		ClosedAt:     optionalTime(pr.GetClosedAt()),
		MergedAt:     optionalTime(pr.GetMergedAt()),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
	}
}

// mapFileChange converts a go-github CommitFile to a domain model FileChange.
func mapFileChange(f *gh.CommitFile) model.FileChange {
	return model.FileChange{
		Filename:  f.GetFilename(),
		Status:    f.GetStatus(),
		Additions: f.GetAdditions(),
		Deletions: f.GetDeletions(),
		Changes:   f.GetChanges(),
		Patch:     f.GetPatch(),
	}
}

// mapReviewComment converts a go-github PullRequestComment to a domain model
// ReviewComment. Language is left for the cache reader to derive.
func mapReviewComment(c *gh.PullRequestComment, repoFullName string, prNumber int) model.ReviewComment {
	return model.ReviewComment{
		ID:               c.GetID(),
		PRNumber:         prNumber,
		Repo:             repoFullName,
		Body:             c.GetBody(),
		Reviewer:         mapUser(c.GetUser()),
		CreatedAt:        c.GetCreatedAt().Time,
		UpdatedAt:        c.GetUpdatedAt().Time,
		Path:             c.GetPath(),
		Line:             c.Line,
		OriginalLine:     c.OriginalLine,
		DiffHunk:         c.GetDiffHunk(),
		CommitID:         c.GetCommitID(),
		OriginalCommitID: c.GetOriginalCommitID(),
		Side:             c.GetSide(),
		StartSide:        c.GetStartSide(),
		Position:         c.Position,
		OriginalPosition: c.OriginalPosition,
	}
}

func mapUser(u *gh.User) model.User {
	return model.User{
		Login:     u.GetLogin(),
		ID:        u.GetID(),
		Type:      u.GetType(),
		AvatarURL: u.GetAvatarURL(),
	}
}

func optionalTime(ts gh.Timestamp) *time.Time {
	if ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}
