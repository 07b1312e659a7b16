package cache

import (
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

const (
	defaultLogin    = "unknown"
	defaultUserType = "User"
)

// envelope is the on-disk shape of a cached pull request file.
type envelope struct {
	GitHubData pullRequestData `json:"github_data"`
}

// pullRequestData is a REST pull request extended with the files and review
// comments the scraper stores alongside it. The outer Comments field shadows
// the embedded comment count.
type pullRequestData struct {
	*gh.PullRequest
	Files    []*gh.CommitFile         `json:"files,omitempty"`
	Comments []*gh.PullRequestComment `json:"comments,omitempty"`
}

// mapPullRequest converts a decoded envelope to a domain PullRequest. Only
// inline comments (those carrying a diff hunk) are kept.
func mapPullRequest(d pullRequestData, repoFullName string) model.PullRequest {
	files := make([]model.FileChange, 0, len(d.Files))
	for _, f := range d.Files {
		files = append(files, model.FileChange{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
			Patch:     f.GetPatch(),
		})
	}

	number := d.GetNumber()

	comments := make([]model.ReviewComment, 0, len(d.Comments))
	for _, c := range d.Comments {
		if c.GetDiffHunk() == "" {
			continue
		}
		comments = append(comments, mapReviewComment(c, repoFullName, number))
	}

	return model.PullRequest{
		Repo:         repoFullName,
		Number:       number,
		Title:        d.GetTitle(),
		State:        d.GetState(),
		Merged:       d.GetMerged(),
		Author:       mapUser(d.GetUser()),
		CreatedAt:    d.GetCreatedAt().Time,
		UpdatedAt:    d.GetUpdatedAt().Time,
		ClosedAt:     optionalTime(d.GetClosedAt()),
		MergedAt:     optionalTime(d.GetMergedAt()),
		Additions:    d.GetAdditions(),
		Deletions:    d.GetDeletions(),
		ChangedFiles: d.GetChangedFiles(),
		Files:        files,
		Comments:     comments,
	}
}

func mapReviewComment(c *gh.PullRequestComment, repoFullName string, prNumber int) model.ReviewComment {
	path := c.GetPath()

	return model.ReviewComment{
		ID:               c.GetID(),
		PRNumber:         prNumber,
		Repo:             repoFullName,
		Body:             c.GetBody(),
		Reviewer:         mapUser(c.GetUser()),
		CreatedAt:        c.GetCreatedAt().Time,
		UpdatedAt:        c.GetUpdatedAt().Time,
		Path:             path,
		Line:             c.Line,
		OriginalLine:     c.OriginalLine,
		DiffHunk:         c.GetDiffHunk(),
		CommitID:         c.GetCommitID(),
		OriginalCommitID: c.GetOriginalCommitID(),
		Side:             c.GetSide(),
		StartSide:        c.GetStartSide(),
		Position:         c.Position,
		OriginalPosition: c.OriginalPosition,
		Language:         detectLanguage(path),
	}
}

// mapUser fills in the login and account type defaults for absent fields.
func mapUser(u *gh.User) model.User {
	user := model.User{
		Login:     defaultLogin,
		ID:        u.GetID(),
		Type:      defaultUserType,
		AvatarURL: u.GetAvatarURL(),
	}
	if u != nil && u.Login != nil {
		user.Login = *u.Login
	}
	if u != nil && u.Type != nil {
		user.Type = *u.Type
	}
	return user
}

func optionalTime(ts gh.Timestamp) *time.Time {
	if ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

// toEnvelope converts a domain PullRequest back to the cached file shape.
func toEnvelope(pr model.PullRequest) envelope {
	files := make([]*gh.CommitFile, 0, len(pr.Files))
	for _, f := range pr.Files {
		files = append(files, &gh.CommitFile{
			Filename:  gh.Ptr(f.Filename),
			Status:    gh.Ptr(f.Status),
			Additions: gh.Ptr(f.Additions),
			Deletions: gh.Ptr(f.Deletions),
			Changes:   gh.Ptr(f.Changes),
			Patch:     optionalString(f.Patch),
		})
	}

	comments := make([]*gh.PullRequestComment, 0, len(pr.Comments))
	for _, c := range pr.Comments {
		comments = append(comments, &gh.PullRequestComment{
			ID:               gh.Ptr(c.ID),
			Body:             gh.Ptr(c.Body),
			User:             toUser(c.Reviewer),
			CreatedAt:        timestamp(c.CreatedAt),
			UpdatedAt:        timestamp(c.UpdatedAt),
			Path:             gh.Ptr(c.Path),
			Line:             c.Line,
			OriginalLine:     c.OriginalLine,
			DiffHunk:         gh.Ptr(c.DiffHunk),
			CommitID:         optionalString(c.CommitID),
			OriginalCommitID: optionalString(c.OriginalCommitID),
			Side:             optionalString(c.Side),
			StartSide:        optionalString(c.StartSide),
			Position:         c.Position,
			OriginalPosition: c.OriginalPosition,
		})
	}

	data := &gh.PullRequest{
		Number:       gh.Ptr(pr.Number),
		Title:        gh.Ptr(pr.Title),
		State:        gh.Ptr(pr.State),
		Merged:       gh.Ptr(pr.Merged),
		User:         toUser(pr.Author),
		CreatedAt:    timestamp(pr.CreatedAt),
		UpdatedAt:    timestamp(pr.UpdatedAt),
		Additions:    gh.Ptr(pr.Additions),
		Deletions:    gh.Ptr(pr.Deletions),
		ChangedFiles: gh.Ptr(pr.ChangedFiles),
	}
	if pr.ClosedAt != nil {
		data.ClosedAt = timestamp(*pr.ClosedAt)
	}
	if pr.MergedAt != nil {
		data.MergedAt = timestamp(*pr.MergedAt)
	}

	return envelope{GitHubData: pullRequestData{
		PullRequest: data,
		Files:       files,
		Comments:    comments,
	}}
}

func toUser(u model.User) *gh.User {
	return &gh.User{
		Login:     gh.Ptr(u.Login),
		ID:        gh.Ptr(u.ID),
		Type:      gh.Ptr(u.Type),
		AvatarURL: optionalString(u.AvatarURL),
	}
}

func timestamp(t time.Time) *gh.Timestamp {
	if t.IsZero() {
		return nil
	}
	return &gh.Timestamp{Time: t}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
