package model

import "time"

// PullRequest is a cached pull request with its changed files and inline
// review comments.
type PullRequest struct {
	Repo   string
	Number int
	Title  string
	State  string // open, closed
	Merged bool

	Author User

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
	MergedAt  *time.Time

	Additions    int
	Deletions    int
	ChangedFiles int
	Files        []FileChange

	Comments []ReviewComment
}

// FileChange describes a single file touched by a pull request.
type FileChange struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	Changes   int
	Patch     string
}

// CommentCount returns the total number of inline review comments across prs.
func CommentCount(prs []PullRequest) int {
	n := 0
	for _, pr := range prs {
		n += len(pr.Comments)
	}
	return n
}

// FlattenComments returns every review comment of prs in PR order.
func FlattenComments(prs []PullRequest) []ReviewComment {
	comments := make([]ReviewComment, 0, CommentCount(prs))
	for _, pr := range prs {
		comments = append(comments, pr.Comments...)
	}
	return comments
}
