package model

import "time"

// ReviewComment represents an inline code review comment together with the
// diff context it was left on.
type ReviewComment struct {
	ID       int64
	PRNumber int
	Repo     string // "owner/name"

	Body      string
	Reviewer  User
	CreatedAt time.Time
	UpdatedAt time.Time

	Path             string
	Line             *int // nil for file-level comments.
	OriginalLine     *int
	DiffHunk         string
	CommitID         string
	OriginalCommitID string
	Side             string // LEFT or RIGHT
	StartSide        string
	Position         *int
	OriginalPosition *int

	// Language is derived from Path; empty when the extension is not recognized.
	Language string
}
