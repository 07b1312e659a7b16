package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SnapshotStore = (*SnapshotRepo)(nil)

// SnapshotRepo is the SQLite implementation of the SnapshotStore port.
type SnapshotRepo struct {
	db *DB
}

// NewSnapshotRepo creates a new SnapshotRepo backed by the given DB.
func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// ReplaceRepository deletes the stored snapshot of repoFullName and writes prs
// in its place inside a single transaction. Dependent rows go through
// ON DELETE CASCADE.
func (r *SnapshotRepo) ReplaceRepository(ctx context.Context, repoFullName string, prs []model.PullRequest) error {
	repo, err := model.ParseRepository(repoFullName)
	if err != nil {
		return err
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot of %s: %w", repoFullName, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM repositories WHERE full_name = ?`, repoFullName); err != nil {
		return fmt.Errorf("clear snapshot of %s: %w", repoFullName, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO repositories (full_name, owner, name) VALUES (?, ?, ?)`,
		repoFullName, repo.Owner, repo.Name,
	); err != nil {
		return fmt.Errorf("insert repository %s: %w", repoFullName, err)
	}

	for _, pr := range prs {
		if err := insertPullRequest(ctx, tx, repoFullName, pr); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot of %s: %w", repoFullName, err)
	}

	return nil
}

func insertPullRequest(ctx context.Context, tx *sql.Tx, repoFullName string, pr model.PullRequest) error {
	const prQuery = `
		INSERT INTO pull_requests (
			repo_full_name, number, title, state, merged,
			author_login, author_id, author_type, author_avatar_url,
			created_at, updated_at, closed_at, merged_at,
			additions, deletions, changed_files
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, prQuery,
		repoFullName, pr.Number, pr.Title, pr.State, boolToInt(pr.Merged),
		pr.Author.Login, pr.Author.ID, pr.Author.Type, pr.Author.AvatarURL,
		formatTime(pr.CreatedAt), formatTime(pr.UpdatedAt),
		formatOptionalTime(pr.ClosedAt), formatOptionalTime(pr.MergedAt),
		pr.Additions, pr.Deletions, pr.ChangedFiles,
	)
	if err != nil {
		return fmt.Errorf("insert pull request %s#%d: %w", repoFullName, pr.Number, err)
	}

	prID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("pull request id for %s#%d: %w", repoFullName, pr.Number, err)
	}

	const fileQuery = `
		INSERT INTO file_changes (pr_id, seq, filename, status, additions, deletions, changes, patch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, f := range pr.Files {
		if _, err := tx.ExecContext(ctx, fileQuery,
			prID, i, f.Filename, f.Status, f.Additions, f.Deletions, f.Changes, f.Patch,
		); err != nil {
			return fmt.Errorf("insert file %s for %s#%d: %w", f.Filename, repoFullName, pr.Number, err)
		}
	}

	const commentQuery = `
		INSERT INTO review_comments (
			pr_id, seq, github_id, body,
			reviewer_login, reviewer_id, reviewer_type, reviewer_avatar_url,
			created_at, updated_at, path, line, original_line, diff_hunk,
			commit_id, original_commit_id, side, start_side,
			position, original_position, language
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, c := range pr.Comments {
		if _, err := tx.ExecContext(ctx, commentQuery,
			prID, i, c.ID, c.Body,
			c.Reviewer.Login, c.Reviewer.ID, c.Reviewer.Type, c.Reviewer.AvatarURL,
			formatTime(c.CreatedAt), formatTime(c.UpdatedAt), c.Path,
			nullInt(c.Line), nullInt(c.OriginalLine), c.DiffHunk,
			c.CommitID, c.OriginalCommitID, c.Side, c.StartSide,
			nullInt(c.Position), nullInt(c.OriginalPosition), c.Language,
		); err != nil {
			return fmt.Errorf("insert comment %d for %s#%d: %w", c.ID, repoFullName, pr.Number, err)
		}
	}

	return nil
}

// LoadRepository returns the stored pull requests of owner/repo ordered by
// number, with files and comments in their original order.
func (r *SnapshotRepo) LoadRepository(ctx context.Context, owner, repo string) ([]model.PullRequest, error) {
	repoFullName := owner + "/" + repo

	var exists int
	err := r.db.Reader.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM repositories WHERE full_name = ?`, repoFullName,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("look up repository %s: %w", repoFullName, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%s: %w", repoFullName, driven.ErrRepositoryNotFound)
	}

	prs, ids, err := r.queryPullRequests(ctx, repoFullName)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	if err := r.attachFiles(ctx, repoFullName, prs, index); err != nil {
		return nil, err
	}
	if err := r.attachComments(ctx, repoFullName, prs, index); err != nil {
		return nil, err
	}

	return prs, nil
}

// ListRepositories returns every snapshotted repository ordered by name.
func (r *SnapshotRepo) ListRepositories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Reader.QueryContext(ctx, `SELECT full_name FROM repositories ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("query repositories: %w", err)
	}
	defer rows.Close()

	repos := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan repository: %w", err)
		}
		repos = append(repos, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repositories: %w", err)
	}

	return repos, nil
}

func (r *SnapshotRepo) queryPullRequests(ctx context.Context, repoFullName string) ([]model.PullRequest, []int64, error) {
	const query = `
		SELECT id, number, title, state, merged,
		       author_login, author_id, author_type, author_avatar_url,
		       created_at, updated_at, closed_at, merged_at,
		       additions, deletions, changed_files
		FROM pull_requests
		WHERE repo_full_name = ?
		ORDER BY number
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repoFullName)
	if err != nil {
		return nil, nil, fmt.Errorf("query pull requests: %w", err)
	}
	defer rows.Close()

	prs := []model.PullRequest{}
	var ids []int64
	for rows.Next() {
		id, pr, err := scanPullRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scan pull request: %w", err)
		}
		pr.Repo = repoFullName
		prs = append(prs, pr)
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate pull requests: %w", err)
	}

	return prs, ids, nil
}

func scanPullRequest(s scanner) (int64, model.PullRequest, error) {
	var (
		id                                      int64
		pr                                      model.PullRequest
		merged                                  int
		createdAt, updatedAt, closedAt, mergedAt sql.NullString
	)

	err := s.Scan(
		&id, &pr.Number, &pr.Title, &pr.State, &merged,
		&pr.Author.Login, &pr.Author.ID, &pr.Author.Type, &pr.Author.AvatarURL,
		&createdAt, &updatedAt, &closedAt, &mergedAt,
		&pr.Additions, &pr.Deletions, &pr.ChangedFiles,
	)
	if err != nil {
		return 0, pr, err
	}

	pr.Merged = merged != 0

	if pr.CreatedAt, err = scanTime(createdAt); err != nil {
		return 0, pr, fmt.Errorf("parse created_at: %w", err)
	}
	if pr.UpdatedAt, err = scanTime(updatedAt); err != nil {
		return 0, pr, fmt.Errorf("parse updated_at: %w", err)
	}
	if pr.ClosedAt, err = scanOptionalTime(closedAt); err != nil {
		return 0, pr, fmt.Errorf("parse closed_at: %w", err)
	}
	if pr.MergedAt, err = scanOptionalTime(mergedAt); err != nil {
		return 0, pr, fmt.Errorf("parse merged_at: %w", err)
	}

	return id, pr, nil
}

func (r *SnapshotRepo) attachFiles(ctx context.Context, repoFullName string, prs []model.PullRequest, index map[int64]int) error {
	const query = `
		SELECT f.pr_id, f.filename, f.status, f.additions, f.deletions, f.changes, f.patch
		FROM file_changes f
		JOIN pull_requests p ON p.id = f.pr_id
		WHERE p.repo_full_name = ?
		ORDER BY f.pr_id, f.seq
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repoFullName)
	if err != nil {
		return fmt.Errorf("query file changes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var prID int64
		var f model.FileChange
		if err := rows.Scan(&prID, &f.Filename, &f.Status, &f.Additions, &f.Deletions, &f.Changes, &f.Patch); err != nil {
			return fmt.Errorf("scan file change: %w", err)
		}
		if i, ok := index[prID]; ok {
			prs[i].Files = append(prs[i].Files, f)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate file changes: %w", err)
	}

	return nil
}

func (r *SnapshotRepo) attachComments(ctx context.Context, repoFullName string, prs []model.PullRequest, index map[int64]int) error {
	const query = `
		SELECT c.pr_id, c.github_id, c.body,
		       c.reviewer_login, c.reviewer_id, c.reviewer_type, c.reviewer_avatar_url,
		       c.created_at, c.updated_at, c.path, c.line, c.original_line, c.diff_hunk,
		       c.commit_id, c.original_commit_id, c.side, c.start_side,
		       c.position, c.original_position, c.language
		FROM review_comments c
		JOIN pull_requests p ON p.id = c.pr_id
		WHERE p.repo_full_name = ?
		ORDER BY c.pr_id, c.seq
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repoFullName)
	if err != nil {
		return fmt.Errorf("query review comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		prID, c, err := scanReviewComment(rows)
		if err != nil {
			return fmt.Errorf("scan review comment: %w", err)
		}

		i, ok := index[prID]
		if !ok {
			continue
		}
		c.Repo = repoFullName
		c.PRNumber = prs[i].Number
		prs[i].Comments = append(prs[i].Comments, c)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate review comments: %w", err)
	}

	return nil
}

func scanReviewComment(s scanner) (int64, model.ReviewComment, error) {
	var (
		prID                                  int64
		c                                     model.ReviewComment
		createdAt, updatedAt                  sql.NullString
		line, originalLine, position, origPos sql.NullInt64
	)

	err := s.Scan(
		&prID, &c.ID, &c.Body,
		&c.Reviewer.Login, &c.Reviewer.ID, &c.Reviewer.Type, &c.Reviewer.AvatarURL,
		&createdAt, &updatedAt, &c.Path, &line, &originalLine, &c.DiffHunk,
		&c.CommitID, &c.OriginalCommitID, &c.Side, &c.StartSide,
		&position, &origPos, &c.Language,
	)
	if err != nil {
		return 0, c, err
	}

	if c.CreatedAt, err = scanTime(createdAt); err != nil {
		return 0, c, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = scanTime(updatedAt); err != nil {
		return 0, c, fmt.Errorf("parse updated_at: %w", err)
	}

	c.Line = intPtr(line)
	c.OriginalLine = intPtr(originalLine)
	c.Position = intPtr(position)
	c.OriginalPosition = intPtr(origPos)

	return prID, c, nil
}
