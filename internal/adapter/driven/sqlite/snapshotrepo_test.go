package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

func intRef(n int) *int { return &n }

func makePR(repoFullName string, number int, comments ...model.ReviewComment) model.PullRequest {
	created := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)
	for i := range comments {
		comments[i].PRNumber = number
		comments[i].Repo = repoFullName
	}

	return model.PullRequest{
		Repo:      repoFullName,
		Number:    number,
		Title:     "Test PR",
		State:     "open",
		Author:    model.User{Login: "alice", ID: 1, Type: "User"},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
		Additions: 10,
		Deletions: 1,
		Files: []model.FileChange{
			{Filename: "main.go", Status: "modified", Additions: 10, Deletions: 1, Changes: 11, Patch: "@@"},
			{Filename: "README.md", Status: "added", Additions: 3, Changes: 3},
		},
		Comments: comments,
	}
}

func makeReviewComment(id int64, login, body string) model.ReviewComment {
	return model.ReviewComment{
		ID:        id,
		Body:      body,
		Reviewer:  model.User{Login: login, ID: id, Type: "User"},
		CreatedAt: time.Date(2026, 1, 21, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 21, 9, 5, 0, 0, time.UTC),
		Path:      "main.go",
		Line:      intRef(12),
		DiffHunk:  "@@ -1,3 +1,4 @@",
		CommitID:  "abc123",
		Side:      "RIGHT",
		Language:  "go",
	}
}

func TestSnapshotRepo_ReplaceAndLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	merged := time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC)
	pr7 := makePR("octocat/hello-world", 7,
		makeReviewComment(701, "bob", "You should handle this error"),
		makeReviewComment(702, "dependabot[bot]", "lgtm"),
	)
	pr7.Merged = true
	pr7.MergedAt = &merged
	pr7.ClosedAt = &merged
	pr7.Comments[1].Line = nil
	pr7.Comments[1].OriginalPosition = intRef(3)

	pr2 := makePR("octocat/hello-world", 2)

	require.NoError(t, repo.ReplaceRepository(ctx, "octocat/hello-world", []model.PullRequest{pr7, pr2}))

	got, err := repo.LoadRepository(ctx, "octocat", "hello-world")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].Number, "ordered by number")
	assert.Empty(t, got[0].Comments)
	assert.Len(t, got[0].Files, 2)

	p := got[1]
	assert.Equal(t, "octocat/hello-world", p.Repo)
	assert.True(t, p.Merged)
	require.NotNil(t, p.MergedAt)
	assert.True(t, merged.Equal(*p.MergedAt))
	assert.True(t, pr7.CreatedAt.Equal(p.CreatedAt))
	assert.Equal(t, pr7.Author, p.Author)
	assert.Equal(t, pr7.Files, p.Files)

	require.Len(t, p.Comments, 2)
	assert.Equal(t, int64(701), p.Comments[0].ID)
	assert.Equal(t, 7, p.Comments[0].PRNumber)
	assert.Equal(t, "octocat/hello-world", p.Comments[0].Repo)
	assert.Equal(t, 12, *p.Comments[0].Line)
	assert.Equal(t, "go", p.Comments[0].Language)
	assert.Equal(t, "dependabot[bot]", p.Comments[1].Reviewer.Login)
	assert.Nil(t, p.Comments[1].Line)
	assert.Equal(t, 3, *p.Comments[1].OriginalPosition)
	assert.True(t, pr7.Comments[0].UpdatedAt.Equal(p.Comments[0].UpdatedAt))
}

func TestSnapshotRepo_ReplaceDiscardsPrevious(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	first := []model.PullRequest{
		makePR("octocat/hello-world", 1, makeReviewComment(1, "bob", "first")),
		makePR("octocat/hello-world", 2),
	}
	require.NoError(t, repo.ReplaceRepository(ctx, "octocat/hello-world", first))

	second := []model.PullRequest{
		makePR("octocat/hello-world", 1, makeReviewComment(2, "carol", "second")),
	}
	require.NoError(t, repo.ReplaceRepository(ctx, "octocat/hello-world", second))

	got, err := repo.LoadRepository(ctx, "octocat", "hello-world")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Comments, 1)
	assert.Equal(t, "second", got[0].Comments[0].Body)

	var orphans int
	require.NoError(t, db.Reader.QueryRow(`SELECT COUNT(*) FROM review_comments`).Scan(&orphans))
	assert.Equal(t, 1, orphans)
}

func TestSnapshotRepo_RepositoriesAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceRepository(ctx, "octocat/hello-world",
		[]model.PullRequest{makePR("octocat/hello-world", 1, makeReviewComment(1, "bob", "a"))}))
	require.NoError(t, repo.ReplaceRepository(ctx, "acme/widgets",
		[]model.PullRequest{makePR("acme/widgets", 1, makeReviewComment(2, "bob", "b"))}))

	got, err := repo.LoadRepository(ctx, "acme", "widgets")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Comments, 1)
	assert.Equal(t, "b", got[0].Comments[0].Body)

	repos, err := repo.ListRepositories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/widgets", "octocat/hello-world"}, repos)
}

func TestSnapshotRepo_EmptyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceRepository(ctx, "octocat/empty", nil))

	got, err := repo.LoadRepository(ctx, "octocat", "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSnapshotRepo_NotFound(t *testing.T) {
	repo := NewSnapshotRepo(setupTestDB(t))

	_, err := repo.LoadRepository(context.Background(), "octocat", "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, driven.ErrRepositoryNotFound))
}

func TestSnapshotRepo_InvalidName(t *testing.T) {
	repo := NewSnapshotRepo(setupTestDB(t))

	err := repo.ReplaceRepository(context.Background(), "not-a-repo", nil)

	assert.Error(t, err)
}

func TestNewDB_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")

	db, err := NewDB(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db.Writer))
	// A second run is a no-op.
	require.NoError(t, RunMigrations(db.Writer))

	assert.Equal(t, path, db.Path())

	var mode string
	require.NoError(t, db.Reader.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestParseTime(t *testing.T) {
	for _, in := range []string{
		"2026-01-20T10:00:00Z",
		"2026-01-20 10:00:00",
		"2026-01-20T10:00:00.123456789Z",
		"2026-01-20T10:00:00+02:00",
	} {
		_, err := parseTime(in)
		assert.NoError(t, err, in)
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
