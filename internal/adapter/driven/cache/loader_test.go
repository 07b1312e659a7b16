package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

const pr12JSON = `{
  "github_data": {
    "number": 12,
    "title": "Add retry loop",
    "state": "closed",
    "merged": true,
    "user": {"login": "alice", "id": 1, "type": "User", "avatar_url": "https://example.com/a.png"},
    "created_at": "2025-11-01T10:00:00Z",
    "updated_at": "2025-11-03T10:00:00Z",
    "closed_at": "2025-11-03T10:00:00Z",
    "merged_at": "2025-11-03T10:00:00Z",
    "additions": 40,
    "deletions": 2,
    "changed_files": 2,
    "comments": [
      {
        "id": 1001,
        "body": "You should use context.Context here",
        "user": {"login": "bob", "id": 2, "type": "User"},
        "created_at": "2025-11-02T09:00:00Z",
        "updated_at": "2025-11-02T09:30:00Z",
        "path": "pkg/retry/retry.go",
        "line": 17,
        "original_line": 15,
        "diff_hunk": "@@ -10,3 +10,8 @@",
        "commit_id": "abc123",
        "original_commit_id": "abc000",
        "side": "RIGHT",
        "position": 4
      },
      {
        "id": 1002,
        "body": "General remark without a hunk",
        "user": {"login": "bob", "id": 2, "type": "User"},
        "path": "README.md"
      },
      {
        "id": 1003,
        "body": "Bump",
        "diff_hunk": "@@ -1 +1 @@",
        "path": "deploy/values.YML"
      }
    ],
    "files": [
      {"filename": "pkg/retry/retry.go", "status": "modified", "additions": 38, "deletions": 2, "changes": 40, "patch": "@@ -10,3 +10,8 @@"},
      {"filename": "README.md", "status": "modified", "additions": 2, "deletions": 0, "changes": 2}
    ]
  }
}`

const pr3JSON = `{"github_data": {"number": 3, "title": "Docs", "state": "open", "comments": []}}`

func writeCacheFile(t *testing.T, root, owner, repo, name, content string) {
	t.Helper()

	dir := filepath.Join(root, apiHost, "repos", owner, repo, "pulls")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadRepository(t *testing.T) {
	root := t.TempDir()
	writeCacheFile(t, root, "octocat", "hello-world", "12.json", pr12JSON)
	writeCacheFile(t, root, "octocat", "hello-world", "3.json", pr3JSON)
	writeCacheFile(t, root, "octocat", "hello-world", "12_reviews.json", `{"not": "a pr"}`)
	writeCacheFile(t, root, "octocat", "hello-world", "notes.txt", "ignored")

	prs, err := NewLoader(root).LoadRepository(context.Background(), "octocat", "hello-world")
	require.NoError(t, err)
	require.Len(t, prs, 2)

	// Ordered by number even though "12.json" sorts before "3.json".
	assert.Equal(t, 3, prs[0].Number)
	assert.Equal(t, 12, prs[1].Number)

	pr := prs[1]
	assert.Equal(t, "octocat/hello-world", pr.Repo)
	assert.Equal(t, "Add retry loop", pr.Title)
	assert.Equal(t, "closed", pr.State)
	assert.True(t, pr.Merged)
	assert.Equal(t, model.User{Login: "alice", ID: 1, Type: "User", AvatarURL: "https://example.com/a.png"}, pr.Author)
	assert.Equal(t, time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC), pr.CreatedAt.UTC())
	require.NotNil(t, pr.MergedAt)
	assert.Equal(t, 40, pr.Additions)
	assert.Equal(t, 2, pr.ChangedFiles)
	require.Len(t, pr.Files, 2)
	assert.Equal(t, "pkg/retry/retry.go", pr.Files[0].Filename)
	assert.Empty(t, pr.Files[1].Patch)

	// The comment without a diff hunk is dropped.
	require.Len(t, pr.Comments, 2)

	c := pr.Comments[0]
	assert.Equal(t, int64(1001), c.ID)
	assert.Equal(t, 12, c.PRNumber)
	assert.Equal(t, "octocat/hello-world", c.Repo)
	assert.Equal(t, "bob", c.Reviewer.Login)
	assert.Equal(t, "go", c.Language)
	require.NotNil(t, c.Line)
	assert.Equal(t, 17, *c.Line)
	require.NotNil(t, c.OriginalLine)
	assert.Equal(t, 15, *c.OriginalLine)
	assert.Nil(t, c.OriginalPosition)
	assert.Equal(t, "RIGHT", c.Side)
	assert.Equal(t, "abc000", c.OriginalCommitID)
	assert.Equal(t, time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC), c.CreatedAt.UTC())
}

func TestLoadRepository_Defaults(t *testing.T) {
	root := t.TempDir()
	writeCacheFile(t, root, "octocat", "hello-world", "12.json", pr12JSON)

	prs, err := NewLoader(root).LoadRepository(context.Background(), "octocat", "hello-world")
	require.NoError(t, err)

	c := prs[0].Comments[1]
	assert.Equal(t, model.User{Login: "unknown", Type: "User"}, c.Reviewer)
	assert.Equal(t, "yaml", c.Language)
	assert.Nil(t, c.Line)
	assert.True(t, c.CreatedAt.IsZero())

	assert.Equal(t, model.User{Login: "unknown", Type: "User"}, mapUser(nil))
}

func TestLoadRepository_SkipsInvalidFiles(t *testing.T) {
	root := t.TempDir()
	writeCacheFile(t, root, "octocat", "hello-world", "1.json", "{not json")
	writeCacheFile(t, root, "octocat", "hello-world", "3.json", pr3JSON)

	prs, err := NewLoader(root).LoadRepository(context.Background(), "octocat", "hello-world")

	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, 3, prs[0].Number)
	assert.Empty(t, prs[0].Comments)
}

func TestLoadRepository_NotFound(t *testing.T) {
	loader := NewLoader(t.TempDir())

	_, err := loader.LoadRepository(context.Background(), "octocat", "missing")
	assert.True(t, errors.Is(err, driven.ErrRepositoryNotFound))

	_, err = loader.LoadRepository(context.Background(), "..", "etc")
	assert.True(t, errors.Is(err, driven.ErrRepositoryNotFound))
}

func TestLoadRepository_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writeCacheFile(t, root, "octocat", "hello-world", "3.json", pr3JSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(root).LoadRepository(ctx, "octocat", "hello-world")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListRepositories(t *testing.T) {
	root := t.TempDir()
	writeCacheFile(t, root, "octocat", "hello-world", "1.json", pr3JSON)
	writeCacheFile(t, root, "acme", "widgets", "1.json", pr3JSON)
	require.NoError(t, os.MkdirAll(filepath.Join(root, apiHost, "repos", "acme", "no-pulls"), 0o755))

	repos, err := NewLoader(root).ListRepositories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"acme/widgets", "octocat/hello-world"}, repos)
}

func TestListRepositories_EmptyCache(t *testing.T) {
	repos, err := NewLoader(filepath.Join(t.TempDir(), "absent")).ListRepositories(context.Background())

	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"main.go":          "go",
		"web/App.TSX":      "typescript",
		"scripts/run.sh":   "shell",
		"include/x.hpp":    "cpp",
		"README.md":        "markdown",
		"Makefile":         "",
		"archive.tar.gz":   "",
		"config/app.yml":   "yaml",
		"src/lib.rs":       "rust",
		"Service.cs":       "csharp",
		".github/ci.yaml":  "yaml",
		"schema/file.json": "json",
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, detectLanguage(path))
		})
	}
}
