// Package cache implements the PRSource and CacheWriter ports over the
// on-disk GitHub scraper cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PRSource = (*Loader)(nil)

// Loader reads cached pull requests laid out as
// <dir>/api.github.com/repos/<owner>/<repo>/pulls/<number>.json.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at the cache directory dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadRepository reads every pull request file of owner/repo. Supplementary
// files (those whose name contains "_") are skipped, as are files that fail
// to parse. The result is ordered by PR number.
func (l *Loader) LoadRepository(ctx context.Context, owner, repo string) ([]model.PullRequest, error) {
	r, err := model.ParseRepository(owner + "/" + repo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", driven.ErrRepositoryNotFound, err)
	}
	repoFullName := r.FullName()

	dir := pullsDir(l.dir, r)
	names, err := pullRequestFiles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", repoFullName, driven.ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	slog.Info("loading pull requests", "repo", repoFullName, "files", len(names))

	prs := make([]model.PullRequest, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		pr, err := readPullRequest(path, repoFullName)
		if err != nil {
			slog.Warn("skipping unreadable pull request file", "path", path, "error", err)
			continue
		}
		prs = append(prs, pr)
	}

	sort.SliceStable(prs, func(i, j int) bool {
		return prs[i].Number < prs[j].Number
	})

	slog.Info("pull requests loaded",
		"repo", repoFullName,
		"pull_requests", len(prs),
		"comments", model.CommentCount(prs),
	)

	return prs, nil
}

// ListRepositories returns every owner/repo that has a pulls directory in the
// cache. A missing cache directory yields an empty list.
func (l *Loader) ListRepositories(ctx context.Context) ([]string, error) {
	root := filepath.Join(l.dir, apiHost, "repos")

	owners, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	repos := []string{}
	for _, owner := range owners {
		if !owner.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(filepath.Join(root, owner.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading owner %s: %w", owner.Name(), err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			info, err := os.Stat(filepath.Join(root, owner.Name(), entry.Name(), "pulls"))
			if err != nil || !info.IsDir() {
				continue
			}
			repos = append(repos, owner.Name()+"/"+entry.Name())
		}
	}

	return repos, nil
}

const apiHost = "api.github.com"

func pullsDir(root string, r model.Repository) string {
	return filepath.Join(root, apiHost, "repos", r.Owner, r.Name, "pulls")
}

// pullRequestFiles lists the primary PR files in dir in lexical order.
func pullRequestFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if strings.Contains(strings.TrimSuffix(name, ".json"), "_") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func readPullRequest(path, repoFullName string) (model.PullRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PullRequest{}, fmt.Errorf("reading pull request file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.PullRequest{}, fmt.Errorf("decoding pull request file: %w", err)
	}

	return mapPullRequest(env.GitHubData, repoFullName), nil
}
