package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

// ImportResult summarizes a snapshot import.
type ImportResult struct {
	Repo         string
	PullRequests int
	Comments     int
}

// SnapshotService copies repositories from a PRSource into a SnapshotStore.
type SnapshotService struct {
	source driven.PRSource
	store  driven.SnapshotStore
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(source driven.PRSource, store driven.SnapshotStore) *SnapshotService {
	return &SnapshotService{source: source, store: store}
}

// Import loads owner/repo from the source and replaces its snapshot.
func (s *SnapshotService) Import(ctx context.Context, owner, repo string) (ImportResult, error) {
	repoFullName := owner + "/" + repo
	result := ImportResult{Repo: repoFullName}

	prs, err := s.source.LoadRepository(ctx, owner, repo)
	if err != nil {
		return result, fmt.Errorf("load %s: %w", repoFullName, err)
	}

	if err := s.store.ReplaceRepository(ctx, repoFullName, prs); err != nil {
		return result, fmt.Errorf("store %s: %w", repoFullName, err)
	}

	result.PullRequests = len(prs)
	result.Comments = model.CommentCount(prs)

	slog.Info("snapshot imported",
		"repo", repoFullName,
		"pull_requests", result.PullRequests,
		"comments", result.Comments,
	)

	return result, nil
}
