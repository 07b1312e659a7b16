package driven

import (
	"context"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// SnapshotStore defines the driven port for persisting loaded pull requests
// and their raw review comments. Classification results are never stored.
type SnapshotStore interface {
	PRSource
	// ReplaceRepository stores prs as the complete snapshot of repoFullName,
	// discarding whatever was stored for it before.
	ReplaceRepository(ctx context.Context, repoFullName string, prs []model.PullRequest) error
}
