// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// ErrRepositoryNotFound indicates the source holds no data for the requested
// repository.
var ErrRepositoryNotFound = errors.New("repository not found")

// PRSource defines the driven port for loading pull requests with their inline
// review comments. Implementations return pull requests ordered by number and
// their comments in source order. LoadRepository returns ErrRepositoryNotFound if
// the repository is unknown to the source.
type PRSource interface {
	LoadRepository(ctx context.Context, owner, repo string) ([]model.PullRequest, error)
	// ListRepositories returns the "owner/name" of every repository the
	// source holds, ordered alphabetically.
	ListRepositories(ctx context.Context) ([]string, error)
}
