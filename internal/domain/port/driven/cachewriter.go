package driven

import (
	"context"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// CacheWriter defines the driven port for writing fetched pull requests into
// the on-disk scraper cache.
type CacheWriter interface {
	WritePullRequest(ctx context.Context, pr model.PullRequest) error
}
