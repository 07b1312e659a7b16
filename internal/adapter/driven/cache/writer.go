package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CacheWriter = (*Writer)(nil)

// Writer stores pull requests in the same layout Loader reads.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at the cache directory dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WritePullRequest writes pr to <number>.json, replacing any previous file
// atomically.
func (w *Writer) WritePullRequest(ctx context.Context, pr model.PullRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := model.ParseRepository(pr.Repo)
	if err != nil {
		return err
	}

	dir := pullsDir(w.dir, r)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(toEnvelope(pr), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s#%d: %w", pr.Repo, pr.Number, err)
	}

	path := filepath.Join(dir, strconv.Itoa(pr.Number)+".json")
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
