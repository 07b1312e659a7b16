package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewsift/internal/application"
	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	listed      []model.PullRequest
	listErr     error
	failDetail  map[int]bool
	gotState    string
	gotSince    time.Time
	detailCalls []int
}

func (m *mockGitHubClient) FetchPullRequests(_ context.Context, _ string, state string, since time.Time) ([]model.PullRequest, error) {
	m.gotState = state
	m.gotSince = since
	return m.listed, m.listErr
}

func (m *mockGitHubClient) FetchPRDetail(_ context.Context, repoFullName string, prNumber int) (*model.PullRequest, error) {
	m.detailCalls = append(m.detailCalls, prNumber)
	if m.failDetail[prNumber] {
		return nil, errors.New("boom")
	}
	return &model.PullRequest{Repo: repoFullName, Number: prNumber, Title: "detail", Additions: 5}, nil
}

func (m *mockGitHubClient) FetchFiles(_ context.Context, _ string, _ int) ([]model.FileChange, error) {
	return []model.FileChange{{Filename: "main.go", Status: "modified"}}, nil
}

func (m *mockGitHubClient) FetchReviewComments(_ context.Context, repoFullName string, prNumber int) ([]model.ReviewComment, error) {
	return []model.ReviewComment{
		{ID: int64(prNumber * 10), PRNumber: prNumber, Repo: repoFullName, Body: "nit", DiffHunk: "@@"},
		{ID: int64(prNumber*10 + 1), PRNumber: prNumber, Repo: repoFullName, Body: "fix", DiffHunk: "@@"},
	}, nil
}

type mockCacheWriter struct {
	written []model.PullRequest
	err     error
}

func (m *mockCacheWriter) WritePullRequest(_ context.Context, pr model.PullRequest) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, pr)
	return nil
}

func listedPRs(numbers ...int) []model.PullRequest {
	prs := make([]model.PullRequest, 0, len(numbers))
	for _, n := range numbers {
		prs = append(prs, model.PullRequest{Repo: "octocat/hello-world", Number: n})
	}
	return prs
}

func TestSync_WritesEachPullRequest(t *testing.T) {
	gh := &mockGitHubClient{listed: listedPRs(3, 2, 1)}
	writer := &mockCacheWriter{}
	svc := application.NewSyncService(gh, writer)

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.Sync(context.Background(), "octocat/hello-world", application.SyncOptions{Since: since})

	require.NoError(t, err)
	assert.Equal(t, "all", gh.gotState, "empty state defaults to all")
	assert.Equal(t, since, gh.gotSince)
	assert.Equal(t, application.SyncResult{Repo: "octocat/hello-world", Listed: 3, Written: 3, Comments: 6}, result)

	require.Len(t, writer.written, 3)
	pr := writer.written[0]
	assert.Equal(t, 3, pr.Number)
	assert.Equal(t, "detail", pr.Title)
	assert.Equal(t, 5, pr.Additions)
	assert.Len(t, pr.Files, 1)
	assert.Len(t, pr.Comments, 2)
}

func TestSync_Limit(t *testing.T) {
	gh := &mockGitHubClient{listed: listedPRs(5, 4, 3, 2, 1)}
	writer := &mockCacheWriter{}
	svc := application.NewSyncService(gh, writer)

	result, err := svc.Sync(context.Background(), "octocat/hello-world", application.SyncOptions{State: "closed", Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, "closed", gh.gotState)
	assert.Equal(t, 2, result.Listed)
	assert.Equal(t, []int{5, 4}, gh.detailCalls)
}

func TestSync_PartialFailure(t *testing.T) {
	gh := &mockGitHubClient{listed: listedPRs(3, 2, 1), failDetail: map[int]bool{2: true}}
	writer := &mockCacheWriter{}
	svc := application.NewSyncService(gh, writer)

	result, err := svc.Sync(context.Background(), "octocat/hello-world", application.SyncOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrSyncIncomplete)
	assert.Equal(t, 2, result.Written)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, writer.written, 2)
}

func TestSync_WriteErrorAborts(t *testing.T) {
	gh := &mockGitHubClient{listed: listedPRs(3, 2, 1)}
	writer := &mockCacheWriter{err: errors.New("disk full")}
	svc := application.NewSyncService(gh, writer)

	result, err := svc.Sync(context.Background(), "octocat/hello-world", application.SyncOptions{})

	require.Error(t, err)
	assert.NotErrorIs(t, err, application.ErrSyncIncomplete)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []int{3}, gh.detailCalls)
	assert.Equal(t, 0, result.Written)
}

func TestSync_ListError(t *testing.T) {
	gh := &mockGitHubClient{listErr: errors.New("rate limited")}
	svc := application.NewSyncService(gh, &mockCacheWriter{})

	_, err := svc.Sync(context.Background(), "octocat/hello-world", application.SyncOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestSync_InvalidRepo(t *testing.T) {
	gh := &mockGitHubClient{}
	svc := application.NewSyncService(gh, &mockCacheWriter{})

	_, err := svc.Sync(context.Background(), "not-a-repo", application.SyncOptions{})

	require.Error(t, err)
	assert.Empty(t, gh.gotState, "GitHub is never called")
}

func TestSync_CanceledContext(t *testing.T) {
	gh := &mockGitHubClient{listed: listedPRs(1)}
	svc := application.NewSyncService(gh, &mockCacheWriter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Sync(ctx, "octocat/hello-world", application.SyncOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gh.detailCalls)
}
