package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewsift/internal/adapter/driven/cache"
	"github.com/ericfisherdev/reviewsift/internal/application"
)

var errNoToken = errors.New("a GitHub token is required: set REVIEWSIFT_GITHUB_TOKEN or GITHUB_TOKEN")

func (a *App) syncCommand() *cobra.Command {
	var (
		state string
		since string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "sync <owner>/<repo>",
		Short: "Download pull requests and review comments from GitHub into the cache",
		Example: `  reviewsift sync octocat/hello-world --since "1 month ago"
  reviewsift sync octocat/hello-world --state closed --limit 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch state {
			case "open", "closed", "all":
			default:
				return fmt.Errorf("invalid --state %q: expected open, closed or all", state)
			}
			if !a.cfg.HasGitHubToken() {
				return errNoToken
			}

			var sinceTime time.Time
			if since != "" {
				t, err := parseDate(since, time.Now())
				if err != nil {
					return fmt.Errorf("invalid --since value %q: %w", since, err)
				}
				sinceTime = startOfDay(t)
			}

			svc := application.NewSyncService(a.newGitHubClient(a.cfg.GitHubToken), cache.NewWriter(a.cfg.CacheDir))
			result, err := svc.Sync(cmd.Context(), args[0], application.SyncOptions{
				State: state,
				Since: sinceTime,
				Limit: limit,
			})

			if result.Listed > 0 || err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "synced %s: %d of %d pull requests, %d review comments",
					result.Repo, result.Written, result.Listed, result.Comments)
				if result.Failed > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", result.Failed)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}

			return err
		},
	}

	cmd.Flags().StringVar(&state, "state", "all", "pull request state to fetch (open, closed, all)")
	cmd.Flags().StringVar(&since, "since", "", `only pull requests updated on or after, e.g. "2026-01-28", "2 weeks ago"`)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum pull requests to fetch (0 for no limit)")

	return cmd
}
