package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewsift/internal/adapter/driven/cache"
	"github.com/ericfisherdev/reviewsift/internal/application"
	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

func (a *App) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <owner>/<repo>",
		Short: "Copy a cached repository into the SQLite snapshot",
		Long: "import replaces the snapshot of a repository with the current cache\n" +
			"contents, so later analyses can run with --source db.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := model.ParseRepository(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, closeStore, err := a.openSnapshot(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := closeStore(); closeErr != nil {
					slog.Error("error closing database", "error", closeErr)
				}
			}()

			svc := application.NewSnapshotService(cache.NewLoader(a.cfg.CacheDir), store)
			result, err := svc.Import(ctx, repo.Owner, repo.Name)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d pull requests, %d review comments into %s\n",
				result.Repo, result.PullRequests, result.Comments, a.cfg.DBPath)
			return err
		},
	}
}

func (a *App) reposCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List repositories available to analyze",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			src, closeSource, err := a.openSource(ctx, source)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := closeSource(); closeErr != nil {
					slog.Error("error closing source", "error", closeErr)
				}
			}()

			repos, err := application.NewAnalysisService(src).Repositories(ctx)
			if err != nil {
				return err
			}

			for _, r := range repos {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", sourceCache, "where to list repositories from (cache, db)")

	return cmd
}
