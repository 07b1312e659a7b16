// Package cli is the command-line driving adapter. Each subcommand wires the
// driven adapters it needs from the loaded configuration.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/reviewsift/internal/adapter/driven/github"
	"github.com/ericfisherdev/reviewsift/internal/config"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

// App carries the configuration and the adapter factories shared by every
// subcommand.
type App struct {
	cfg     *config.Config
	version string

	// newGitHubClient builds the client used by sync. Tests replace it.
	newGitHubClient func(token string) driven.GitHubClient
}

// NewApp creates an App using the real GitHub client.
func NewApp(cfg *config.Config, version string) *App {
	return &App{
		cfg:     cfg,
		version: version,
		newGitHubClient: func(token string) driven.GitHubClient {
			return githubadapter.NewClient(token)
		},
	}
}

// RootCommand builds the reviewsift command tree. Errors are returned to the
// caller rather than printed, so the composition root decides how to report
// them.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "reviewsift",
		Short: "Classify GitHub pull request review comments",
		Long: "reviewsift separates actionable review feedback from acknowledgements and\n" +
			"noise, and reports where reviewers ask for changes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfg.CacheDir, "cache-dir", a.cfg.CacheDir, "scraper cache directory")
	root.PersistentFlags().StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "SQLite snapshot path")

	root.AddCommand(
		a.analyzeCommand(),
		a.classifyCommand(),
		a.syncCommand(),
		a.importCommand(),
		a.reposCommand(),
		a.serveCommand(),
		a.versionCommand(),
	)

	return root
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print reviewsift version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "reviewsift version %s\n", a.version)
			return err
		},
	}
}
