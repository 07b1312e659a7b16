package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewsift/internal/adapter/driving/report"
	"github.com/ericfisherdev/reviewsift/internal/application"
	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

type analyzeFlags struct {
	excludeBots     bool
	compare         bool
	source          string
	since           string
	until           string
	format          string
	out             string
	samples         int
	includeFiltered bool
}

func (a *App) analyzeCommand() *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <owner>/<repo>",
		Short: "Classify every review comment of a repository and report the result",
		Example: `  reviewsift analyze kubernetes/kubernetes
  reviewsift analyze octocat/hello-world --exclude-bots --format markdown
  reviewsift analyze octocat/hello-world --compare --since "2 weeks ago"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.excludeBots, "exclude-bots", a.cfg.ExcludeBots, "drop comments written by bots before classifying")
	cmd.Flags().BoolVar(&f.compare, "compare", false, "report with and without bot comments side by side")
	cmd.Flags().StringVar(&f.source, "source", sourceCache, "where to read comments from (cache, db)")
	cmd.Flags().StringVar(&f.since, "since", "", `only comments created on or after, e.g. "2026-01-28", "2 weeks ago"`)
	cmd.Flags().StringVar(&f.until, "until", "", `only comments created on or before, e.g. "2026-02-04", "yesterday"`)
	cmd.Flags().StringVar(&f.format, "format", a.cfg.Format, fmt.Sprintf("output format %v", report.Formats()))
	cmd.Flags().StringVar(&f.out, "out", "", "output file path (default: stdout)")
	cmd.Flags().IntVar(&f.samples, "samples", report.DefaultSamples, "sample actionable comments to list; negative for none")
	cmd.Flags().BoolVar(&f.includeFiltered, "include-filtered", false, "include every classified comment in json and yaml output")

	return cmd
}

func (a *App) runAnalyze(cmd *cobra.Command, repoArg string, f analyzeFlags) error {
	repo, err := model.ParseRepository(repoArg)
	if err != nil {
		return err
	}

	if f.compare && cmd.Flags().Changed("exclude-bots") {
		return errors.New("--compare and --exclude-bots cannot be combined")
	}

	since, until, err := parseWindow(f.since, f.until, time.Now())
	if err != nil {
		return err
	}

	writer, err := report.GetWriter(f.format, report.Options{
		Samples:         f.samples,
		IncludeFiltered: f.includeFiltered,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	source, closeSource, err := a.openSource(ctx, f.source)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeSource(); closeErr != nil {
			slog.Error("error closing source", "error", closeErr)
		}
	}()

	svc := application.NewAnalysisService(source)
	opts := application.AnalyzeOptions{
		ExcludeBots: f.excludeBots,
		Since:       since,
		Until:       until,
	}

	var render func(w io.Writer) error
	if f.compare {
		cmp, err := svc.Compare(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return err
		}
		render = func(w io.Writer) error {
			return report.WriteComparison(w, writer, cmp.WithBots, cmp.HumanOnly)
		}
	} else {
		analysis, err := svc.Analyze(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return err
		}
		render = func(w io.Writer) error {
			return writer.Write(w, analysis)
		}
	}

	out, closeOut, err := report.OpenOutput(f.out, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	return errors.Join(render(out), closeOut())
}
