package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewsift/internal/adapter/driving/report"
	"github.com/ericfisherdev/reviewsift/internal/application"
	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

func (a *App) classifyCommand() *cobra.Command {
	var login, accountType string

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify a single comment body given as arguments or on stdin",
		Example: `  reviewsift classify "You should check the error here"
  echo "LGTM" | reviewsift classify
  reviewsift classify --login "dependabot[bot]" --type Bot "Bump lodash"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				body = string(data)
			}

			c := application.Classify(model.ReviewComment{
				Body:     body,
				Reviewer: model.User{Login: login, Type: accountType},
			})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report.NewClassificationDoc(c))
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "comment author login, used for bot detection")
	cmd.Flags().StringVar(&accountType, "type", "", `comment author account type ("User", "Bot")`)

	return cmd
}
