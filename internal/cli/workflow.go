package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/gitask/internal/app"
	"github.com/runoshun/gitask/internal/domain"
	"github.com/runoshun/gitask/internal/usecase"
)

// newTransitionCommand creates a command that moves the current ticket into phase.
func newTransitionCommand(c *app.Container, action string, phase domain.Phase, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		Long: fmt.Sprintf(`%s.

The ticket is moved to the first status listed under "%s" in the
configuration that is reachable from its current status.`, short, string(phase)),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Ready(); err != nil {
				return err
			}
			params := domain.NewHookParams(args, nil)
			return c.HookChain().Wrap(cmd.Context(), action, params, func(ctx context.Context) error {
				out, err := c.TransitionTicketUseCase().Execute(ctx, usecase.TransitionTicketInput{Phase: phase})
				if err != nil {
					return err
				}
				printMoved(cmd.OutOrStdout(), out.Status)
				return nil
			})
		},
	}
}

// newSubmitToReviewCommand creates the submit-to-review command.
func newSubmitToReviewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		title    string
		reviewer string
		branch   string
		prOnly   bool
	}

	cmd := &cobra.Command{
		Use:   domain.ActionSubmitToReview,
		Short: "Move the current ticket to review and open a merge request",
		Long: `Move the current ticket to review and open a merge request.

Before the status change the reviewer is looked up in the ticket tracker
and the configured git-branch-field and reviewer-field are filled in.
The merge request goes from the current branch into --branch, or the
configured default-branch. An open request for the same branch is reused.

With --pr-only the ticket is left untouched.`,
		Example: `  gitask submit-to-review -r alice
  gitask submit-to-review -t "Add export" -r alice -b develop
  gitask submit-to-review -r alice --pr-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Ready(); err != nil {
				return err
			}
			params := domain.NewHookParams(args, map[string]any{
				"title":    opts.title,
				"reviewer": opts.reviewer,
				"branch":   opts.branch,
				"pr_only":  opts.prOnly,
			})
			return c.HookChain().Wrap(cmd.Context(), domain.ActionSubmitToReview, params, func(ctx context.Context) error {
				out, err := c.SubmitToReviewUseCase().Execute(ctx, usecase.SubmitToReviewInput{
					Title:        opts.title,
					Reviewer:     opts.reviewer,
					TargetBranch: opts.branch,
					PROnly:       opts.prOnly,
				})
				if out != nil {
					printSubmitOutput(cmd.OutOrStdout(), out)
				}
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Merge request title (default \"Merge <branch> into <target>\")")
	cmd.Flags().StringVarP(&opts.reviewer, "reviewer", "r", "", "Reviewer username (required)")
	cmd.Flags().StringVarP(&opts.branch, "branch", "b", "", "Target branch (default from config)")
	cmd.Flags().BoolVar(&opts.prOnly, "pr-only", false, "Only open the merge request, leave the ticket as is")
	cmd.Flags().BoolVar(&opts.prOnly, "pull-request-only", false, "Alias for --pr-only")
	_ = cmd.Flags().MarkHidden("pull-request-only")
	_ = cmd.MarkFlagRequired("reviewer")

	return cmd
}

func printMoved(w io.Writer, status string) {
	printSuccess(w, fmt.Sprintf("Successfully moved ticket to '%s'", status))
}

func printSubmitOutput(w io.Writer, out *usecase.SubmitToReviewOutput) {
	if out.Status != "" {
		printMoved(w, out.Status)
	}
	if out.PullRequest == nil {
		return
	}
	if out.PullRequest.Existing {
		printWarning(w, "Merge request already exists: "+out.PullRequest.URL)
		return
	}
	printSuccess(w, "Successfully created merge request: "+out.PullRequest.URL)
}
