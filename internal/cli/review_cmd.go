package cli

import (
	"fmt"

	"github.com/alexanderramin/ponto/internal/cli/formatter"
	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/spf13/cobra"
)

func newReviewCmd(app *App) *cobra.Command {
	var reviewerID, reviewerName string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Approve or reject finalized duty sessions",
	}
	fallback := ""
	if app.Config != nil {
		fallback = app.Config.CLI.Reviewer
	}
	identityFlag(cmd.PersistentFlags(), &reviewerID, "reviewer", "PONTO_REVIEWER", fallback, "Reviewer id")
	cmd.PersistentFlags().StringVar(&reviewerName, "reviewer-name", "", "Reviewer display name")

	reviewer := func() (domain.Reviewer, error) {
		id, err := requireIdentity(reviewerID, "reviewer", "PONTO_REVIEWER")
		if err != nil {
			return domain.Reviewer{}, err
		}
		return domain.Reviewer{ID: id, Name: domain.CoalesceStr(reviewerName, id)}, nil
	}

	cmd.AddCommand(
		newReviewPendingCmd(app),
		newReviewApproveCmd(app, reviewer),
		newReviewRejectCmd(app, reviewer),
	)

	return cmd
}

func newReviewPendingCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List sessions awaiting review, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			sessions, err := app.Approvals.ListPending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionTable("Pending review", sessions, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of sessions")

	return cmd
}

func newReviewApproveCmd(app *App, reviewer func() (domain.Reviewer, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a finalized session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := reviewer()
			if err != nil {
				return err
			}
			s, err := app.Approvals.Approve(cmd.Context(), args[0], r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(s, app.now()))
			return nil
		},
	}
}

func newReviewRejectCmd(app *App, reviewer func() (domain.Reviewer, error)) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject ID",
		Short: "Reject a finalized session",
		Long: "Reject a finalized session. Without --reason, an interactive terminal\n" +
			"is prompted for one; otherwise the session is rejected without a reason.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := reviewer()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("reason") && app.interactive() {
				prompt := app.PromptReason
				if prompt == nil {
					prompt = promptReasonForm
				}
				if err := prompt(&reason); err != nil {
					return fmt.Errorf("reading rejection reason: %w", err)
				}
			}
			s, err := app.Approvals.Reject(cmd.Context(), args[0], r, reason)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(s, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason shown to the officer")

	return cmd
}
