package main

import (
	"os"

	"github.com/spf13/cobra"

	"daotask/internal/api"
	"daotask/internal/config"
	"daotask/internal/grant"
)

type grantFlags struct {
	terms  api.GrantTerms
	remote bool
}

func newGrantCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	flags := &grantFlags{}

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Compute a task grant schedule without saving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp api.GrantPreviewResponse
			if flags.remote {
				err := withClient(cmd.Context(), cfg, func(client *api.Client) error {
					var err error
					resp, err = client.PreviewGrant(cmd.Context(), api.GrantPreviewRequest{GrantTerms: flags.terms})
					return err
				})
				if err != nil {
					return err
				}
			} else {
				var err error
				resp, err = previewLocal(cfg, flags.terms)
				if err != nil {
					return err
				}
			}

			if out.structured() {
				return writeStructured(resp)
			}
			lines := append(scheduleLines(resp.Schedule, ""), summaryLines(resp.Summary)...)
			return writeLines(os.Stdout, lines)
		},
	}

	bindGrantTermFlags(cmd, &flags.terms)
	cmd.Flags().BoolVar(&flags.remote, "remote", false, "compute on the API server")
	return cmd
}

// previewLocal computes a schedule in-process under the same period limits
// the server enforces.
func previewLocal(cfg *config.Config, terms api.GrantTerms) (api.GrantPreviewResponse, error) {
	if err := serverOptions(cfg).Limits.Check(terms.LockMonths, terms.VestingMonths); err != nil {
		return api.GrantPreviewResponse{}, err
	}
	schedule, err := grant.BuildGrantSchedule(terms.Config())
	if err != nil {
		return api.GrantPreviewResponse{}, err
	}
	return api.GrantPreviewResponse{Schedule: schedule, Summary: grant.Summarize(schedule)}, nil
}

func bindGrantTermFlags(cmd *cobra.Command, terms *api.GrantTerms) {
	cmd.Flags().Int64Var(&terms.Cost, "cost", 0, "total task cost")
	cmd.Flags().Int64Var(&terms.PercentAssign, "assign", 0, "assigner percent")
	cmd.Flags().Int64Var(&terms.PercentReview, "review", 0, "reviewer percent")
	cmd.Flags().Int64Var(&terms.PercentManager, "manager", 0, "manager percent")
	cmd.Flags().Int64Var(&terms.LockMonths, "lock", 0, "lock period in months")
	cmd.Flags().Int64Var(&terms.VestingMonths, "vesting", 0, "vesting period in months")
}
