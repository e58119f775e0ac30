package main

import (
	"github.com/spf13/cobra"

	"daotask/internal/api"
	"daotask/internal/config"
)

func newMilestoneCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Create milestones and add tasks to them",
	}

	cmd.AddCommand(
		newMilestoneCreateCmd(cfg, out),
		newMilestoneAddTaskCmd(cfg, out),
	)
	return cmd
}

func newMilestoneCreateCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	var req api.MilestoneCreateRequest

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a milestone with a manager reward and a subtask budget",
		Args:  requireExactlyArgs(1, "name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				resp, err := client.CreateMilestone(cmd.Context(), req)
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(resp)
				}
				return writePlain("%s\n", resp.ID)
			})
		},
	}

	cmd.Flags().StringVar(&req.DAO, "dao", "", "DAO account")
	cmd.Flags().StringVar(&req.Repo, "repo", "", "repository")
	cmd.Flags().StringVar(&req.Manager, "manager", "", "milestone manager account")
	cmd.Flags().Int64Var(&req.ManagerReward, "manager-reward", 0, "manager reward")
	cmd.Flags().Int64Var(&req.Budget, "budget", 0, "budget reserved for subtasks")
	cmd.Flags().Int64Var(&req.LockMonths, "lock", 0, "lock period in months")
	cmd.Flags().Int64Var(&req.VestingMonths, "vesting", 0, "vesting period in months")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "tag (repeatable, max 3)")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "comment recorded with the create event")
	return cmd
}

func newMilestoneAddTaskCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	var req api.SubtaskCreateRequest

	cmd := &cobra.Command{
		Use:   "add-task <milestone-id> <name>",
		Short: "Add a task paid from a milestone budget",
		Args:  requireExactlyArgs(2, "milestone id and name are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[1]
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				resp, err := client.CreateSubtask(cmd.Context(), args[0], req)
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(resp)
				}
				return writePlain("%s\n", resp.ID)
			})
		},
	}

	cmd.Flags().Int64Var(&req.Amount, "amount", 0, "task amount")
	cmd.Flags().Int64Var(&req.PercentAssign, "assign", 0, "assigner percent")
	cmd.Flags().Int64Var(&req.PercentReview, "review", 0, "reviewer percent")
	cmd.Flags().Int64Var(&req.PercentManager, "manager", 0, "manager percent")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "tag (repeatable, max 3)")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "comment recorded with the create event")
	return cmd
}
