package main

import (
	"context"
	"errors"
	"net/url"

	"github.com/spf13/cobra"

	"daotask/internal/api"
	"daotask/internal/config"
)

func newTaskCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, show, list and delete tasks",
	}

	cmd.AddCommand(
		newTaskCreateCmd(cfg, out),
		newTaskShowCmd(cfg, out),
		newTaskListCmd(cfg, out),
		newTaskDeleteCmd(cfg, out),
	)
	return cmd
}

type taskCreateOptions struct {
	req      api.TaskCreateRequest
	filePath string
}

func newTaskCreateCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	opts := &taskCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create [<name>]",
		Short: "Create a task and its grant schedule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				if opts.filePath != "" {
					if len(args) > 0 {
						return errors.New("name and --file are mutually exclusive")
					}
					return runTaskCreateFromFile(cmd.Context(), client, opts.filePath, out)
				}
				if len(args) == 0 {
					return errors.New("name is required")
				}

				req := opts.req
				req.Name = args[0]
				resp, err := client.CreateTask(cmd.Context(), req)
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

	cmd.Flags().StringVar(&opts.req.DAO, "dao", "", "DAO account")
	cmd.Flags().StringVar(&opts.req.Repo, "repo", "", "repository")
	bindGrantTermFlags(cmd, &opts.req.GrantTerms)
	cmd.Flags().StringSliceVar(&opts.req.Tags, "tag", nil, "tag (repeatable, max 3)")
	cmd.Flags().StringVar(&opts.req.Comment, "comment", "", "comment recorded with the create event")
	cmd.Flags().StringVarP(&opts.filePath, "file", "f", "", "create tasks from a YAML file")
	return cmd
}

func runTaskCreateFromFile(ctx context.Context, client *api.Client, path string, out *outputOptions) error {
	reqs, err := loadTasksFile(path)
	if err != nil {
		return err
	}

	created := make([]api.TaskResponse, 0, len(reqs))
	for _, req := range reqs {
		resp, err := client.CreateTask(ctx, req)
		if err != nil {
			return err
		}
		created = append(created, resp)
		if !out.structured() {
			if err := writePlain("%s\n", resp.ID); err != nil {
				return err
			}
		}
	}
	if out.structured() {
		return writeStructured(created)
	}
	return nil
}

func newTaskShowCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its grants and events",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				resp, err := client.GetTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(resp)
				}
				return writeTaskDetail(resp)
			})
		},
	}
}

func newTaskListCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	var (
		dao       string
		repo      string
		kind      string
		status    string
		milestone string
		tag       string
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				query := url.Values{}
				setIfNotEmpty(query, "dao", dao)
				setIfNotEmpty(query, "repo", repo)
				setIfNotEmpty(query, "kind", kind)
				setIfNotEmpty(query, "status", status)
				setIfNotEmpty(query, "milestone", milestone)
				setIfNotEmpty(query, "tag", tag)
				if limit > 0 {
					query.Set("limit", intToString(limit))
				}
				if offset > 0 {
					query.Set("offset", intToString(offset))
				}

				resp, err := client.ListTasks(cmd.Context(), query)
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(resp)
				}
				return writeTaskList(resp)
			})
		},
	}

	cmd.Flags().StringVar(&dao, "dao", "", "DAO filter")
	cmd.Flags().StringVar(&repo, "repo", "", "repository filter")
	cmd.Flags().StringVar(&kind, "kind", "", "kind filter (task,milestone,subtask)")
	cmd.Flags().StringVar(&status, "status", "", "status filter (open,closed,deleted)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "milestone id")
	cmd.Flags().StringVar(&tag, "tag", "", "tag filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit results")
	cmd.Flags().IntVar(&offset, "offset", 0, "offset results")
	return cmd
}

func newTaskDeleteCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Mark a task deleted",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				resp, err := client.DeleteTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(resp)
				}
				return writePlain("%s %s\n", resp.ID, resp.Status)
			})
		},
	}
}
