package main

import (
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"daotask/internal/api"
	"daotask/internal/config"
)

func newInfoCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server and database info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), cfg, func(client *api.Client) error {
				info, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(info)
				}

				lines := []string{
					"project_prefix: " + info.ProjectPrefix,
					"schema_version: " + strconv.Itoa(info.SchemaVersion),
					"db_path: " + info.DBPath,
					"auth_required: " + strconv.FormatBool(info.AuthRequired),
					"max_lock_months: " + strconv.FormatInt(info.MaxLockMonths, 10),
					"max_vesting_months: " + strconv.FormatInt(info.MaxVestingMonths, 10),
					"total_tasks: " + strconv.Itoa(info.TotalTasks),
				}
				kinds := make([]string, 0, len(info.TaskCounts))
				for kind := range info.TaskCounts {
					kinds = append(kinds, kind)
				}
				sort.Strings(kinds)
				for _, kind := range kinds {
					lines = append(lines, "  "+kind+": "+strconv.Itoa(info.TaskCounts[kind]))
				}
				return writeLines(os.Stdout, lines)
			})
		},
	}
}
