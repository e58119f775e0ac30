package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"daotask/internal/config"
	"daotask/internal/server"
	"daotask/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the daotask API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := componentLogger("server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(addr, st, serverOptions(cfg), logger)
			return srv.ListenAndServe()
		},
	}
}

func serverOptions(cfg *config.Config) server.Options {
	return server.Options{
		ProjectPrefix: cfg.ProjectPrefix,
		APITokenHash:  cfg.APITokenHash,
		Limits: server.Limits{
			MaxLockMonths:    cfg.Grants.MaxLockMonths,
			MaxVestingMonths: cfg.Grants.MaxVestingMonths,
		},
	}
}
