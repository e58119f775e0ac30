package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"daotask/internal/auth"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the API token",
	}
	cmd.AddCommand(newTokenGenerateCmd(), newTokenHashCmd())
	return cmd
}

func newTokenGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a token and print it with its bcrypt hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.GenerateToken()
			if err != nil {
				return err
			}
			hash, err := auth.HashToken(token)
			if err != nil {
				return err
			}
			return writePlain("token: %s\napi_token_hash: %s\n", token, hash)
		},
	}
}

func newTokenHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [<token>]",
		Short: "Print the bcrypt hash of a token for api_token_hash",
		Long:  "Print the bcrypt hash of a token. The token is read from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("token is required")
				}
				token = strings.TrimRight(line, "\r\n")
			}

			hash, err := auth.HashToken(token)
			if err != nil {
				return fmt.Errorf("hash token: %w", err)
			}
			return writePlain("%s\n", hash)
		},
	}
}
