package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/meetings-backend/internal/config"
)

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables read by the server and pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			help, err := config.EnvHelp()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), help)
			return err
		},
	}
}
