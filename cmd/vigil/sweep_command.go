package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/ipc"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Trigger an immediate sweep of the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Sweep()
				if err != nil {
					return err
				}
				if !resp.Started {
					fmt.Fprintln(cmd.OutOrStdout(), "A sweep is already running")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Sweep started")
				return nil
			})
		},
	}
}
