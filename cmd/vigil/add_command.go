package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/intake"
	"vigil/internal/ipc"
	"vigil/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Queue a URL for the next sweep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				out := cmd.OutOrStdout()
				if client != nil {
					resp, err := client.Submit(args[0])
					if err != nil {
						return err
					}
					if !resp.Accepted {
						return fmt.Errorf("rejected: %s", resp.Reason)
					}
					fmt.Fprintf(out, "Queued %s\n", resp.URL)
					return nil
				}

				gateway := intake.NewGateway(store, nil)
				result := gateway.Submit(cmd.Context(), args[0])
				if !result.Accepted {
					return fmt.Errorf("rejected: %s", result.Reason)
				}
				fmt.Fprintf(out, "Queued %s\n", result.URL)
				return nil
			})
		},
	}
}
