package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vigil/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Daemon:        running (pid %d)\n", status.PID)
				fmt.Fprintf(out, "Queue DB:      %s\n", status.QueueDBPath)
				fmt.Fprintf(out, "Lock file:     %s\n", status.LockPath)
				fmt.Fprintf(out, "Downloads:     %s\n", status.DownloadDir)
				fmt.Fprintf(out, "Sweep active:  %s\n", yesNo(status.SweepActive))
				if status.LastSweep != nil {
					fmt.Fprintf(out, "Last sweep:    %s (%d selected, %d completed, %d failed)\n",
						status.LastSweepAt, status.LastSweep.Selected,
						status.LastSweep.Completed, status.LastSweep.Failed)
				} else {
					fmt.Fprintln(out, "Last sweep:    none yet")
				}
				fmt.Fprintf(out, "Queue:         %d pending, %d downloading, %d completed, %d failed\n",
					status.QueueStats["pending"], status.QueueStats["downloading"],
					status.QueueStats["completed"], status.QueueStats["failed"])
				return nil
			})
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
