package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vigil/internal/daemonctl"
)

const stopGracePeriod = 10 * time.Second

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running vigil daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := daemonctl.StopDaemon(ctx.socketPath(), stopGracePeriod)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.PID > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped daemon (pid %d)\n", result.PID)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Stopped daemon")
			}
			return nil
		},
	}
}
