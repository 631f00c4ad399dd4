package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"vigil/internal/api"
	"vigil/internal/ipc"
	"vigil/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the download queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				out := cmd.OutOrStdout()

				var items []ipc.QueueItem
				if client != nil {
					resp, err := client.QueueList(listStatuses)
					if err != nil {
						return err
					}
					items = resp.Items
				} else {
					statuses := make([]queue.Status, 0, len(listStatuses))
					for _, value := range listStatuses {
						parsed, ok := queue.ParseStatus(value)
						if !ok {
							return fmt.Errorf("unknown status %q", value)
						}
						statuses = append(statuses, parsed)
					}
					records, err := store.List(cmd.Context(), statuses...)
					if err != nil {
						return err
					}
					items = api.FromQueueItems(records)
				}

				if len(items) == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				renderRows(out,
					[]string{"ID", "URL", "Status", "Created", "Error"},
					buildQueueListRows(items),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by queue status (repeatable)")
	return cmd
}

func buildQueueListRows(items []ipc.QueueItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		created := item.CreatedAt
		if parsed, err := time.Parse("2006-01-02T15:04:05.000Z07:00", created); err == nil {
			created = parsed.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.URL,
			item.Status,
			created,
			item.ErrorMessage,
		})
	}
	return rows
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a queue item unless it is downloading or completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid queue item id %q", args[0])
			}
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				var deleted bool
				if client != nil {
					resp, err := client.QueueRemove(id)
					if err != nil {
						return err
					}
					deleted = resp.Deleted
				} else {
					deleted, err = store.DeleteIfSafe(cmd.Context(), id)
					if err != nil {
						return err
					}
				}
				if !deleted {
					return fmt.Errorf("item %d was not removed; it may be downloading, completed, or missing", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", id)
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id...]",
		Short: "Mark failed items for a clean retry (all failed items when no ids are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid queue item id %q", arg)
				}
				ids = append(ids, id)
			}
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				var updated int64
				var err error
				if client != nil {
					resp, callErr := client.QueueRetry(ids)
					if callErr != nil {
						return callErr
					}
					updated = resp.Updated
				} else {
					updated, err = store.RetryFailed(cmd.Context(), ids...)
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %d items for retry\n", updated)
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var clearCompleted bool
	var clearFailed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearCompleted && clearFailed {
				return errors.New("specify only one of --completed or --failed")
			}
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				out := cmd.OutOrStdout()
				var removed int64
				var err error
				switch {
				case clearCompleted:
					if client != nil {
						resp, callErr := client.QueueClearCompleted()
						if callErr != nil {
							return callErr
						}
						removed = resp.Removed
					} else if removed, err = store.ClearCompleted(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d completed items\n", removed)
				case clearFailed:
					if client != nil {
						resp, callErr := client.QueueClearFailed()
						if callErr != nil {
							return callErr
						}
						removed = resp.Removed
					} else if removed, err = store.ClearFailed(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d failed items\n", removed)
				default:
					if client != nil {
						resp, callErr := client.QueueClear()
						if callErr != nil {
							return callErr
						}
						removed = resp.Removed
					} else if removed, err = store.Clear(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d items\n", removed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCompleted, "completed", false, "Clear only completed items")
	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Clear only failed items")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show per-status queue counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				var health queue.HealthSummary
				if client != nil {
					resp, err := client.QueueHealth()
					if err != nil {
						return err
					}
					health = queue.HealthSummary{
						Total:       resp.Total,
						Pending:     resp.Pending,
						Downloading: resp.Downloading,
						Completed:   resp.Completed,
						Failed:      resp.Failed,
					}
				} else {
					var err error
					health, err = store.Health(cmd.Context())
					if err != nil {
						return err
					}
				}

				out := cmd.OutOrStdout()
				if health.Total == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				renderRows(out,
					[]string{"Status", "Count"},
					[][]string{
						{string(queue.StatusPending), strconv.Itoa(health.Pending)},
						{string(queue.StatusDownloading), strconv.Itoa(health.Downloading)},
						{string(queue.StatusCompleted), strconv.Itoa(health.Completed)},
						{string(queue.StatusFailed), strconv.Itoa(health.Failed)},
						{"total", strconv.Itoa(health.Total)},
					},
					[]columnAlignment{alignLeft, alignRight},
				)
				return nil
			})
		},
	}
}
