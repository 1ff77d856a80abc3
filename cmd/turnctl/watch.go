package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/turnkeeper/internal/notify"
)

func newWatchCmd(opts *options) *cobra.Command {
	var (
		addr     string
		password string
		prefix   string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "watch ROOM_ID",
		Short: "Stream a room's turn events from Redis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := parseID("room id", args[0])
			if err != nil {
				return err
			}
			client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
			defer func() {
				_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
			}()

			ctx := cmd.Context()
			sub, err := notify.Subscribe(ctx, client, prefix, roomID)
			if err != nil {
				return err
			}
			defer func() {
				_ = sub.Close() // nolint:errcheck // safe to ignore in cleanup
			}()

			w := cmd.OutOrStdout()
			for n := 0; limit <= 0 || n < limit; n++ {
				env, err := sub.Next(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return fmt.Errorf("receiving event: %w", err)
				}
				if opts.json {
					if err := opts.printJSON(w, env); err != nil {
						return err
					}
					continue
				}
				line := fmt.Sprintf("%s round %d", env.Type, env.Round)
				if env.Current != nil {
					line += ": " + env.Current.String()
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "redis", "localhost:6379", "Redis address")
	cmd.Flags().StringVar(&password, "redis-password", "", "Redis password")
	cmd.Flags().StringVar(&prefix, "prefix", "turnkeeper", "channel prefix")
	cmd.Flags().IntVar(&limit, "limit", 0, "exit after this many events (0 = until interrupted)")
	return cmd
}
