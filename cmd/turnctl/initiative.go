package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/turnkeeper/internal/transport/grpcapi"
)

// roomCmd builds a command taking a single ROOM_ID argument.
func roomCmd(use, short string, run func(ctx context.Context, cmd *cobra.Command, c *grpcapi.Client, roomID int64) error, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ROOM_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := parseID("room id", args[0])
			if err != nil {
				return err
			}
			return opts.withClient(cmd, func(ctx context.Context, c *grpcapi.Client) error {
				return run(ctx, cmd, c, roomID)
			})
		},
	}
}

func newStartCmd(opts *options) *cobra.Command {
	return roomCmd("start", "Start initiative: open a new round and roll for the roster",
		func(ctx context.Context, cmd *cobra.Command, c *grpcapi.Client, roomID int64) error {
			actor, err := opts.actorOrErr()
			if err != nil {
				return err
			}
			queue, err := c.StartInitiative(ctx, actor, roomID)
			if err != nil {
				return fmt.Errorf("starting initiative: %w", err)
			}
			return opts.printQueue(cmd.OutOrStdout(), queue)
		}, opts)
}

func newNextCmd(opts *options) *cobra.Command {
	return roomCmd("next", "Advance to the next turn",
		func(ctx context.Context, cmd *cobra.Command, c *grpcapi.Client, roomID int64) error {
			actor, err := opts.actorOrErr()
			if err != nil {
				return err
			}
			next, err := c.NextTurn(ctx, actor, roomID)
			if err != nil {
				return fmt.Errorf("advancing turn: %w", err)
			}
			return opts.printEntry(cmd.OutOrStdout(), next, "initiative is not active")
		}, opts)
}

func newResetCmd(opts *options) *cobra.Command {
	return roomCmd("reset", "End combat; the round counter is kept",
		func(ctx context.Context, cmd *cobra.Command, c *grpcapi.Client, roomID int64) error {
			actor, err := opts.actorOrErr()
			if err != nil {
				return err
			}
			if err := c.ResetInitiative(ctx, actor, roomID); err != nil {
				return fmt.Errorf("resetting initiative: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "initiative reset for room %d\n", roomID)
			return err
		}, opts)
}

func newQueueCmd(opts *options) *cobra.Command {
	return roomCmd("queue", "Show the current round's turn order",
		func(ctx context.Context, cmd *cobra.Command, c *grpcapi.Client, roomID int64) error {
			queue, err := c.Queue(ctx, roomID)
			if err != nil {
				return fmt.Errorf("reading queue: %w", err)
			}
			return opts.printQueue(cmd.OutOrStdout(), queue)
		}, opts)
}

func newCurrentCmd(opts *options) *cobra.Command {
	return roomCmd("current", "Show whose turn it is",
		func(ctx context.Context, cmd *cobra.Command, c *grpcapi.Client, roomID int64) error {
			cur, err := c.CurrentTurn(ctx, roomID)
			if err != nil {
				return fmt.Errorf("reading current turn: %w", err)
			}
			return opts.printEntry(cmd.OutOrStdout(), cur, "no current turn")
		}, opts)
}

func newRollRoomCmd(opts *options) *cobra.Command {
	return roomCmd("roll-room", "Re-roll initiative for every roster character in the current round",
		func(ctx context.Context, cmd *cobra.Command, c *grpcapi.Client, roomID int64) error {
			actor, err := opts.actorOrErr()
			if err != nil {
				return err
			}
			entries, err := c.RollForRoom(ctx, actor, roomID)
			if err != nil {
				return fmt.Errorf("rolling for room: %w", err)
			}
			return opts.printQueue(cmd.OutOrStdout(), entries)
		}, opts)
}

func newSnapshotCmd(opts *options) *cobra.Command {
	return roomCmd("snapshot", "Show the room's turn state and queue",
		func(ctx context.Context, cmd *cobra.Command, c *grpcapi.Client, roomID int64) error {
			snap, err := c.Snapshot(ctx, roomID)
			if err != nil {
				return fmt.Errorf("reading snapshot: %w", err)
			}
			if opts.json {
				return opts.printJSON(cmd.OutOrStdout(), snap)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "room %d: %s, round %d, turn %d, roster %d\n",
				snap.RoomID, snap.State, snap.Turn.Round, snap.Turn.TurnIndex+1, snap.Roster)
			return opts.printQueue(w, snap.Queue)
		}, opts)
}

func newRollInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "roll-init ROOM_ID CHARACTER_ID",
		Short: "Roll (or re-roll) initiative for one character",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := parseID("room id", args[0])
			if err != nil {
				return err
			}
			characterID, err := parseID("character id", args[1])
			if err != nil {
				return err
			}
			actor, err := opts.actorOrErr()
			if err != nil {
				return err
			}
			return opts.withClient(cmd, func(ctx context.Context, c *grpcapi.Client) error {
				entry, err := c.RollForCharacter(ctx, actor, roomID, characterID)
				if err != nil {
					return fmt.Errorf("rolling initiative: %w", err)
				}
				return opts.printEntry(cmd.OutOrStdout(), entry, "")
			})
		},
	}
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server's serving status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c *grpcapi.Client) error {
				st, err := c.Health(ctx)
				if err != nil {
					return fmt.Errorf("health check: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), st.String())
				return err
			})
		},
	}
}
