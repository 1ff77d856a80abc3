package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/transport/grpcapi"
)

// options holds the persistent flags shared by every command.
type options struct {
	server  string
	timeout time.Duration
	actor   int64
	json    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "turnctl",
		Short:         "turnkeeper initiative client",
		Long:          `turnctl drives a turnkeeper server: start combat, advance turns and inspect the initiative queue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", "localhost:50051", "gRPC server address")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	root.PersistentFlags().Int64Var(&opts.actor, "actor", 0, "account id the request is made as")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print results as JSON")

	root.AddCommand(
		newStartCmd(opts),
		newNextCmd(opts),
		newResetCmd(opts),
		newQueueCmd(opts),
		newCurrentCmd(opts),
		newRollInitCmd(opts),
		newRollRoomCmd(opts),
		newSnapshotCmd(opts),
		newHealthCmd(opts),
		newRollCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

// withClient dials the server and runs fn under the request timeout.
func (o *options) withClient(cmd *cobra.Command, fn func(ctx context.Context, c *grpcapi.Client) error) error {
	c, err := grpcapi.Dial(o.server)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()
	return fn(ctx, c)
}

func (o *options) actorOrErr() (initiative.Actor, error) {
	if o.actor <= 0 {
		return initiative.Actor{}, fmt.Errorf("--actor is required for this command")
	}
	return initiative.Actor{UserID: o.actor}, nil
}

func parseID(name, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, arg)
	}
	return id, nil
}

func (o *options) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *options) printQueue(w io.Writer, queue []*initiative.Entry) error {
	if o.json {
		return o.printJSON(w, queue)
	}
	if len(queue) == 0 {
		_, err := fmt.Fprintln(w, "queue is empty")
		return err
	}
	for i, e := range queue {
		marker := " "
		if e.CurrentTurn {
			marker = ">"
		}
		if _, err := fmt.Fprintf(w, "%s %2d. %s\n", marker, i+1, e); err != nil {
			return err
		}
	}
	return nil
}

func (o *options) printEntry(w io.Writer, e *initiative.Entry, none string) error {
	if o.json {
		return o.printJSON(w, e)
	}
	if e == nil {
		_, err := fmt.Fprintln(w, none)
		return err
	}
	_, err := fmt.Fprintln(w, e.String())
	return err
}
