package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnkeeper/internal/game/dice"
)

// newSource supplies randomness for local rolls.
var newSource = dice.NewCryptoSource

func newRollCmd(opts *options) *cobra.Command {
	var damage bool
	cmd := &cobra.Command{
		Use:   "roll EXPR...",
		Short: "Roll dice locally, e.g. 1d20+3 or 2d6-1",
		Long: `Roll one or more dice expressions without contacting the server.

  Example: roll 1d20+5 2d6+3
  With --damage the total is never below 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roller := dice.NewLoggedRoller(newSource(), zap.NewNop())
			w := cmd.OutOrStdout()
			for _, expr := range args {
				r, err := roller.RollExpr(expr)
				if err != nil {
					return fmt.Errorf("rolling %q: %w", expr, err)
				}
				if opts.json {
					if err := opts.printJSON(w, r); err != nil {
						return err
					}
					continue
				}
				if damage && r.Total() < 1 {
					fmt.Fprintf(w, "%s, floored to 1\n", r)
					continue
				}
				fmt.Fprintln(w, r.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&damage, "damage", false, "floor totals at 1")
	return cmd
}
