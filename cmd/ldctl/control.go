package main

import (
	"context"
	"fmt"
	"time"

	"github.com/itisl2220/ldconsole"
	"github.com/spf13/cobra"
)

// controlFunc is a single-instance operation of ldconsole.Controller
type controlFunc func(ldconsole.Controller, context.Context, int) error

// newControlCmd builds a command that runs op for one instance index.
// With --wait it blocks until the instance reports wantActive.
func newControlCmd(c *cli, name, short string, op controlFunc, wantActive bool) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   name + " INDEX",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			if err := op(c.ctrl, cmd.Context(), index); err != nil {
				return fmt.Errorf("%s instance %d: %w", name, index, err)
			}
			c.log.WithField("index", index).Infof("%s sent", name)

			if wait <= 0 {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			inst, err := c.ctrl.WaitActive(ctx, index, wantActive)
			if err != nil {
				return fmt.Errorf("wait for instance %d: %w", index, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", inst)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "wait up to this long for the instance to change state")
	return cmd
}

func newRunningCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "running INDEX",
		Short: "Report whether the instance with the given index is running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			running, err := c.ctrl.IsRunning(cmd.Context(), index)
			if err != nil {
				return fmt.Errorf("query instance %d: %w", index, err)
			}

			state := "stopped"
			if running {
				state = "running"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", index, state)
			return nil
		},
	}
}
