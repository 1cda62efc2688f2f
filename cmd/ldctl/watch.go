package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the instance list whenever it changes",
		Long:  `Watches the installation and prints the instance list on every change until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			events, cleanup, err := c.ctrl.Watch(ctx)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			defer func() { _ = cleanup() }()

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					if ev.Err != nil {
						c.log.WithError(ev.Err).Warn("listing failed")
						continue
					}
					fmt.Fprintf(out, "--- %d instances\n", len(ev.Instances))
					for _, inst := range ev.Instances {
						fmt.Fprintf(out, "%s\n", inst)
					}
				}
			}
		},
	}
}
