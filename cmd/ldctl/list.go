package main

import (
	"encoding/json"
	"fmt"

	"github.com/itisl2220/ldconsole"
	"github.com/spf13/cobra"
)

func newListCmd(c *cli) *cobra.Command {
	var (
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all instances of the installation",
		Long:  `Runs ldconsole.exe list2 and prints one line per instance.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			instances, err := c.ctrl.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list instances: %w", err)
			}

			if output != "" {
				if err := ldconsole.WriteSnapshot(output, instances); err != nil {
					return err
				}
				c.log.WithField("path", output).WithField("count", len(instances)).Info("snapshot written")
				return nil
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(instances)
			}

			if len(instances) == 0 {
				fmt.Fprintln(out, "No instances")
				return nil
			}

			for _, inst := range instances {
				fmt.Fprintf(out, "[index=%d] name=%s running=%t pid=%d vbox_pid=%d top=%d bind=%d\n",
					inst.Index, inst.Name, inst.Active(), inst.PID, inst.VBoxPID, inst.TopWindowHandle, inst.BindWindowHandle)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print instances as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a JSON snapshot to this file instead of printing")
	return cmd
}
