package main

import (
	"github.com/spf13/cobra"
)

func newPortsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports the controller may be attached to",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg, nil)
			if err != nil {
				return errorf("Could not set up the deck", err)
			}
			defer a.Close()

			ports, err := a.ports()
			if err != nil {
				return errorf("Could not list ports", err)
			}
			if len(ports) == 0 {
				warning("No serial ports found.")
				return nil
			}
			rows := make([][]string, len(ports))
			for i, p := range ports {
				mark := ""
				if p == opts.cfg.Serial.Port {
					mark = "*"
				}
				rows[i] = []string{p, mark}
			}
			return table(stdout, []string{"Port", "Configured"}, rows)
		},
	}
}
