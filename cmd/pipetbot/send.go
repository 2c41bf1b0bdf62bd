package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSendCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "send <command>",
		Short: "Send a single command and wait for it to finish",
		Example: `  pipetbot send 'move(10,20)'
  pipetbot send 'dispense(5)' --port /dev/ttyACM0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(opts.cfg, nil)
			if err != nil {
				return errorf("Could not set up the deck", err)
			}
			defer a.Close()

			if a.serial != nil {
				err = a.connect(ctx, "")
				if err != nil {
					return errorf("Could not connect", err, "List available ports with: pipetbot ports")
				}
			}

			raw := strings.TrimSpace(args[0])
			step("Sending %s", raw)
			err = a.m.Send(raw)
			if err != nil {
				return errorf("Could not send", err, "Commands look like name(arg,arg), e.g. move(3,4).")
			}
			err = waitIdle(ctx, a.m)
			if err != nil {
				return errorf("Command failed", err)
			}
			success("Done")
			return nil
		},
	}
}
