package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mastercactapus/pipetbot/program"
	"github.com/mastercactapus/pipetbot/task"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var (
		dryRun bool
		vars   map[string]string
	)
	cmd := &cobra.Command{
		Use:   "run <program.yaml>",
		Short: "Run a program and wait for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProgram(args[0], vars)
			if err != nil {
				return errorf("Could not read program", err)
			}

			a, err := newApp(opts.cfg, nil)
			if err != nil {
				return errorf("Could not set up the deck", err)
			}
			defer a.Close()

			root, err := a.load(p)
			if err != nil {
				return errorf("Program is not runnable", err)
			}
			if dryRun {
				return printCommands(root, a)
			}

			ctx := cmd.Context()
			if a.serial != nil {
				err = a.connect(ctx, "")
				if err != nil {
					return errorf("Could not connect", err, "List available ports with: pipetbot ports")
				}
			}
			if err = a.m.Enqueue(root); err != nil {
				return errorf("Could not queue program", err)
			}
			if err = a.m.Start(); err != nil {
				return errorf("Could not start", err)
			}
			step("Running %s (%s)", p.Name, a.m.CurrentState().RunID)
			err = waitIdle(ctx, a.m)
			if err != nil {
				s := a.m.CurrentState()
				return errorf("Run halted", err, fmt.Sprintf("%d of %d commands acknowledged.", s.Acked, s.Sent))
			}
			success("Finished %s", p.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the commands that would be sent without connecting.")
	cmd.Flags().StringToStringVar(&vars, "set", nil, "Set program variables, e.g. --set flow=12.5.")
	return cmd
}

func readProgram(name string, vars map[string]string) (*program.Program, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := program.Decode(f)
	if err != nil {
		return nil, err
	}
	if p.Variables == nil {
		p.Variables = make(map[string]float64)
	}
	for k, v := range vars {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", k, err)
		}
		p.Variables[k] = val
	}
	return p, nil
}

func printCommands(root task.Task, a *app) error {
	if err := task.Print(stdout, root); err != nil {
		return err
	}
	cmds, err := task.Render(root, a.registry)
	if err != nil {
		return errorf("Could not render program", err)
	}
	fmt.Fprintln(stdout)
	for _, c := range cmds {
		fmt.Fprintln(stdout, c)
	}
	return nil
}
