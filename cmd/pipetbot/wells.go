package main

import (
	"strconv"

	"github.com/mastercactapus/pipetbot/config"
	"github.com/mastercactapus/pipetbot/coord"
	"github.com/mastercactapus/pipetbot/plate"
	"github.com/spf13/cobra"
)

func newWellsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "wells [program.yaml]",
		Short: "Show every well on the deck and where it is",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := plate.NewRegistry()
			if err := opts.cfg.AddPlates(r); err != nil {
				return errorf("Invalid plates in config", err)
			}
			if len(args) == 1 {
				p, err := readProgram(args[0], nil)
				if err != nil {
					return errorf("Could not read program", err)
				}
				cfg := config.Config{Plates: p.Plates}
				if err = cfg.AddPlates(r); err != nil {
					return errorf("Invalid plates in program", err)
				}
			}
			if len(r.Plates()) == 0 {
				warning("No plates on the deck.")
				return nil
			}
			return table(stdout, []string{"Plate", "Well", "Col", "Row", "X", "Y", "Volume"}, wellRows(r))
		},
	}
}

func wellRows(r *plate.Registry) [][]string {
	var rows [][]string
	for _, p := range r.Plates() {
		p.ForEachWell(func(w *plate.Well) {
			col, row := w.Grid()
			loc := w.AbsoluteLocation()
			rows = append(rows, []string{
				p.Name(),
				w.ID(),
				strconv.Itoa(col + 1),
				strconv.Itoa(row + 1),
				coord.FormatFloat(loc.X),
				coord.FormatFloat(loc.Y),
				coord.FormatFloat(w.Capacity()),
			})
		})
	}
	return rows
}
