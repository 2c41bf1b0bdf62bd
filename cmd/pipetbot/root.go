package main

import (
	"github.com/mastercactapus/pipetbot/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type options struct {
	configFile string
	v          *viper.Viper
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pipetbot",
		Short: "Drive a pipetting robot over a serial link",
		Long: `pipetbot sends programs of moves and dispenses to a liquid-handling
controller, one command at a time, waiting for each to finish.

Settings are read from config.yaml and PIPETBOT_* environment variables.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: ./config.yaml or ~/.config/pipetbot/config.yaml).")
	flags.String("port", "", "Serial port path (or name if using SPJS).")
	flags.String("spjs", "", "Websocket URL of an SPJS server to use instead of a local port.")

	root.AddCommand(
		newServeCmd(opts),
		newPortsCmd(opts),
		newSendCmd(opts),
		newRunCmd(opts),
		newWellsCmd(opts),
	)
	return root
}

func (o *options) load(cmd *cobra.Command) error {
	o.v = config.New(o.configFile)
	flags := cmd.Root().PersistentFlags()
	if err := o.v.BindPFlag("serial.port", flags.Lookup("port")); err != nil {
		return err
	}
	if err := o.v.BindPFlag("spjs.url", flags.Lookup("spjs")); err != nil {
		return err
	}
	if err := config.Read(o.v); err != nil {
		return errorf("Could not read config", err, "Check the file passed with --config.")
	}
	cfg, err := config.Load(o.v)
	if err != nil {
		return errorf("Invalid configuration", err)
	}
	o.cfg = cfg
	return nil
}
