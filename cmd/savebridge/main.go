package main

import (
	"os"

	"github.com/spf13/cobra"

	"savebridge/internal/config"
	"savebridge/internal/logx"
)

// Version is stamped at build time.
var Version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logx.Log.Error().Err(err).Msg("savebridge failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var devtoolsFlag bool

	cmd := &cobra.Command{
		Use:           "savebridge [SAVE]",
		Short:         "Desktop host for the save editor UI",
		Long:          "savebridge hosts the save editor web UI in a native window and bridges its RPC calls to the filesystem, dialogs, auto-update and capture services.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			startupSave := ""
			if len(args) == 1 {
				startupSave = args[0]
			}
			return run(cfg, startupSave, devtoolsFlag)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Flags().BoolVar(&devtoolsFlag, "devtools", false, "Enable the webview devtools")
	return cmd
}
