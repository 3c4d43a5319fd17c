package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "beatbrain",
		Short:         "Convert between audio, spectrogram arrays and spectrogram images",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "TOML file with conversion defaults")

	rootCmd.AddCommand(newConvertCommand(&configFlag))

	return rootCmd
}
