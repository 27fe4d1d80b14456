// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/mattermost/mattermost-faas-probes/utils"

	_ "time/tzdata"
)

var (
	verbose bool
	log     = utils.MustMakeCommandLogger(zapcore.InfoLevel)
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Errorw("command failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "probesctl",
	Short:         "A tool to run, invoke and provision the diagnostic functions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log = utils.MustMakeCommandLogger(zapcore.DebugLevel)
		}
	},
}
