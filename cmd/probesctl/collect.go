// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream/upaws"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

var (
	collectSince   time.Duration
	collectPeriod  time.Duration
	collectCluster string
)

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.AddCommand(collectAWSCmd)
	collectAWSCmd.Flags().StringVar(&manifestPath, "manifest", function.ManifestFile, "Manifest of the deployed functions.")
	collectAWSCmd.Flags().DurationVar(&collectSince, "since", time.Minute, "How far back to collect.")
	collectAWSCmd.Flags().DurationVar(&collectPeriod, "period", upaws.DefaultMetricsPeriod, "Aggregation period of the samples, a multiple of 60s.")
	collectAWSCmd.Flags().StringVar(&collectCluster, "cluster", "aws", "Cluster name to tag the samples with.")
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect the invocation metrics of deployed functions",
}

var collectAWSCmd = &cobra.Command{
	Use:   "aws",
	Short: "Collect AWS Lambda metrics from CloudWatch",
	Long: `Collect the Invocations, Duration, Errors and ConcurrentExecutions
metrics of the manifest's lambda functions from CloudWatch, and print them in
InfluxDB line protocol.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if collectSince <= 0 {
			return utils.NewInvalidError("--since must be positive")
		}
		m, err := function.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		c, err := upaws.MakeCollectorFromEnv(log)
		if err != nil {
			return err
		}
		c.Period = collectPeriod

		end := time.Now()
		samples, err := c.CollectManifest(cmd.Context(), *m, end.Add(-collectSince), end)
		if err != nil {
			return err
		}
		writeSamples(cmd.OutOrStdout(), samples, collectCluster)
		return nil
	},
}

func writeSamples(w io.Writer, samples []upaws.Sample, cluster string) {
	for _, s := range samples {
		fmt.Fprintln(w, s.LineProtocol(cluster))
	}
}
