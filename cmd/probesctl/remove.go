// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream/upaws"
	"github.com/mattermost/mattermost-faas-probes/upstream/upopenfaas"
	"github.com/mattermost/mattermost-faas-probes/upstream/upopenwhisk"
)

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.AddCommand(removeAWSCmd)

	removeCmd.AddCommand(removeOpenFaaSCmd)
	removeOpenFaaSCmd.Flags().StringVar(&gateway, "gateway", "", "OpenFaaS gateway URL, defaults to $"+upopenfaas.EnvGatewayURL+" or the manifest's.")

	removeCmd.AddCommand(removeOpenWhiskCmd)
	addOpenWhiskFlags(removeOpenWhiskCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete the deployed functions of a bundle",
}

var removeAWSCmd = &cobra.Command{
	Use:   "aws <bundle>",
	Short: "Delete the functions from AWS Lambda",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := upaws.MakeClientFromEnv(log)
		if err != nil {
			return err
		}
		m, removed, err := upaws.Remove(cmd.Context(), c, args[0], log)
		if err != nil {
			return err
		}
		printRemoved(cmd.OutOrStdout(), m, "AWS Lambda", removed)
		return nil
	},
}

var removeOpenFaaSCmd = &cobra.Command{
	Use:   "openfaas <bundle>",
	Short: "Delete the functions from OpenFaaS or faasd",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := gateway
		if gw == "" {
			gw = os.Getenv(upopenfaas.EnvGatewayURL)
		}
		m, err := upopenfaas.Remove(cmd.Context(), args[0], log, gw)
		if err != nil {
			return err
		}

		var removed []string
		if m.OpenFAAS != nil {
			for _, f := range m.OpenFAAS.Functions {
				removed = append(removed, upopenfaas.FunctionName(*m, f.Name))
			}
		}
		printRemoved(cmd.OutOrStdout(), m, "OpenFaaS", removed)
		return nil
	},
}

var removeOpenWhiskCmd = &cobra.Command{
	Use:   "openwhisk <bundle>",
	Short: "Delete the functions' OpenWhisk actions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, removed, err := upopenwhisk.Remove(cmd.Context(), nil, args[0], log, owAPIHost, owAuth)
		if err != nil {
			return err
		}
		printRemoved(cmd.OutOrStdout(), m, "OpenWhisk", removed)
		return nil
	},
}

func printRemoved(w io.Writer, m *function.Manifest, platform string, removed []string) {
	if len(removed) == 0 {
		fmt.Fprintf(w, "\nNothing to remove for %s %s from %s.\n", m.AppID, m.Version, platform)
		return
	}
	fmt.Fprintf(w, "\nRemoved %s %s from %s:\n", m.AppID, m.Version, platform)
	for _, name := range removed {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
