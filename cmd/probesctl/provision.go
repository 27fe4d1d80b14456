// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-faas-probes/upstream/upaws"
	"github.com/mattermost/mattermost-faas-probes/upstream/upopenfaas"
	"github.com/mattermost/mattermost-faas-probes/upstream/upopenwhisk"
)

var (
	shouldUpdate   bool
	executeRoleARN string
	gateway        string
	imagePrefix    string
	owAPIHost      string
	owAuth         string
)

func init() {
	rootCmd.AddCommand(provisionCmd)

	provisionCmd.PersistentFlags().BoolVar(&shouldUpdate, "update", false, "Update functions if they already exist. Use with caution in production.")

	provisionCmd.AddCommand(provisionAWSCmd)
	provisionAWSCmd.Flags().StringVar(&executeRoleARN, "execute-role", "", "ARN of the role to be assumed by running Lambdas.")

	provisionCmd.AddCommand(provisionOpenFaaSCmd)
	provisionOpenFaaSCmd.Flags().StringVar(&gateway, "gateway", "", "OpenFaaS gateway URL, defaults to $"+upopenfaas.EnvGatewayURL+" or the manifest's.")
	provisionOpenFaaSCmd.Flags().StringVar(&imagePrefix, "prefix", "", "Image registry prefix, defaults to the manifest's.")

	provisionCmd.AddCommand(provisionOpenWhiskCmd)
	addOpenWhiskFlags(provisionOpenWhiskCmd)
}

func addOpenWhiskFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&owAPIHost, "apihost", "", "OpenWhisk API host, defaults to $"+upopenwhisk.EnvAPIHost+" or the manifest's.")
	cmd.Flags().StringVar(&owAuth, "auth", "", "OpenWhisk auth key (uuid:key), defaults to $"+upopenwhisk.EnvAuth+".")
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Deploy the functions from a bundle",
}

var provisionAWSCmd = &cobra.Command{
	Use:   "aws <bundle>",
	Short: "Provision the functions to AWS Lambda",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if executeRoleARN == "" {
			return errors.New("--execute-role is required")
		}
		c, err := upaws.MakeClientFromEnv(log)
		if err != nil {
			return err
		}

		m, arns, err := upaws.Provision(cmd.Context(), c, args[0], log, upaws.ProvisionParams{
			ExecuteRoleARN: upaws.ARN(executeRoleARN),
			ShouldUpdate:   shouldUpdate,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nProvisioned %s %s to AWS Lambda:\n", m.AppID, m.Version)
		for _, arn := range arns {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", arn)
		}
		return nil
	},
}

var provisionOpenFaaSCmd = &cobra.Command{
	Use:   "openfaas <bundle>",
	Short: "Provision the functions to OpenFaaS or faasd",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := gateway
		if gw == "" {
			gw = os.Getenv(upopenfaas.EnvGatewayURL)
		}

		m, err := upopenfaas.Provision(cmd.Context(), args[0], log, shouldUpdate, gw, imagePrefix)
		if err != nil {
			return err
		}
		if m.OpenFAAS == nil || len(m.OpenFAAS.Functions) == 0 {
			return errors.New("no functions to provision, check manifest.yml")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nProvisioned %s %s to OpenFaaS:\n", m.AppID, m.Version)
		for _, f := range m.OpenFAAS.Functions {
			if gw == "" {
				gw = m.OpenFAAS.Gateway
			}
			u, err := upopenfaas.RootURL(*m, gw, f.Path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s%s\n", u, f.Path)
		}
		return nil
	},
}

var provisionOpenWhiskCmd = &cobra.Command{
	Use:   "openwhisk <bundle>",
	Short: "Provision the functions as OpenWhisk actions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, names, err := upopenwhisk.Provision(cmd.Context(), nil, args[0], log, owAPIHost, owAuth, shouldUpdate)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nProvisioned %s %s to OpenWhisk:\n", m.AppID, m.Version)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		return nil
	},
}
