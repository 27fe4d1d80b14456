// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/probes"
	"github.com/mattermost/mattermost-faas-probes/upstream"
	"github.com/mattermost/mattermost-faas-probes/upstream/upaws"
	"github.com/mattermost/mattermost-faas-probes/upstream/uphttp"
	"github.com/mattermost/mattermost-faas-probes/upstream/upopenfaas"
	"github.com/mattermost/mattermost-faas-probes/upstream/upopenwhisk"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

var (
	manifestPath string
	rootURL      string
)

func init() {
	rootCmd.AddCommand(invokeCmd)
	invokeCmd.Flags().StringVar(&manifestPath, "manifest", function.ManifestFile, "Manifest of the deployed functions.")
	invokeCmd.Flags().StringVar(&rootURL, "url", "", "Root URL of an HTTP deployment, overrides the manifest's.")
}

var invokeCmd = &cobra.Command{
	Use:   "invoke <deploy-type> <function> [param]",
	Short: "Invoke a deployed function, and print its result",
	Long: `Invoke a deployed function, and print its result. Deploy types are
aws_lambda, http, openfaas and openwhisk. Credentials are read from the
environment: PROBES_AWS_ACCESS_KEY, PROBES_AWS_SECRET_KEY, PROBES_AWS_REGION,
PROBES_JWT_SECRET, OPENFAAS_URL, OPENWHISK_APIHOST and OPENWHISK_AUTH.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		deployType := function.DeployType(args[0])
		if err := deployType.Validate(); err != nil {
			return err
		}
		f, ok := probes.Find(probes.Functions(nil), args[1])
		if !ok {
			return utils.NewNotFoundError("function %q", args[1])
		}
		param := ""
		if len(args) > 2 {
			param = args[2]
		}

		m, err := function.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		up, err := makeUpstream(deployType, *m)
		if err != nil {
			return err
		}

		var values map[string]string
		if param != "" {
			values = map[string]string{probes.ParamName(f.Name): param}
		}
		log.Debugw("Invoking function", "deploy_type", deployType, "function", f.Name, "path", f.Path)
		text, err := up.Invoke(cmd.Context(), f.Path, values)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func makeUpstream(deployType function.DeployType, m function.Manifest) (upstream.Upstream, error) {
	if !m.Supports(deployType) && !(deployType == function.DeployHTTP && rootURL != "") {
		return nil, utils.NewInvalidError("%s has no %s section in the manifest", m.AppID, deployType)
	}

	switch deployType {
	case function.DeployAWSLambda:
		c, err := upaws.MakeClientFromEnv(log)
		if err != nil {
			return nil, err
		}
		return upaws.NewUpstream(c, m)

	case function.DeployHTTP:
		u := rootURL
		secret := ""
		if m.HTTP != nil {
			if u == "" {
				u = m.HTTP.RootURL
			}
			if m.HTTP.UseJWT {
				secret = os.Getenv(function.EnvJWTSecret)
			}
		}
		if u == "" {
			return nil, utils.NewInvalidError("no root URL, use --url or http.root_url in the manifest")
		}
		return uphttp.NewUpstream(nil, secret, uphttp.StaticRootURL(u)), nil

	case function.DeployOpenFAAS:
		return upopenfaas.MakeUpstream(nil, m, "")

	case function.DeployOpenWhisk:
		return upopenwhisk.MakeUpstream(nil, m, "", "")
	}
	return nil, utils.NewInvalidError("%s is not a valid deploy type", deployType)
}
