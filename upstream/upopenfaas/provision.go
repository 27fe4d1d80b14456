// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upopenfaas

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/openfaas/faas-cli/stack"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

// Provision creates OpenFaaS functions from a bundle's stack file, using
// faas-cli.
func Provision(ctx context.Context, bundlePath string, log utils.Logger, shouldUpdate bool, gateway, prefix string) (*function.Manifest, error) {
	return runFaasCLI(ctx, bundlePath, log, gateway, prefix, FaasCLIArgs(StackFile, shouldUpdate))
}

// Remove deletes the OpenFaaS functions of a bundle's stack file, using
// faas-cli.
func Remove(ctx context.Context, bundlePath string, log utils.Logger, gateway string) (*function.Manifest, error) {
	return runFaasCLI(ctx, bundlePath, log, gateway, "", FaasCLIRemoveArgs(StackFile))
}

func runFaasCLI(ctx context.Context, bundlePath string, log utils.Logger, gateway, prefix string, args []string) (*function.Manifest, error) {
	b, err := upstream.GetBundle(ctx, bundlePath, log)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if gateway == "" && b.Manifest.OpenFAAS != nil {
		gateway = b.Manifest.OpenFAAS.Gateway
	}
	if prefix == "" && b.Manifest.OpenFAAS != nil {
		prefix = b.Manifest.OpenFAAS.ImagePrefix
	}

	err = PrepareStack(b.Path(StackFile), *b.Manifest, gateway, prefix)
	if err != nil {
		return nil, err
	}

	faascliPath, err := exec.LookPath("faas-cli")
	if err != nil {
		return nil, errors.Wrap(err, "failed to find faas-cli command. Please follow the steps from https://docs.openfaas.com/cli/install/")
	}
	cmd := exec.CommandContext(ctx, faascliPath, args...)
	cmd.Dir = b.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Debugf("Run %s", cmd.String())
	err = cmd.Run()
	if err != nil {
		return nil, errors.Wrap(err, "failed to run faas-cli command")
	}

	return b.Manifest, nil
}

// PrepareStack rewrites a stack file in place: functions are renamed to their
// qualified names, images get the registry prefix, and the environment tells
// the binary which function to serve.
func PrepareStack(stackFile string, m function.Manifest, gateway, prefix string) error {
	parsedServices, err := stack.ParseYAMLFile(stackFile, "", "", false)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s", stackFile)
	}
	if gateway != "" {
		parsedServices.Provider.GatewayURL = gateway
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	newFunctions := map[string]stack.Function{}
	for name, origF := range parsedServices.Functions {
		f := origF
		if f.Environment == nil {
			f.Environment = map[string]string{}
		}
		f.Environment[FuncEnvMode] = string(function.DeployHTTP)
		f.Environment[FuncEnvFunction] = name
		f.Name = FunctionName(m, name)
		f.Image = prefix + f.Image
		newFunctions[f.Name] = f
	}
	parsedServices.Functions = newFunctions

	yamlData, err := yaml.Marshal(parsedServices)
	if err != nil {
		return err
	}
	return os.WriteFile(stackFile, yamlData, 0600)
}

func FaasCLIArgs(stackFile string, shouldUpdate bool) []string {
	args := []string{"up", "-f", stackFile}
	if !shouldUpdate {
		args = append(args, "--update=false", "--replace=false")
	}
	return args
}

func FaasCLIRemoveArgs(stackFile string) []string {
	return []string{"remove", "-f", stackFile}
}
