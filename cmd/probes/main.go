// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// probes serves the diagnostic functions on any of the supported platforms.
// $MODE selects the platform, $FUNCTION the function for the single-function
// modes.
package main

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/goapp"
	"github.com/mattermost/mattermost-faas-probes/goapp/awsapp"
	"github.com/mattermost/mattermost-faas-probes/goapp/owapp"
	"github.com/mattermost/mattermost-faas-probes/hostfacts"
	"github.com/mattermost/mattermost-faas-probes/probes"
	"github.com/mattermost/mattermost-faas-probes/utils"

	// Serverless runtimes do not always ship the timezone database.
	_ "time/tzdata"
)

const (
	EnvMode     = "MODE"
	EnvFunction = "FUNCTION"
	EnvLogLevel = "PROBES_LOG_LEVEL"
)

//go:embed manifest.yml
var manifestData []byte

func main() {
	log := utils.MustMakeCommandLogger(utils.LevelFromString(os.Getenv(EnvLogLevel)))
	app, err := makeApp(log)
	if err != nil {
		log.WithError(err).Errorw("Failed to initialize")
		os.Exit(1)
	}

	err = run(app, os.Getenv(EnvMode), os.Getenv(EnvFunction))
	if err != nil {
		log.WithError(err).Errorw("Failed to run")
		os.Exit(1)
	}
}

func makeApp(log utils.Logger) (*goapp.App, error) {
	m, err := function.DecodeManifest(manifestData)
	if err != nil {
		return nil, err
	}
	return goapp.MakeApp(*m,
		goapp.WithLog(log),
		goapp.WithFunctions(probes.Functions(hostfacts.NewSystemFromEnv())...),
	)
}

func run(app *goapp.App, mode, name string) error {
	switch mode {
	case string(function.DeployAWSLambda):
		return awsapp.RunAWSLambda(app, name)

	case function.ModeAWSLambdaProxy:
		awsapp.RunAWSLambdaProxy(app)

	case string(function.DeployOpenWhisk):
		f, err := app.Function(name)
		if err != nil {
			return errors.Wrapf(err, "%s must name the action's function", EnvFunction)
		}
		return owapp.RunActionLoop(app, f, os.Stdin, os.NewFile(3, "pipe"))

	case "", string(function.DeployHTTP), string(function.DeployOpenFAAS):
		app.RunHTTP()

	default:
		return utils.NewInvalidError("unknown %s %q", EnvMode, mode)
	}
	return nil
}
