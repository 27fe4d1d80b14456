// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upaws

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

const (
	// Environment variables set for function execution
	FuncEnvMode     = "MODE"
	FuncEnvFunction = "FUNCTION"
)

type ProvisionParams struct {
	ExecuteRoleARN ARN
	ShouldUpdate   bool
}

// Provision creates the lambda functions of a bundle, as declared by its
// manifest. Each function's deployment package is <name>.zip in the bundle.
func Provision(ctx context.Context, c Client, bundlePath string, log utils.Logger, params ProvisionParams) (*function.Manifest, []ARN, error) {
	b, err := upstream.GetBundle(ctx, bundlePath, log)
	if err != nil {
		return nil, nil, err
	}
	defer b.Close()

	arns, err := ProvisionFunctions(ctx, c, b, log, params)
	if err != nil {
		return nil, nil, err
	}
	return b.Manifest, arns, nil
}

func ProvisionFunctions(ctx context.Context, c Client, b *upstream.Bundle, log utils.Logger, params ProvisionParams) ([]ARN, error) {
	m := *b.Manifest
	if m.AWSLambda == nil {
		return nil, utils.NewInvalidError("%s has no aws_lambda section in the manifest", m.AppID)
	}

	var arns []ARN
	for _, f := range m.AWSLambda.Functions {
		arn, err := provisionFunction(ctx, c, b, f, params)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to provision function %s", f.Name)
		}
		log.Infow("Provisioned function", "name", f.Name, "ARN", arn)
		arns = append(arns, arn)
	}
	return arns, nil
}

func provisionFunction(ctx context.Context, c Client, b *upstream.Bundle, f function.AWSLambdaFunction, params ProvisionParams) (ARN, error) {
	zipFile, err := os.Open(b.Path(f.Name + ".zip"))
	if err != nil {
		return "", errors.Wrap(err, "missing deployment package")
	}
	defer zipFile.Close()

	mode := string(function.DeployAWSLambda)
	if f.Proxy {
		mode = function.ModeAWSLambdaProxy
	}
	conf := LambdaConfig{
		Name:    LambdaName(*b.Manifest, f.Name),
		Handler: f.Handler,
		Runtime: f.Runtime,
		Role:    params.ExecuteRoleARN,
		Memory:  f.Memory,
		Timeout: f.Timeout,
		Env: map[string]string{
			FuncEnvMode:     mode,
			FuncEnvFunction: f.Name,
		},
	}
	if params.ShouldUpdate {
		return c.CreateOrUpdateLambda(ctx, zipFile, conf)
	}
	return c.CreateLambda(ctx, zipFile, conf)
}

// Remove deletes the lambda functions declared by a bundle's manifest.
// Functions that are already gone are skipped.
func Remove(ctx context.Context, c Client, bundlePath string, log utils.Logger) (*function.Manifest, []string, error) {
	b, err := upstream.GetBundle(ctx, bundlePath, log)
	if err != nil {
		return nil, nil, err
	}
	defer b.Close()

	removed, err := RemoveFunctions(ctx, c, *b.Manifest, log)
	if err != nil {
		return nil, nil, err
	}
	return b.Manifest, removed, nil
}

func RemoveFunctions(ctx context.Context, c Client, m function.Manifest, log utils.Logger) ([]string, error) {
	if m.AWSLambda == nil {
		return nil, utils.NewInvalidError("%s has no aws_lambda section in the manifest", m.AppID)
	}

	var removed []string
	for _, f := range m.AWSLambda.Functions {
		name := LambdaName(m, f.Name)
		err := c.DeleteLambda(ctx, name)
		switch {
		case errors.Cause(err) == utils.ErrNotFound:
			log.Debugw("Function not found, skipping", "name", name)
			continue
		case err != nil:
			return nil, errors.Wrapf(err, "failed to remove function %s", f.Name)
		}
		log.Infow("Removed function", "name", f.Name, "lambda", name)
		removed = append(removed, name)
	}
	return removed, nil
}
