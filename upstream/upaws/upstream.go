// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upaws

import (
	"context"

	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream"
	"github.com/mattermost/mattermost-faas-probes/utils"
	"github.com/mattermost/mattermost-faas-probes/utils/httputils"
)

// Upstream wraps an awsClient to invoke the functions of a manifest.
type Upstream struct {
	awsClient Client
	manifest  function.Manifest
}

var _ upstream.Upstream = (*Upstream)(nil)

func NewUpstream(c Client, m function.Manifest) (*Upstream, error) {
	if m.AWSLambda == nil {
		return nil, errors.Errorf("%s has no aws_lambda section in the manifest", m.AppID)
	}
	return &Upstream{
		awsClient: c,
		manifest:  m,
	}, nil
}

func (u *Upstream) Invoke(ctx context.Context, path string, params map[string]string) (string, error) {
	f, err := u.Function(path)
	if err != nil {
		return "", err
	}
	data, err := u.InvokeFunction(ctx, LambdaName(u.manifest, f.Name), path, params)
	if err != nil {
		return "", err
	}
	if f.Proxy {
		return httputils.ServerlessProxyResponseFromJSON(data)
	}
	return httputils.ServerlessResponseFromJSON(data)
}

// Function returns the lambda function that serves path.
func (u *Upstream) Function(path string) (function.AWSLambdaFunction, error) {
	f, ok := function.Match(path, u.manifest.AWSLambda.Functions)
	if !ok {
		return f, utils.NewNotFoundError("no lambda function matched %q", path)
	}
	return f, nil
}

// FunctionName returns the name of the lambda function that serves path.
func (u *Upstream) FunctionName(path string) (string, error) {
	f, err := u.Function(path)
	if err != nil {
		return "", err
	}
	return LambdaName(u.manifest, f.Name), nil
}

// InvokeFunction invokes a lambda function by its name, with an API Gateway
// proxy event for path and params, and returns the raw response payload.
func (u *Upstream) InvokeFunction(ctx context.Context, name, path string, params map[string]string) ([]byte, error) {
	payload, err := httputils.ServerlessRequestData(path, params)
	if err != nil {
		return nil, err
	}
	return u.awsClient.InvokeLambda(ctx, name, lambda.InvocationTypeRequestResponse, payload)
}
