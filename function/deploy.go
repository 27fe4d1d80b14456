// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package function

import (
	"github.com/mattermost/mattermost-faas-probes/utils"
)

// DeployType determines how the functions are deployed and invoked.
type DeployType string

const (
	// AWS Lambda-deployable functions, invoked with API Gateway proxy events.
	// The result is returned in a {statusCode, body} envelope.
	DeployAWSLambda DeployType = "aws_lambda"

	// HTTP-deployable functions, e.g. Google Cloud Functions or a plain HTTP
	// server. Each function is served at its path, the result is the response
	// body.
	DeployHTTP DeployType = "http"

	// OpenFaaS or faasd, using the golang-middleware template. Invoked over
	// HTTP through the gateway.
	DeployOpenFAAS DeployType = "openfaas"

	// Apache OpenWhisk Go actions. The action receives a params object and
	// resolves to a {payload} object, or rejects with an {error}.
	DeployOpenWhisk DeployType = "openwhisk"
)

// ModeAWSLambdaProxy is the MODE of a lambda that serves the whole HTTP router
// through the API Gateway proxy adapter, rather than a single function.
const ModeAWSLambdaProxy = "aws_lambda_proxy"

var DeployTypes = []DeployType{
	DeployAWSLambda,
	DeployHTTP,
	DeployOpenFAAS,
	DeployOpenWhisk,
}

func (t DeployType) Validate() error {
	switch t {
	case DeployAWSLambda,
		DeployHTTP,
		DeployOpenFAAS,
		DeployOpenWhisk:
		return nil
	default:
		return utils.NewInvalidError("%s is not a valid deploy type", t)
	}
}

func (t DeployType) String() string {
	switch t {
	case DeployAWSLambda:
		return "AWS Lambda"
	case DeployHTTP:
		return "HTTP"
	case DeployOpenFAAS:
		return "OpenFaaS"
	case DeployOpenWhisk:
		return "OpenWhisk"
	default:
		return string(t)
	}
}
