// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package awsapp runs a goapp.App as an AWS Lambda function, in the
// event/context callback convention: each invocation receives an API Gateway
// proxy event and returns a status-coded envelope with a JSON body.
package awsapp

import (
	"context"
	"encoding/base64"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/goapp"
	"github.com/mattermost/mattermost-faas-probes/utils"
	"github.com/mattermost/mattermost-faas-probes/utils/httputils"
)

type HandlerFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Handler adapts f. The returned error is always nil, failures are reported
// in the envelope's status code and message.
func Handler(app *goapp.App, f function.Function) HandlerFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		log := app.Log.With("function", f.Name)
		req, err := RequestFromEvent(event)
		if err != nil {
			log.WithError(err).Debugw("Invalid event.")
			return Envelope(function.NewErrorResponse(err)), nil
		}

		resp := f.Invoke(ctx, req)
		log.With(req).Debugw("Function call.", "status", resp.StatusCode)
		return Envelope(resp), nil
	}
}

// RouteHandler dispatches each event to the function that matches its path.
func RouteHandler(app *goapp.App) HandlerFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		f, err := app.Route(event.Path)
		if err != nil {
			app.Log.WithError(err).Debugw("Function request: not found.")
			return Envelope(function.NewErrorResponse(err)), nil
		}
		return Handler(app, f)(ctx, event)
	}
}

// RunAWSLambda starts the lambda. With name, only that function is served,
// otherwise the event's path selects the function.
func RunAWSLambda(app *goapp.App, name string) error {
	app.Mode = function.DeployAWSLambda
	if name == "" {
		lambda.Start(RouteHandler(app))
		return nil
	}

	f, err := app.Function(name)
	if err != nil {
		return err
	}
	lambda.Start(Handler(app, f))
	return nil
}

// RunAWSLambdaProxy serves the app's whole HTTP router through API Gateway,
// with the plain text responses of goapp.
func RunAWSLambdaProxy(app *goapp.App) {
	app.Mode = function.DeployAWSLambda
	lambda.Start(ProxyHandler(app))
}

// ProxyHandler runs the app's router for each event. Response bodies are the
// routes' plain text, not Envelope messages.
func ProxyHandler(app *goapp.App) HandlerFunc {
	return httpadapter.New(app.Router).ProxyWithContext
}

// RequestFromEvent extracts a function request from an API Gateway event.
func RequestFromEvent(event events.APIGatewayProxyRequest) (function.Request, error) {
	body := event.Body
	if event.IsBase64Encoded {
		data, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return function.Request{}, utils.NewInvalidError("failed to decode base64 body: %v", err)
		}
		body = string(data)
	}

	q := url.Values{}
	for k, vv := range event.MultiValueQueryStringParameters {
		q[k] = append(q[k], vv...)
	}
	for k, v := range event.QueryStringParameters {
		if _, ok := q[k]; !ok {
			q.Set(k, v)
		}
	}

	req := function.Request{
		Path:   event.Path,
		Body:   body,
		Values: function.ValuesFromQuery(q),
	}
	req.MergeJSONBody()
	return req, nil
}

// Envelope packs a response into the API Gateway proxy format, with the
// message in a JSON body.
func Envelope(resp function.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: utils.ToJSON(httputils.MessageBody{Message: resp.Message}),
	}
}
