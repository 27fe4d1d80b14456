// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package httputils

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

// ServerlessRequest is a scoped down version of
// https://pkg.go.dev/github.com/aws/aws-lambda-go@v1.13.3/events#APIGatewayProxyRequest
type ServerlessRequest struct {
	Path                  string            `json:"path"`
	HTTPMethod            string            `json:"httpMethod"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters,omitempty"`
	Body                  string            `json:"body"`
}

// ServerlessResponse is a scoped down version of
// https://pkg.go.dev/github.com/aws/aws-lambda-go@v1.13.3/events#APIGatewayProxyResponse
type ServerlessResponse struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
	Body            string            `json:"body"`
}

// MessageBody is the JSON body of a serverless response, both for successful
// and failed invocations.
type MessageBody struct {
	Message string `json:"message"`
}

// ServerlessRequestData encodes an invocation of the function at path, with
// the parameters passed as query string parameters.
func ServerlessRequestData(path string, params map[string]string) ([]byte, error) {
	request := ServerlessRequest{
		Path:                  path,
		HTTPMethod:            http.MethodPost,
		Headers:               map[string]string{"Content-Type": "application/json"},
		QueryStringParameters: params,
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode serverless request")
	}
	return payload, nil
}

// ServerlessResponseFromJSON decodes a serverless response and returns the
// message it carries. A non-200 status is turned back into an error with the
// matching cause.
func ServerlessResponseFromJSON(data []byte) (string, error) {
	resp := ServerlessResponse{}
	err := json.Unmarshal(data, &resp)
	if err != nil {
		return "", errors.Wrap(err, "error decoding serverless response")
	}
	body := MessageBody{}
	err = json.Unmarshal([]byte(resp.Body), &body)
	if err != nil {
		return "", errors.Wrapf(err, "error decoding serverless response body %q", resp.Body)
	}
	if resp.StatusCode != http.StatusOK {
		return "", StatusToError(resp.StatusCode, body.Message)
	}
	return body.Message, nil
}

// ServerlessProxyResponseFromJSON decodes the response of a function served
// through the API Gateway proxy adapter. Its body is the plain text written by
// the HTTP handler, not a MessageBody.
func ServerlessProxyResponseFromJSON(data []byte) (string, error) {
	resp := ServerlessResponse{}
	err := json.Unmarshal(data, &resp)
	if err != nil {
		return "", errors.Wrap(err, "error decoding serverless response")
	}
	body := resp.Body
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return "", errors.Wrap(err, "error decoding base64 serverless response body")
		}
		body = string(decoded)
	}
	if resp.StatusCode != http.StatusOK {
		return "", StatusToError(resp.StatusCode, strings.TrimSpace(body))
	}
	return body, nil
}

// StatusToError is the reverse of ErrorToStatus.
func StatusToError(statusCode int, message string) error {
	switch statusCode {
	case http.StatusNotFound:
		return utils.NewUnavailableError("function failed with status code %v: %s", statusCode, message)
	case http.StatusBadRequest:
		return utils.NewInvalidError("function failed with status code %v: %s", statusCode, message)
	case http.StatusUnauthorized:
		return utils.NewUnauthorizedError("function failed with status code %v: %s", statusCode, message)
	default:
		return errors.Errorf("function failed with status code %v: %s", statusCode, message)
	}
}
