// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package awsapp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/goapp"
	"github.com/mattermost/mattermost-faas-probes/hostfacts"
	"github.com/mattermost/mattermost-faas-probes/probes"
	"github.com/mattermost/mattermost-faas-probes/timeinfo"
	"github.com/mattermost/mattermost-faas-probes/utils"
	"github.com/mattermost/mattermost-faas-probes/utils/httputils"

	_ "time/tzdata"
)

func testApp(t *testing.T, cpuInfoPath string) *goapp.App {
	return goapp.MakeAppOrPanic(function.Manifest{AppID: "probes"},
		goapp.WithLog(utils.NewTestLogger()),
		goapp.WithFunctions(probes.Functions(hostfacts.NewSystem(cpuInfoPath))...),
	)
}

func message(t *testing.T, resp events.APIGatewayProxyResponse) string {
	body := httputils.MessageBody{}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return body.Message
}

func TestHandlerTime(t *testing.T) {
	saved := timeinfo.Clock
	defer func() { timeinfo.Clock = saved }()
	timeinfo.Clock = func() time.Time { return time.Date(2021, time.July, 15, 9, 42, 17, 0, time.UTC) }

	app := testApp(t, "")
	f, err := app.Function(probes.Time)
	require.NoError(t, err)
	h := Handler(app, f)

	for _, tc := range []struct {
		name            string
		event           events.APIGatewayProxyRequest
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "default timezone",
			event:           events.APIGatewayProxyRequest{Path: "/time"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "The time in Europe/London is: 10:07:17.",
		},
		{
			name: "query",
			event: events.APIGatewayProxyRequest{
				Path:                  "/time",
				QueryStringParameters: map[string]string{"timezone": "America/New_York"},
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "The time in America/New_York is: 05:07:17.",
		},
		{
			name: "JSON body",
			event: events.APIGatewayProxyRequest{
				Path: "/time",
				Body: `{"timezone":"America/New_York"}`,
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "The time in America/New_York is: 05:07:17.",
		},
		{
			name: "base64 JSON body",
			event: events.APIGatewayProxyRequest{
				Path:            "/time",
				Body:            base64.StdEncoding.EncodeToString([]byte(`{"timezone":"America/New_York"}`)),
				IsBase64Encoded: true,
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "The time in America/New_York is: 05:07:17.",
		},
		{
			name: "invalid timezone",
			event: events.APIGatewayProxyRequest{
				Path:                  "/time",
				QueryStringParameters: map[string]string{"timezone": "Mars/Olympus"},
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Error: unknown time zone Mars/Olympus: invalid parameter.",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := h(context.Background(), tc.event)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
			assert.Equal(t, tc.expectedMessage, message(t, resp))
		})
	}
}

func TestHandlerNodeInfoUnavailable(t *testing.T) {
	app := testApp(t, filepath.Join(t.TempDir(), "missing"))
	f, err := app.Function(probes.NodeInfo)
	require.NoError(t, err)

	resp, err := Handler(app, f)(context.Background(), events.APIGatewayProxyRequest{Path: "/nodeinfo"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, message(t, resp), "no such file or directory")
	assert.Contains(t, message(t, resp), "Error: ")
}

func TestRouteHandler(t *testing.T) {
	app := testApp(t, "")
	h := RouteHandler(app)

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		Path:                  "/time",
		QueryStringParameters: map[string]string{"timezone": "UTC"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, message(t, resp), "The time in UTC is: ")

	resp, err = h(context.Background(), events.APIGatewayProxyRequest{Path: "/elsewhere"})
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestFromEvent(t *testing.T) {
	req, err := RequestFromEvent(events.APIGatewayProxyRequest{
		Path:                            "/nodeinfo",
		Body:                            "verbose",
		QueryStringParameters:           map[string]string{"a": "1", "b": "2"},
		MultiValueQueryStringParameters: map[string][]string{"b": {"2", "3"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "verbose", req.Body)
	assert.Equal(t, map[string]interface{}{
		"a": "1",
		"b": []interface{}{"2", "3"},
	}, req.Values)

	_, err = RequestFromEvent(events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true})
	require.Error(t, err)
}
