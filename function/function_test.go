// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package function

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

func TestRequestParams(t *testing.T) {
	req := Request{}
	assert.Nil(t, req.Param("timezone"))
	assert.Equal(t, "", req.StringParam("timezone"))

	req.Values = map[string]interface{}{
		"timezone": "America/New_York",
		"count":    float64(3),
	}
	assert.Equal(t, "America/New_York", req.StringParam("timezone"))
	assert.Equal(t, "3", req.StringParam("count"))
}

func TestValuesFromQuery(t *testing.T) {
	q, err := url.ParseQuery("timezone=UTC&mode=verbose&mode=extra&empty=")
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"timezone": "UTC",
		"mode":     []interface{}{"verbose", "extra"},
		"empty":    "",
	}, ValuesFromQuery(q))
}

func TestInvoke(t *testing.T) {
	for _, tc := range []struct {
		name     string
		text     string
		err      error
		expected Response
	}{
		{
			name:     "ok",
			text:     "fine",
			expected: Response{StatusCode: http.StatusOK, Message: "fine"},
		},
		{
			name:     "unavailable",
			err:      utils.NewUnavailableError("open /proc/cpuinfo: no such file or directory"),
			expected: Response{StatusCode: http.StatusNotFound, Message: "Error: open /proc/cpuinfo: no such file or directory: resource unavailable."},
		},
		{
			name:     "invalid",
			err:      utils.NewInvalidError("unknown time zone X"),
			expected: Response{StatusCode: http.StatusBadRequest, Message: "Error: unknown time zone X: invalid parameter."},
		},
		{
			name:     "other",
			err:      errors.New("boom"),
			expected: Response{StatusCode: http.StatusInternalServerError, Message: "Error: boom."},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := Function{
				Name: "test",
				Path: "/test",
				Handler: func(context.Context, Request) (string, error) {
					return tc.text, tc.err
				},
			}
			assert.Equal(t, tc.expected, f.Invoke(context.Background(), Request{}))
		})
	}
}

func TestDeployTypeValidate(t *testing.T) {
	for _, dt := range DeployTypes {
		require.NoError(t, dt.Validate())
	}
	err := DeployType("kubeless").Validate()
	require.Error(t, err)
	assert.Equal(t, utils.ErrInvalid, errors.Cause(err))
	assert.Equal(t, "kubeless", DeployType("kubeless").String())
}

func TestMergeJSONBody(t *testing.T) {
	for _, tc := range []struct {
		name     string
		req      Request
		expected map[string]interface{}
	}{
		{
			name:     "object",
			req:      Request{Body: `{"timezone":"Asia/Tokyo","n":1}`},
			expected: map[string]interface{}{"timezone": "Asia/Tokyo", "n": float64(1)},
		},
		{
			name:     "query wins",
			req:      Request{Body: ` {"timezone":"Asia/Tokyo"}`, Values: map[string]interface{}{"timezone": "UTC"}},
			expected: map[string]interface{}{"timezone": "UTC"},
		},
		{
			name: "plain text",
			req:  Request{Body: "verbose"},
		},
		{
			name: "broken json",
			req:  Request{Body: `{"verbose"`},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.MergeJSONBody()
			if tc.expected == nil {
				assert.Empty(t, tc.req.Values)
				return
			}
			assert.Equal(t, tc.expected, tc.req.Values)
		})
	}
}
