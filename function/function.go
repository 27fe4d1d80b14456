// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package function

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mattermost/mattermost-faas-probes/utils/httputils"
)

// HandlerFunc is a function's single computation. It is invoked once per
// request and returns the result text, or an error.
type HandlerFunc func(ctx context.Context, req Request) (string, error)

type Function struct {
	Name    string
	Path    string
	Handler HandlerFunc
}

func (f Function) RoutePath() string { return f.Path }

// Request is the platform-independent input of an invocation, as extracted by
// the adapters.
type Request struct {
	Path string

	// Body is the raw request body, if any.
	Body string

	// Values are the named invocation parameters: query string parameters,
	// top-level fields of a JSON object body, or OpenWhisk params.
	Values map[string]interface{}
}

// Param returns the named parameter, nil if absent.
func (r Request) Param(name string) interface{} {
	if r.Values == nil {
		return nil
	}
	return r.Values[name]
}

// StringParam returns the named parameter as a string. Non-string values are
// formatted with %v, absent ones are "".
func (r Request) StringParam(name string) string {
	v := r.Param(name)
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	default:
		return fmt.Sprintf("%v", tv)
	}
}

func (r Request) Loggable() []interface{} {
	props := []interface{}{"path", r.Path}
	if len(r.Values) > 0 {
		keys := []string{}
		for k := range r.Values {
			keys = append(keys, k)
		}
		props = append(props, "params", strings.Join(keys, ","))
	}
	return props
}

// ValuesFromQuery converts query string parameters into Values. A parameter
// repeated in the query becomes a list.
func ValuesFromQuery(q url.Values) map[string]interface{} {
	values := map[string]interface{}{}
	for k, vv := range q {
		switch len(vv) {
		case 0:
		case 1:
			values[k] = vv[0]
		default:
			list := []interface{}{}
			for _, v := range vv {
				list = append(list, v)
			}
			values[k] = list
		}
	}
	return values
}

// MergeJSONBody adds the top-level fields of a JSON object body to Values.
// Values already present win. A body that is not a JSON object is left alone,
// it is still available as Body.
func (r *Request) MergeJSONBody() {
	trimmed := strings.TrimSpace(r.Body)
	if !strings.HasPrefix(trimmed, "{") {
		return
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return
	}
	if r.Values == nil {
		r.Values = map[string]interface{}{}
	}
	for k, v := range fields {
		if _, ok := r.Values[k]; !ok {
			r.Values[k] = v
		}
	}
}

// Response is the result of an invocation, in the form used by the
// status-coded envelopes (AWS Lambda, HTTP).
type Response struct {
	StatusCode int
	Message    string
}

func NewResponse(text string) Response {
	return Response{
		StatusCode: httputils.ErrorToStatus(nil),
		Message:    text,
	}
}

func NewErrorResponse(err error) Response {
	return Response{
		StatusCode: httputils.ErrorToStatus(err),
		Message:    fmt.Sprintf("Error: %v.", err),
	}
}

// Invoke runs f and packs the outcome into a Response.
func (f Function) Invoke(ctx context.Context, req Request) Response {
	text, err := f.Handler(ctx, req)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewResponse(text)
}
