// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package probes assembles the diagnostic functions, ready to be served by
// any of the adapters.
package probes

import (
	"context"
	"strings"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/hostfacts"
	"github.com/mattermost/mattermost-faas-probes/nodeinfo"
	"github.com/mattermost/mattermost-faas-probes/timeinfo"
)

const (
	NodeInfo = "nodeinfo"
	Time     = "time"

	// ParamMode carries the nodeinfo verbosity indicator. If absent, the
	// request body is used.
	ParamMode = "mode"

	// ParamTimezone carries the time function's timezone.
	ParamTimezone = "timezone"
)

// Functions returns the function set, with nodeinfo reading the host through
// facts.
func Functions(facts hostfacts.Provider) []function.Function {
	return []function.Function{
		{
			Name:    NodeInfo,
			Path:    "/" + NodeInfo,
			Handler: NodeInfoHandler(facts),
		},
		{
			Name:    Time,
			Path:    "/" + Time,
			Handler: TimeHandler,
		},
	}
}

func NodeInfoHandler(facts hostfacts.Provider) function.HandlerFunc {
	return func(ctx context.Context, req function.Request) (string, error) {
		param := req.Param(ParamMode)
		if param == nil {
			param = req.Body
		}
		return nodeinfo.Probe(ctx, facts, param)
	}
}

func TimeHandler(_ context.Context, req function.Request) (string, error) {
	return timeinfo.Now(req.StringParam(ParamTimezone))
}

// Find looks a function up by its name or path.
func Find(ff []function.Function, nameOrPath string) (function.Function, bool) {
	for _, f := range ff {
		if f.Name == nameOrPath || f.Path == nameOrPath || f.Path == "/"+strings.TrimPrefix(nameOrPath, "/") {
			return f, true
		}
	}
	return function.Function{}, false
}

// ParamName returns the name of the parameter a function takes, for callers
// that pass a single positional parameter.
func ParamName(name string) string {
	switch strings.TrimPrefix(name, "/") {
	case NodeInfo:
		return ParamMode
	case Time:
		return ParamTimezone
	default:
		return ""
	}
}
