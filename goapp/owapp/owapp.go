// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package owapp runs a function as an OpenWhisk action. The action receives
// its parameters as a JSON object and resolves to {"payload": text}, or
// rejects with {"error": message}.
package owapp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/goapp"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

const (
	KeyPayload = "payload"
	KeyError   = "error"

	// Web action parameters added by the OpenWhisk controller.
	owPrefix = "__ow_"
	owBody   = "__ow_body"
	owPath   = "__ow_path"

	// Set by the action proxy when it waits for the loop to be ready.
	EnvWaitForAck = "__OW_WAIT_FOR_ACK"
)

type ActionFunc func(params map[string]interface{}) map[string]interface{}

// Main adapts f to the OpenWhisk Go action signature.
func Main(app *goapp.App, f function.Function) ActionFunc {
	return func(params map[string]interface{}) map[string]interface{} {
		return invoke(context.Background(), app, f, params)
	}
}

func invoke(ctx context.Context, app *goapp.App, f function.Function, params map[string]interface{}) map[string]interface{} {
	req := RequestFromParams(f, params)
	log := app.Log.With("function", f.Name).With(req)

	text, err := f.Handler(ctx, req)
	if err != nil {
		log.WithError(err).Debugw("Action rejected.")
		return map[string]interface{}{KeyError: err.Error()}
	}
	log.Debugw("Action resolved.")
	return map[string]interface{}{KeyPayload: text}
}

// RequestFromParams extracts a function request from action parameters. The
// web action fields are not passed on as Values.
func RequestFromParams(f function.Function, params map[string]interface{}) function.Request {
	req := function.Request{
		Path:   f.Path,
		Values: map[string]interface{}{},
	}
	for k, v := range params {
		if !strings.HasPrefix(k, owPrefix) {
			req.Values[k] = v
		}
	}
	if body, ok := params[owBody].(string); ok {
		req.Body = body
		req.MergeJSONBody()
	}
	if p, ok := params[owPath].(string); ok && p != "" {
		req.Path = p
	}
	return req
}

type activation struct {
	Value map[string]interface{} `json:"value"`
}

// RunActionLoop serves activations in the OpenWhisk actionloop protocol: one
// JSON object per input line, with the parameters under "value" and the
// activation metadata as the other fields. Each activation produces exactly
// one JSON line on out.
func RunActionLoop(app *goapp.App, f function.Function, in io.Reader, out io.Writer) error {
	app.Mode = function.DeployOpenWhisk
	if os.Getenv(EnvWaitForAck) != "" {
		if _, err := fmt.Fprintf(out, "{\"ok\":true}\n"); err != nil {
			return errors.Wrap(err, "failed to acknowledge")
		}
	}
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadBytes('\n')
		if len(strings.TrimSpace(string(line))) > 0 {
			result := runActivation(app, f, line)
			data, merr := json.Marshal(result)
			if merr != nil {
				data = []byte(fmt.Sprintf(`{%q:%q}`, KeyError, merr.Error()))
			}
			if _, werr := fmt.Fprintf(out, "%s\n", data); werr != nil {
				return errors.Wrap(werr, "failed to write activation result")
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read activation")
		}
	}
}

func runActivation(app *goapp.App, f function.Function, line []byte) map[string]interface{} {
	meta := map[string]interface{}{}
	err := json.Unmarshal(line, &meta)
	if err != nil {
		err = utils.NewInvalidError("failed to decode activation: %v", err)
		app.Log.WithError(err).Debugw("Action rejected.")
		return map[string]interface{}{KeyError: err.Error()}
	}
	a := activation{}
	_ = json.Unmarshal(line, &a)

	// The activation metadata is passed to actions as __OW_ environment
	// variables.
	for k, v := range meta {
		if k == "value" {
			continue
		}
		if s, ok := v.(string); ok {
			_ = os.Setenv("__OW_"+strings.ToUpper(k), s)
		}
	}

	return invoke(context.Background(), app, f, a.Value)
}
