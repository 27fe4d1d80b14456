// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upopenwhisk

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream"
	"github.com/mattermost/mattermost-faas-probes/utils"
	"github.com/mattermost/mattermost-faas-probes/utils/httputils"
)

const (
	DefaultKind = "go:1.19"

	// Init parameters, passed to the action binary as its environment.
	FuncEnvMode     = "MODE"
	FuncEnvFunction = "FUNCTION"
)

// Action is the body of an action create or update request.
type Action struct {
	Namespace  string        `json:"namespace,omitempty"`
	Name       string        `json:"name"`
	Exec       ActionExec    `json:"exec"`
	Parameters []KeyValue    `json:"parameters,omitempty"`
	Limits     *ActionLimits `json:"limits,omitempty"`
}

type ActionExec struct {
	Kind   string `json:"kind"`
	Code   string `json:"code"`
	Binary bool   `json:"binary"`
}

type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Init  bool   `json:"init,omitempty"`
}

type ActionLimits struct {
	Timeout int64 `json:"timeout,omitempty"`
	Memory  int64 `json:"memory,omitempty"`
}

// Provision creates the actions of a bundle, as declared by its manifest.
// Each action's archive is <name>.zip in the bundle.
func Provision(ctx context.Context, client *http.Client, bundlePath string, log utils.Logger, apiHost, auth string, shouldUpdate bool) (*function.Manifest, []string, error) {
	b, err := upstream.GetBundle(ctx, bundlePath, log)
	if err != nil {
		return nil, nil, err
	}
	defer b.Close()

	u, err := MakeUpstream(client, *b.Manifest, apiHost, auth)
	if err != nil {
		return nil, nil, err
	}

	var names []string
	for _, f := range b.Manifest.OpenWhisk.Functions {
		data, err := os.ReadFile(b.Path(f.Name + ".zip"))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to provision function %s: missing action archive", f.Name)
		}
		name, err := u.PutAction(ctx, f, data, shouldUpdate)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to provision function %s", f.Name)
		}
		log.Infow("Provisioned action", "name", f.Name, "action", name)
		names = append(names, name)
	}
	return b.Manifest, names, nil
}

// NewAction makes the action for f, with its archive inlined.
func (u *Upstream) NewAction(f function.OpenWhiskFunction, archive []byte) Action {
	kind := f.Kind
	if kind == "" {
		kind = DefaultKind
	}
	a := Action{
		Namespace: u.namespace,
		Name:      u.ActionName(f.Name),
		Exec: ActionExec{
			Kind:   kind,
			Code:   base64.StdEncoding.EncodeToString(archive),
			Binary: true,
		},
		Parameters: []KeyValue{
			{Key: FuncEnvMode, Value: string(function.DeployOpenWhisk), Init: true},
			{Key: FuncEnvFunction, Value: f.Name, Init: true},
		},
	}
	if f.Memory > 0 || f.Timeout > 0 {
		a.Limits = &ActionLimits{
			Memory:  f.Memory,
			Timeout: f.Timeout,
		}
	}
	return a
}

// PutAction creates the action for f. An existing action is replaced only
// if overwrite is set, otherwise OpenWhisk rejects the request.
func (u *Upstream) PutAction(ctx context.Context, f function.OpenWhiskFunction, archive []byte, overwrite bool) (string, error) {
	a := u.NewAction(f, archive)
	body, err := json.Marshal(a)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode action")
	}

	resp, err := u.do(ctx, http.MethodPut, u.actionURL(f.Name)+"?overwrite="+strconv.FormatBool(overwrite), body)
	if err != nil {
		return "", errors.Wrapf(err, "failed to put action %s", a.Name)
	}
	data, err := httputils.ReadAndClose(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response")
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return a.Name, nil
	case http.StatusConflict:
		return "", errors.Errorf("action %s already exists, use --update to replace it", a.Name)
	default:
		return "", httputils.StatusToError(resp.StatusCode, strings.TrimSpace(string(data)))
	}
}

// Remove deletes the actions declared by a bundle's manifest. Actions that
// are already gone are skipped.
func Remove(ctx context.Context, client *http.Client, bundlePath string, log utils.Logger, apiHost, auth string) (*function.Manifest, []string, error) {
	b, err := upstream.GetBundle(ctx, bundlePath, log)
	if err != nil {
		return nil, nil, err
	}
	defer b.Close()

	u, err := MakeUpstream(client, *b.Manifest, apiHost, auth)
	if err != nil {
		return nil, nil, err
	}

	var removed []string
	for _, f := range b.Manifest.OpenWhisk.Functions {
		err = u.DeleteAction(ctx, f.Name)
		switch {
		case errors.Cause(err) == utils.ErrNotFound:
			log.Debugw("Action not found, skipping", "name", f.Name)
			continue
		case err != nil:
			return nil, nil, errors.Wrapf(err, "failed to remove function %s", f.Name)
		}
		log.Infow("Removed action", "name", f.Name)
		removed = append(removed, u.ActionName(f.Name))
	}
	return b.Manifest, removed, nil
}

// DeleteAction deletes the action of the function name. A missing action is
// reported with utils.ErrNotFound as the cause.
func (u *Upstream) DeleteAction(ctx context.Context, name string) error {
	resp, err := u.do(ctx, http.MethodDelete, u.actionURL(name), nil)
	if err != nil {
		return errors.Wrapf(err, "failed to delete action %s", u.ActionName(name))
	}
	data, err := httputils.ReadAndClose(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return utils.NewNotFoundError("action %s", u.ActionName(name))
	default:
		return httputils.StatusToError(resp.StatusCode, strings.TrimSpace(string(data)))
	}
}
