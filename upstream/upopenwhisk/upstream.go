// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package upopenwhisk invokes functions deployed as OpenWhisk actions, with
// blocking invocations of the REST API.
package upopenwhisk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream"
	"github.com/mattermost/mattermost-faas-probes/utils"
	"github.com/mattermost/mattermost-faas-probes/utils/httputils"
)

const (
	// Same as the wsk CLI properties.
	EnvAPIHost = "OPENWHISK_APIHOST"
	EnvAuth    = "OPENWHISK_AUTH"

	DefaultNamespace = "_"
)

type Upstream struct {
	client    *http.Client
	manifest  function.Manifest
	apiHost   string
	namespace string
	user      string
	password  string
}

var _ upstream.Upstream = (*Upstream)(nil)

// MakeUpstream makes an Upstream for the actions of m. The API host and the
// namespace default to the manifest's, the auth key ("uuid:key") to
// $OPENWHISK_AUTH.
func MakeUpstream(client *http.Client, m function.Manifest, apiHost, auth string) (*Upstream, error) {
	if m.OpenWhisk == nil {
		return nil, errors.Errorf("%s has no openwhisk section in the manifest", m.AppID)
	}
	if apiHost == "" {
		apiHost = os.Getenv(EnvAPIHost)
	}
	if apiHost == "" {
		apiHost = m.OpenWhisk.APIHost
	}
	if apiHost == "" {
		return nil, utils.NewInvalidError("OpenWhisk API host must be set, use %s", EnvAPIHost)
	}
	if !strings.HasPrefix(apiHost, "http://") && !strings.HasPrefix(apiHost, "https://") {
		apiHost = "https://" + apiHost
	}
	if auth == "" {
		auth = os.Getenv(EnvAuth)
	}
	user, password, ok := strings.Cut(auth, ":")
	if !ok {
		return nil, utils.NewInvalidError("OpenWhisk auth must be in the form of uuid:key, use %s", EnvAuth)
	}
	namespace := m.OpenWhisk.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Upstream{
		client:    client,
		manifest:  m,
		apiHost:   strings.TrimSuffix(apiHost, "/"),
		namespace: namespace,
		user:      user,
		password:  password,
	}, nil
}

// ActionURL returns the blocking invocation URL of the action that serves
// path.
func (u *Upstream) ActionURL(path string) (string, error) {
	matched, ok := function.Match(path, u.manifest.OpenWhisk.Functions)
	if !ok {
		return "", utils.NewNotFoundError("no action matched %q", path)
	}
	return u.actionURL(matched.Name) + "?blocking=true&result=true", nil
}

// ActionName returns the name a function is deployed under.
func (u *Upstream) ActionName(name string) string {
	return function.QualifiedName(u.manifest.AppID, u.manifest.Version, name)
}

func (u *Upstream) actionURL(name string) string {
	return fmt.Sprintf("%s/api/v1/namespaces/%s/actions/%s",
		u.apiHost, url.PathEscape(u.namespace), url.PathEscape(u.ActionName(name)))
}

func (u *Upstream) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(u.user, u.password)
	req.Header.Set("Content-Type", "application/json")
	return u.client.Do(req)
}

func (u *Upstream) Invoke(ctx context.Context, path string, params map[string]string) (string, error) {
	actionURL, err := u.ActionURL(path)
	if err != nil {
		return "", err
	}
	if params == nil {
		params = map[string]string{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode parameters")
	}

	resp, err := u.do(ctx, http.MethodPost, actionURL, body)
	if err != nil {
		return "", errors.Wrapf(err, "failed to invoke action for %s", path)
	}
	data, err := httputils.ReadAndClose(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read action result")
	}
	return ResultFromJSON(resp.StatusCode, data)
}

// Result is what the action resolves or rejects with.
type Result struct {
	Payload *string `json:"payload,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// ResultFromJSON decodes an action result. OpenWhisk reports a rejected
// action as 502, and its own failures with other statuses.
func ResultFromJSON(statusCode int, data []byte) (string, error) {
	result := Result{}
	err := json.Unmarshal(data, &result)
	if err != nil {
		return "", httputils.StatusToError(statusCode, strings.TrimSpace(string(data)))
	}
	switch {
	case result.Error != "":
		return "", errors.Errorf("action failed with status code %v: %s", statusCode, result.Error)
	case statusCode != http.StatusOK:
		return "", httputils.StatusToError(statusCode, strings.TrimSpace(string(data)))
	case result.Payload == nil:
		return "", errors.Errorf("action result has no payload: %s", data)
	}
	return *result.Payload, nil
}
