// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package uphttp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream"
	"github.com/mattermost/mattermost-faas-probes/utils"
	"github.com/mattermost/mattermost-faas-probes/utils/httputils"
)

// RootURLFunc returns the root URL of the function that serves path.
type RootURLFunc func(path string) (string, error)

type Upstream struct {
	client    *http.Client
	jwtSecret string
	rootURL   RootURLFunc
}

var _ upstream.Upstream = (*Upstream)(nil)

// NewUpstream makes an Upstream for functions served over HTTP. If jwtSecret
// is set, requests carry a JWT signed with it.
func NewUpstream(client *http.Client, jwtSecret string, rootURL RootURLFunc) *Upstream {
	if client == nil {
		client = http.DefaultClient
	}
	return &Upstream{
		client:    client,
		jwtSecret: jwtSecret,
		rootURL:   rootURL,
	}
}

// StaticRootURL serves all paths from the same root URL, e.g. a single goapp
// server.
func StaticRootURL(rootURL string) RootURLFunc {
	return func(string) (string, error) {
		return rootURL, nil
	}
}

func (u *Upstream) Invoke(ctx context.Context, path string, params map[string]string) (string, error) {
	rootURL, err := u.rootURL(path)
	if err != nil {
		return "", err
	}
	callURL := utils.JoinURL(rootURL, path)
	if err = utils.IsValidHTTPURL(callURL); err != nil {
		return "", utils.NewInvalidError("invalid function URL %q: %v", callURL, err)
	}

	if params == nil {
		params = map[string]string{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode parameters")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if u.jwtSecret != "" {
		jwtoken, jwtErr := function.NewJWT("probesctl", u.jwtSecret)
		if jwtErr != nil {
			return "", jwtErr
		}
		req.Header.Set(function.AuthHeader, "Bearer "+jwtoken)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to invoke %s", callURL)
	}
	data, err := httputils.ReadAndClose(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read response from %s", callURL)
	}
	if resp.StatusCode != http.StatusOK {
		return "", httputils.StatusToError(resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return string(data), nil
}
