// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upopenfaas

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/upstream"
	"github.com/mattermost/mattermost-faas-probes/upstream/uphttp"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

const (
	// Environment variable used by probesctl to find OpenFaaS
	EnvGatewayURL = "OPENFAAS_URL"

	// Environment variables set for function execution
	FuncEnvMode     = "MODE"
	FuncEnvFunction = "FUNCTION"

	// Stack file in the bundle, for provisioning
	StackFile = "stack.yml"
)

type Upstream struct {
	uphttp.Upstream

	Gateway string
}

var _ upstream.Upstream = (*Upstream)(nil)

// MakeUpstream makes an Upstream for the functions of m, deployed to the
// gateway. An empty gateway is read from $OPENFAAS_URL.
func MakeUpstream(client *http.Client, m function.Manifest, gateway string) (*Upstream, error) {
	if gateway == "" {
		gateway = os.Getenv(EnvGatewayURL)
	}
	if gateway == "" && m.OpenFAAS != nil {
		gateway = m.OpenFAAS.Gateway
	}
	if gateway == "" {
		return nil, utils.NewNotFoundError(EnvGatewayURL + " environment variable must be defined")
	}
	up := &Upstream{
		Gateway: gateway,
	}
	up.Upstream = *uphttp.NewUpstream(client, "", func(path string) (string, error) {
		return RootURL(m, up.Gateway, path)
	})
	return up, nil
}

func RootURL(m function.Manifest, gateway, path string) (string, error) {
	if m.OpenFAAS == nil {
		return "", errors.Errorf("failed to get root URL: %s has no open_faas section in the manifest", m.AppID)
	}

	matched, ok := function.Match(path, m.OpenFAAS.Functions)
	if !ok {
		return "", utils.NewNotFoundError("no function matched %q", path)
	}

	return fmt.Sprintf("%s/function/%s", strings.TrimSuffix(gateway, "/"), FunctionName(m, matched.Name)), nil
}

func FunctionName(m function.Manifest, name string) string {
	return function.QualifiedName(m.AppID, m.Version, name)
}
