// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package function

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

// ManifestFile is the name of the manifest file in a function bundle.
const ManifestFile = "manifest.yml"

// Manifest describes the function set and where each function is deployed.
// Only the sections for the platforms in use need to be present.
type Manifest struct {
	AppID   string `json:"app_id" yaml:"app_id"`
	Version string `json:"version" yaml:"version"`

	HTTP      *HTTP      `json:"http,omitempty" yaml:"http,omitempty"`
	AWSLambda *AWSLambda `json:"aws_lambda,omitempty" yaml:"aws_lambda,omitempty"`
	OpenFAAS  *OpenFAAS  `json:"open_faas,omitempty" yaml:"open_faas,omitempty"`
	OpenWhisk *OpenWhisk `json:"openwhisk,omitempty" yaml:"openwhisk,omitempty"`
}

// HTTP contains metadata for functions served over HTTP.
type HTTP struct {
	// All function paths are relative to the RootURL.
	RootURL string `json:"root_url,omitempty" yaml:"root_url,omitempty"`

	// UseJWT requires incoming requests to carry a JWT signed with the shared
	// secret.
	UseJWT bool `json:"use_jwt,omitempty" yaml:"use_jwt,omitempty"`
}

// AWSLambda contains metadata for functions deployed to AWS Lambda.
type AWSLambda struct {
	Region    string              `json:"region,omitempty" yaml:"region,omitempty"`
	Functions []AWSLambdaFunction `json:"functions,omitempty" yaml:"functions,omitempty"`
}

// AWSLambdaFunction maps a call path to a lambda function. The function with
// the longest Path that prefixes the call's path is invoked.
type AWSLambdaFunction struct {
	Path    string `json:"path" yaml:"path"`
	Name    string `json:"name" yaml:"name"`
	Handler string `json:"handler" yaml:"handler"`
	Runtime string `json:"runtime" yaml:"runtime"`
	Memory  int64  `json:"memory,omitempty" yaml:"memory,omitempty"`
	Timeout int64  `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Proxy functions serve the whole router through the API Gateway proxy
	// adapter instead of a single handler.
	Proxy bool `json:"proxy,omitempty" yaml:"proxy,omitempty"`
}

// OpenFAAS contains metadata for functions deployed to OpenFaaS or faasd.
type OpenFAAS struct {
	Gateway     string             `json:"gateway,omitempty" yaml:"gateway,omitempty"`
	ImagePrefix string             `json:"image_prefix,omitempty" yaml:"image_prefix,omitempty"`
	Functions   []OpenFAASFunction `json:"functions,omitempty" yaml:"functions,omitempty"`
}

type OpenFAASFunction struct {
	Path  string `json:"path" yaml:"path"`
	Name  string `json:"name" yaml:"name"`
	Image string `json:"image" yaml:"image"`
}

// OpenWhisk contains metadata for functions deployed as OpenWhisk actions.
type OpenWhisk struct {
	APIHost   string              `json:"api_host,omitempty" yaml:"api_host,omitempty"`
	Namespace string              `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Functions []OpenWhiskFunction `json:"functions,omitempty" yaml:"functions,omitempty"`
}

type OpenWhiskFunction struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
	// Kind is the action runtime, e.g. "go:1.19".
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Memory is in MB, Timeout in milliseconds.
	Memory  int64 `json:"memory,omitempty" yaml:"memory,omitempty"`
	Timeout int64 `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load manifest")
	}
	return DecodeManifest(data)
}

func DecodeManifest(data []byte) (*Manifest, error) {
	m := Manifest{}
	err := yaml.Unmarshal(data, &m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode manifest")
	}
	err = m.Validate()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (m Manifest) Validate() error {
	var result error
	if m.AppID == "" {
		result = multierror.Append(result, utils.NewInvalidError("app_id must not be empty"))
	}
	for _, v := range []interface{ Validate() error }{m.HTTP, m.AWSLambda, m.OpenFAAS, m.OpenWhisk} {
		if err := v.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

// Supports returns true if the manifest has a section for t.
func (m Manifest) Supports(t DeployType) bool {
	switch t {
	case DeployHTTP:
		return m.HTTP != nil
	case DeployAWSLambda:
		return m.AWSLambda != nil
	case DeployOpenFAAS:
		return m.OpenFAAS != nil
	case DeployOpenWhisk:
		return m.OpenWhisk != nil
	}
	return false
}

func (h *HTTP) Validate() error {
	if h == nil {
		return nil
	}
	if h.RootURL == "" {
		return nil
	}
	err := utils.IsValidHTTPURL(h.RootURL)
	if err != nil {
		return utils.NewInvalidError("invalid root_url: %q: %v", h.RootURL, err)
	}
	return nil
}

func (a *AWSLambda) Validate() error {
	if a == nil {
		return nil
	}
	var result error
	if len(a.Functions) == 0 {
		result = multierror.Append(result,
			utils.NewInvalidError("must provide at least 1 function in aws_lambda.functions"))
	}
	for _, f := range a.Functions {
		err := f.Validate()
		if err != nil {
			result = multierror.Append(result,
				errors.Wrapf(err, "%q is not valid", f.Name))
		}
	}
	return result
}

func (f AWSLambdaFunction) Validate() error {
	var result error
	if f.Path == "" {
		result = multierror.Append(result,
			utils.NewInvalidError("aws_lambda path must not be empty"))
	}
	if f.Name == "" {
		result = multierror.Append(result,
			utils.NewInvalidError("aws_lambda name must not be empty"))
	}
	if f.Handler == "" {
		result = multierror.Append(result,
			utils.NewInvalidError("aws_lambda handler must not be empty"))
	}
	if f.Runtime == "" {
		result = multierror.Append(result,
			utils.NewInvalidError("aws_lambda runtime must not be empty"))
	}
	return result
}

func (o *OpenFAAS) Validate() error {
	if o == nil {
		return nil
	}
	if len(o.Functions) == 0 {
		return utils.NewInvalidError("must provide at least 1 function in open_faas.functions")
	}
	var result error
	for _, f := range o.Functions {
		if f.Path == "" || f.Name == "" || f.Image == "" {
			result = multierror.Append(result,
				utils.NewInvalidError("invalid OpenFaaS function %q: path, name and image must not be empty", f.Name))
		}
	}
	return result
}

func (o *OpenWhisk) Validate() error {
	if o == nil {
		return nil
	}
	var result error
	if len(o.Functions) == 0 {
		result = multierror.Append(result,
			utils.NewInvalidError("must provide at least 1 function in openwhisk.functions"))
	}
	for _, f := range o.Functions {
		if f.Path == "" || f.Name == "" {
			result = multierror.Append(result,
				utils.NewInvalidError("invalid OpenWhisk function %q: path and name must not be empty", f.Name))
		}
	}
	return result
}

// Routable is anything mapped to a call path.
type Routable interface {
	RoutePath() string
}

func (f AWSLambdaFunction) RoutePath() string { return f.Path }
func (f OpenFAASFunction) RoutePath() string  { return f.Path }
func (f OpenWhiskFunction) RoutePath() string { return f.Path }

// Match returns the element whose path is the longest prefix of callPath.
func Match[F Routable](callPath string, ff []F) (F, bool) {
	var matched F
	matchedPath := ""
	found := false
	for _, f := range ff {
		p := f.RoutePath()
		if !strings.HasPrefix(callPath, p) {
			continue
		}
		if !found || len(p) > len(matchedPath) {
			matched = f
			matchedPath = p
			found = true
		}
	}
	return matched, found
}

// QualifiedName combines the app ID, version and a function's short name into
// the name a function is deployed under. Only [a-z0-9-] survive, so the name
// is valid for all supported platforms.
func QualifiedName(appID, version, name string) string {
	sanitize := func(s string) string {
		s = strings.ToLower(s)
		return strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
				return r
			default:
				return '-'
			}
		}, s)
	}
	if version == "" {
		return fmt.Sprintf("%s-%s", sanitize(appID), sanitize(name))
	}
	return fmt.Sprintf("%s-%s-%s", sanitize(appID), sanitize(version), sanitize(name))
}
