// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package function

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifestYAML = `
app_id: probes
version: v1.2.0
http:
  root_url: http://localhost:8080
aws_lambda:
  region: eu-west-2
  functions:
    - path: /nodeinfo
      name: nodeinfo
      handler: bootstrap
      runtime: provided.al2
      memory: 128
      timeout: 10
    - path: /time
      name: time
      handler: bootstrap
      runtime: provided.al2
open_faas:
  gateway: http://127.0.0.1:8080
  functions:
    - path: /nodeinfo
      name: nodeinfo
      image: probes:latest
openwhisk:
  api_host: https://openwhisk.local
  namespace: guest
  functions:
    - path: /time
      name: time
      kind: go:1.19
      timeout: 3000
`

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFile)
	require.NoError(t, os.WriteFile(path, []byte(testManifestYAML), 0600))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	expected := &Manifest{
		AppID:   "probes",
		Version: "v1.2.0",
		HTTP:    &HTTP{RootURL: "http://localhost:8080"},
		AWSLambda: &AWSLambda{
			Region: "eu-west-2",
			Functions: []AWSLambdaFunction{
				{Path: "/nodeinfo", Name: "nodeinfo", Handler: "bootstrap", Runtime: "provided.al2", Memory: 128, Timeout: 10},
				{Path: "/time", Name: "time", Handler: "bootstrap", Runtime: "provided.al2"},
			},
		},
		OpenFAAS: &OpenFAAS{
			Gateway:   "http://127.0.0.1:8080",
			Functions: []OpenFAASFunction{{Path: "/nodeinfo", Name: "nodeinfo", Image: "probes:latest"}},
		},
		OpenWhisk: &OpenWhisk{
			APIHost:   "https://openwhisk.local",
			Namespace: "guest",
			Functions: []OpenWhiskFunction{{Path: "/time", Name: "time", Kind: "go:1.19", Timeout: 3000}},
		},
	}
	if diff := cmp.Diff(expected, m); diff != "" {
		t.Fatalf("unexpected manifest (-want +got):\n%s", diff)
	}

	for _, dt := range DeployTypes {
		assert.True(t, m.Supports(dt), dt.String())
	}

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestManifestValidate(t *testing.T) {
	for _, tc := range []struct {
		name     string
		m        Manifest
		expected int
	}{
		{
			name: "minimal",
			m:    Manifest{AppID: "probes"},
		},
		{
			name:     "no app_id",
			m:        Manifest{},
			expected: 1,
		},
		{
			name: "bad root_url",
			m: Manifest{
				AppID: "probes",
				HTTP:  &HTTP{RootURL: "localhost:8080"},
			},
			expected: 1,
		},
		{
			name: "empty aws_lambda",
			m: Manifest{
				AppID:     "probes",
				AWSLambda: &AWSLambda{},
			},
			expected: 1,
		},
		{
			name: "incomplete lambda function",
			m: Manifest{
				AppID: "probes",
				AWSLambda: &AWSLambda{
					Functions: []AWSLambdaFunction{{Path: "/time"}},
				},
				OpenWhisk: &OpenWhisk{
					Functions: []OpenWhiskFunction{{Name: "time"}},
				},
			},
			expected: 2,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.m.Validate()
			if tc.expected == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			merr, ok := err.(*multierror.Error)
			require.True(t, ok, "%T", err)
			require.Len(t, merr.Errors, tc.expected)
		})
	}
}

func TestMatch(t *testing.T) {
	lambdas := []AWSLambdaFunction{
		{Path: "/topic", Name: "topic"},
		{Path: "/topic/subtopic/", Name: "subtopic"},
		{Path: "/other", Name: "other"},
		{Path: "/", Name: "main"},
	}

	for _, tc := range []struct {
		callPath string
		expected string
	}{
		{"/different", "main"},
		{"/topic/subtopic/and-then-some", "subtopic"},
		{"/topic/other/and-then-some", "topic"},
		{"/other/and-then-some", "other"},
	} {
		t.Run(tc.callPath, func(t *testing.T) {
			matched, ok := Match(tc.callPath, lambdas)
			require.True(t, ok)
			assert.Equal(t, tc.expected, matched.Name)
		})
	}

	_, ok := Match("/time", []OpenWhiskFunction{{Path: "/nodeinfo", Name: "nodeinfo"}})
	assert.False(t, ok)
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "probes-v1-2-0-nodeinfo", QualifiedName("probes", "v1.2.0", "nodeinfo"))
	assert.Equal(t, "com-acme-probes-my-time", QualifiedName("com.acme.Probes", "", "my_time"))
}
