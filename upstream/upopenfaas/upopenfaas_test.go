// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upopenfaas

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/openfaas/faas-cli/stack"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

var testManifest = function.Manifest{
	AppID:   "probes",
	Version: "v1.0.0",
	OpenFAAS: &function.OpenFAAS{
		Functions: []function.OpenFAASFunction{
			{Path: "/nodeinfo", Name: "nodeinfo", Image: "probes:latest"},
			{Path: "/time", Name: "time", Image: "probes:latest"},
		},
	},
}

const testStack = `version: 1.0
provider:
  name: openfaas
  gateway: http://127.0.0.1:8080
functions:
  nodeinfo:
    lang: golang-middleware
    handler: ./nodeinfo
    image: probes:latest
    environment:
      PROBES_CPUINFO_PATH: /proc/cpuinfo
`

func TestRootURL(t *testing.T) {
	u, err := RootURL(testManifest, "http://gw:8080/", "/time")
	require.NoError(t, err)
	require.Equal(t, "http://gw:8080/function/probes-v1-0-0-time", u)

	_, err = RootURL(testManifest, "http://gw:8080", "/other")
	require.Equal(t, utils.ErrNotFound, errors.Cause(err))

	_, err = RootURL(function.Manifest{AppID: "probes"}, "http://gw:8080", "/time")
	require.Error(t, err)
}

func TestInvoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/function/probes-v1-0-0-nodeinfo/nodeinfo", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"mode":"verbose"}`, string(data))
		_, _ = w.Write([]byte("Hostname: test\n"))
	}))
	defer server.Close()

	up, err := MakeUpstream(server.Client(), testManifest, server.URL)
	require.NoError(t, err)
	text, err := up.Invoke(context.Background(), "/nodeinfo", map[string]string{"mode": "verbose"})
	require.NoError(t, err)
	require.Equal(t, "Hostname: test\n", text)
}

func TestMakeUpstreamNoGateway(t *testing.T) {
	t.Setenv(EnvGatewayURL, "")
	_, err := MakeUpstream(nil, function.Manifest{AppID: "probes"}, "")
	require.Error(t, err)
}

func TestPrepareStack(t *testing.T) {
	stackFile := filepath.Join(t.TempDir(), StackFile)
	require.NoError(t, os.WriteFile(stackFile, []byte(testStack), 0600))

	err := PrepareStack(stackFile, testManifest, "http://gw:31112", "registry.example.com/probes")
	require.NoError(t, err)

	services, err := stack.ParseYAMLFile(stackFile, "", "", false)
	require.NoError(t, err)
	require.Equal(t, "http://gw:31112", services.Provider.GatewayURL)
	require.Len(t, services.Functions, 1)
	f, ok := services.Functions["probes-v1-0-0-nodeinfo"]
	require.True(t, ok)
	require.Equal(t, "registry.example.com/probes/probes:latest", f.Image)
	require.Equal(t, map[string]string{
		"PROBES_CPUINFO_PATH": "/proc/cpuinfo",
		"MODE":                "http",
		"FUNCTION":            "nodeinfo",
	}, f.Environment)
}

func TestFaasCLIArgs(t *testing.T) {
	require.Equal(t, []string{"up", "-f", "stack.yml"}, FaasCLIArgs("stack.yml", true))
	require.Equal(t, []string{"up", "-f", "stack.yml", "--update=false", "--replace=false"}, FaasCLIArgs("stack.yml", false))
	require.Equal(t, []string{"remove", "-f", "stack.yml"}, FaasCLIRemoveArgs("stack.yml"))
}

const testBundleManifest = `
app_id: probes
version: v1.0.0
open_faas:
  gateway: http://127.0.0.1:8080
  functions:
    - path: /nodeinfo
      name: nodeinfo
      image: probes:latest
`

// fakeFaasCLI puts a faas-cli on PATH that records its arguments and the
// stack file it was run with.
func fakeFaasCLI(t *testing.T) (argsFile, stackCopy string) {
	bin := t.TempDir()
	argsFile = filepath.Join(bin, "args")
	stackCopy = filepath.Join(bin, "stack-copy.yml")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\ncp " + StackFile + " " + stackCopy + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "faas-cli"), []byte(script), 0700))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	return argsFile, stackCopy
}

func writeBundle(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, function.ManifestFile), []byte(testBundleManifest), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, StackFile), []byte(testStack), 0600))
	return dir
}

func TestRemove(t *testing.T) {
	argsFile, stackCopy := fakeFaasCLI(t)

	m, err := Remove(context.Background(), writeBundle(t), utils.NewTestLogger(), "http://gw:31112")
	require.NoError(t, err)
	require.Equal(t, "probes", m.AppID)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "remove -f stack.yml\n", string(args))

	services, err := stack.ParseYAMLFile(stackCopy, "", "", false)
	require.NoError(t, err)
	require.Equal(t, "http://gw:31112", services.Provider.GatewayURL)
	_, ok := services.Functions["probes-v1-0-0-nodeinfo"]
	require.True(t, ok)
}

func TestRemoveWithoutFaasCLI(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Remove(context.Background(), writeBundle(t), utils.NewTestLogger(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to find faas-cli command")
}
