// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package goapp serves a function set over HTTP, in the request/response
// convention shared by plain HTTP servers, Google Cloud Functions and the
// OpenFaaS golang-middleware template. The awsapp and owapp subpackages adapt
// the same App to AWS Lambda and OpenWhisk.
package goapp

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/utils"
	"github.com/mattermost/mattermost-faas-probes/utils/httputils"
)

type App struct {
	Manifest function.Manifest

	Log       utils.Logger
	Mode      function.DeployType
	Router    *mux.Router
	Functions []function.Function

	jwtSecret string
}

type AppOption func(app *App) error

func MakeAppOrPanic(m function.Manifest, opts ...AppOption) *App {
	app, err := MakeApp(m, opts...)
	if err != nil {
		panic(err)
	}
	return app
}

func MakeApp(m function.Manifest, opts ...AppOption) (*App, error) {
	app := &App{
		Manifest:  m,
		Log:       utils.NewNopLogger(),
		Router:    mux.NewRouter(),
		jwtSecret: os.Getenv(function.EnvJWTSecret),
	}

	for _, opt := range opts {
		err := opt(app)
		if err != nil {
			return nil, err
		}
	}

	// Set up the auto-served HTTP routes.
	app.Router.Path("/ping").HandlerFunc(httputils.DoHandleJSONData([]byte("{}")))
	app.Router.Path("/manifest.json").HandlerFunc(httputils.DoHandleJSON(&app.Manifest)).Methods(http.MethodGet)
	for _, f := range app.Functions {
		app.HandleFunction(f)
	}

	app.Router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		app.Log.Debugf("Function request: not found: %q", req.URL.String())
		http.NotFound(w, req)
	})

	return app, nil
}

func WithLog(log utils.Logger) AppOption {
	return func(app *App) error {
		app.Log = log
		return nil
	}
}

func WithFunctions(ff ...function.Function) AppOption {
	return func(app *App) error {
		for _, f := range ff {
			if f.Path == "" || f.Handler == nil {
				return utils.NewInvalidError("function %q must have a path and a handler", f.Name)
			}
		}
		app.Functions = append(app.Functions, ff...)
		return nil
	}
}

// WithJWTSecret overrides the shared secret read from $PROBES_JWT_SECRET.
func WithJWTSecret(secret string) AppOption {
	return func(app *App) error {
		app.jwtSecret = secret
		return nil
	}
}

// Function looks up a function by its name or path.
func (app *App) Function(nameOrPath string) (function.Function, error) {
	for _, f := range app.Functions {
		if f.Name == nameOrPath || f.Path == nameOrPath {
			return f, nil
		}
	}
	return function.Function{}, utils.NewNotFoundError("function %q", nameOrPath)
}

// Route returns the function to run for a call path: the function with the
// longest path that prefixes it.
func (app *App) Route(callPath string) (function.Function, error) {
	f, ok := function.Match(callPath, app.Functions)
	if !ok {
		return function.Function{}, utils.NewNotFoundError("no function for path %q", callPath)
	}
	return f, nil
}
