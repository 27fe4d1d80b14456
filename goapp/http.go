// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package goapp

import (
	"net/http"
	"net/url"
	"os"

	"go.uber.org/zap/zapcore"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/utils"
	"github.com/mattermost/mattermost-faas-probes/utils/httputils"
)

func (app *App) RunHTTP() {
	if app.Log == nil {
		app.Log = utils.MustMakeCommandLogger(zapcore.DebugLevel)
	}

	app.Mode = function.DeployHTTP
	if app.Manifest.HTTP == nil {
		app.Log.Debugf("Using default HTTP deploy settings")
		app.Manifest.HTTP = &function.HTTP{}
	}

	rootURL := os.Getenv("ROOT_URL")
	if rootURL != "" {
		app.Manifest.HTTP.RootURL = rootURL
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		u, err := url.Parse(app.Manifest.HTTP.RootURL)
		if err != nil {
			panic(err)
		}
		portStr = u.Port()
		if portStr == "" {
			portStr = "8080"
		}
	}

	if app.Manifest.HTTP.RootURL == "" {
		app.Manifest.HTTP.RootURL = "http://localhost:" + portStr
	}

	http.Handle("/", app.Router)

	listen := ":" + portStr
	app.Log.Infof("%s started, listening on port %s, manifest at `%s/manifest.json`; use environment variables PORT and ROOT_URL to customize.", app.Manifest.AppID, portStr, app.Manifest.HTTP.RootURL)
	panic(http.ListenAndServe(listen, nil))
}

// Handle is the entry point for the OpenFaaS golang-middleware template, and
// for Google Cloud Functions' HTTP trigger.
func (app *App) Handle(w http.ResponseWriter, req *http.Request) {
	if app.Mode == "" {
		app.Mode = function.DeployOpenFAAS
	}
	app.Router.ServeHTTP(w, req)
}

func (app *App) HandleFunction(f function.Function) {
	app.Router.Path(f.Path).Methods(http.MethodGet, http.MethodPost).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log := app.Log.With("function", f.Name)
		if app.requireJWT() {
			_, err := function.CheckAuthHeader(req.Header.Get(function.AuthHeader), app.jwtSecret)
			if err != nil {
				log.WithError(err).Debugw("Rejected request.")
				httputils.WriteError(w, err)
				return
			}
		}

		freq, err := RequestFromHTTP(req)
		if err != nil {
			httputils.WriteError(w, err)
			return
		}
		log = log.With(freq)

		text, err := f.Handler(req.Context(), freq)
		if err != nil {
			log.WithError(err).Debugw("Function failed.")
			httputils.WriteError(w, err)
			return
		}
		_ = httputils.WriteText(w, text)
		log.Debugw("Function call.")
	})
}

func (app *App) requireJWT() bool {
	return app.Manifest.HTTP != nil && app.Manifest.HTTP.UseJWT
}

// RequestFromHTTP extracts a function request. Query string parameters and the
// fields of a JSON object body become Values; the raw body is kept as Body.
func RequestFromHTTP(req *http.Request) (function.Request, error) {
	data, err := httputils.ReadAndClose(req.Body)
	if err != nil {
		return function.Request{}, utils.NewInvalidError(err)
	}
	freq := function.Request{
		Path:   req.URL.Path,
		Body:   string(data),
		Values: function.ValuesFromQuery(req.URL.Query()),
	}
	freq.MergeJSONBody()
	return freq, nil
}
