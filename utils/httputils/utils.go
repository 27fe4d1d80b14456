// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package httputils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

func WriteError(w http.ResponseWriter, err error) {
	if err == nil {
		http.Error(w, "invalid (unknown?) error", http.StatusInternalServerError)
		return
	}

	http.Error(w, err.Error(), ErrorToStatus(err))
}

// ErrorToStatus maps an error's cause to the HTTP status reported to the
// caller. A host resource that could not be read is reported as 404, the way
// the AWS variant of nodeinfo always did.
func ErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch errors.Cause(err) {
	case utils.ErrUnavailable, utils.ErrNotFound:
		return http.StatusNotFound
	case utils.ErrInvalid:
		return http.StatusBadRequest
	case utils.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSONStatus encodes and writes out an object, with a custom response
// status code.
func WriteJSONStatus(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// WriteJSON encodes and writes out an object, with a 200 response status code.
func WriteJSON(w http.ResponseWriter, v interface{}) error {
	return WriteJSONStatus(w, http.StatusOK, v)
}

// WriteText writes out a plain text body with a 200 response status code.
func WriteText(w http.ResponseWriter, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := io.WriteString(w, text)
	return err
}

// DoHandleJSONData returns an http.HandleFunc that serves a JSON-encoded data
// chunk.
func DoHandleJSONData(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}

// DoHandleJSON returns an http.HandleFunc that serves v, JSON-encoded.
func DoHandleJSON(v interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		_ = WriteJSON(w, v)
	}
}

const InLimit = 10 * (1 << 20)

func ReadAndClose(in io.ReadCloser) ([]byte, error) {
	if in == nil {
		return []byte{}, nil
	}
	defer in.Close()
	return LimitReadAll(in, InLimit)
}

func LimitReadAll(in io.Reader, limit int64) ([]byte, error) {
	if in == nil {
		return []byte{}, nil
	}
	return io.ReadAll(&io.LimitedReader{R: in, N: limit})
}
