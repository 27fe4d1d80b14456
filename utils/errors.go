// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package utils

import "github.com/pkg/errors"

// ErrUnavailable is the cause of errors where a host resource could not be
// read. ErrInvalid is the cause of errors where an invocation parameter was
// rejected.
var ErrUnavailable = errors.New("resource unavailable")
var ErrInvalid = errors.New("invalid parameter")
var ErrNotFound = errors.New("not found")
var ErrUnauthorized = errors.New("unauthorized")

// NewError wraps source with a message. The first arg may be a format string
// (followed by its args) or an error, whose text is used as the message.
func NewError(source error, args ...interface{}) error {
	if len(args) == 0 {
		return source
	}
	s, _ := args[0].(string)
	err, _ := args[0].(error)

	switch {
	case s != "":
		return errors.Wrapf(source, s, args[1:]...)

	case err != nil:
		return errors.Wrap(source, err.Error())

	default:
		return source
	}
}

func NewUnavailableError(args ...interface{}) error  { return NewError(ErrUnavailable, args...) }
func NewInvalidError(args ...interface{}) error      { return NewError(ErrInvalid, args...) }
func NewNotFoundError(args ...interface{}) error     { return NewError(ErrNotFound, args...) }
func NewUnauthorizedError(args ...interface{}) error { return NewError(ErrUnauthorized, args...) }
