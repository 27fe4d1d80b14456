// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ErrorKey = "error"

type Logger interface {
	// from zap.SugaredLogger
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// implemented here to provide a consistent interface, without using
	// *zap.SugaredLogger
	WithError(error) Logger
	With(args ...interface{}) Logger
}

type logger struct {
	*zap.SugaredLogger
}

var _ Logger = (*logger)(nil)

func (l *logger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return &logger{
		SugaredLogger: l.SugaredLogger.With(ErrorKey, err.Error()),
	}
}

// HasLoggable is implemented by values that know how to log themselves as a
// list of key/value pairs, e.g. function.Request.
type HasLoggable interface {
	Loggable() []interface{}
}

// expandWith expands anything that implements HasLoggable into name, value
// pairs.
func expandWith(args []interface{}) []interface{} {
	var with []interface{}

	expectKeyOrProps := true
	for _, v := range args {
		lp, hasProps := v.(HasLoggable)
		_, isString := v.(string)
		switch {
		case !expectKeyOrProps:
			with = append(with, v)
			expectKeyOrProps = true
		case hasProps:
			with = append(with, expandWith(lp.Loggable())...)
		case !isString:
			with = append(with, "log_error", fmt.Sprintf("expected a string key or HasLoggable, found %T", v))
			return with
		default:
			// a string key.
			with = append(with, v)
			expectKeyOrProps = false
		}
	}
	return with
}

func (l *logger) With(args ...interface{}) Logger {
	return &logger{
		SugaredLogger: l.SugaredLogger.With(expandWith(args)...),
	}
}

func NewTestLogger() Logger {
	l, err := zap.NewDevelopmentConfig().Build()
	if err != nil {
		panic(err.Error())
	}
	return &logger{
		SugaredLogger: l.Sugar(),
	}
}

// NewNopLogger discards everything, used where no logger was configured.
func NewNopLogger() Logger {
	return &logger{
		SugaredLogger: zap.NewNop().Sugar(),
	}
}

func MustMakeCommandLogger(level zapcore.Level) Logger {
	encodingConfig := zap.NewProductionEncoderConfig()
	encodingConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encodingConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encodingConfig.EncodeDuration = zapcore.StringDurationEncoder
	encodingConfig.EncodeCaller = zapcore.ShortCallerEncoder

	zconf := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encodingConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := zconf.Build()
	if err != nil {
		panic(err.Error())
	}
	return &logger{
		SugaredLogger: l.Sugar(),
	}
}

// LevelFromString parses a level name, e.g. from an environment variable,
// defaulting to InfoLevel.
func LevelFromString(s string) zapcore.Level {
	level := zapcore.InfoLevel
	if s == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}
