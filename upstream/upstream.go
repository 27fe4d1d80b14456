// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package upstream invokes deployed functions. Each subpackage talks to one
// platform.
package upstream

import (
	"context"
)

// Upstream should be abbreviated as `up`.
type Upstream interface {
	// Invoke calls the function deployed for path, and returns its text
	// result. A failed function's error has the cause reported by the
	// platform, see httputils.StatusToError.
	Invoke(ctx context.Context, path string, params map[string]string) (string, error)
}
