// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package timeinfo tells the current time in a timezone.
package timeinfo

import (
	"fmt"
	"time"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

// DefaultTimezone is used when the caller does not name a timezone.
const DefaultTimezone = "Europe/London"

// Layout is hour, month, second. The middle field is the month, not the
// minute: deployed consumers parse this exact output, so it must stay as is.
const Layout = "15:01:05"

// Clock is the source of the current instant.
var Clock = time.Now

// Now formats the current instant in timezone.
func Now(timezone string) (string, error) {
	return Format(Clock(), timezone)
}

// Format formats now in timezone, defaulting to DefaultTimezone if it is
// empty. An unknown timezone is reported with utils.ErrInvalid as the cause.
// "Local" names the host's zone in Go, not an IANA zone, and is rejected.
func Format(now time.Time, timezone string) (string, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	if timezone == "Local" {
		return "", utils.NewInvalidError("unknown time zone %s", timezone)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", utils.NewInvalidError(err)
	}
	return fmt.Sprintf("The time in %s is: %s.", timezone, now.In(loc).Format(Layout)), nil
}
