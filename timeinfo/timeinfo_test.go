// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package timeinfo

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

// 2021-07-15 09:42:17 UTC; July, so London is on BST (UTC+1) and New York on
// EDT (UTC-4).
var testNow = time.Date(2021, time.July, 15, 9, 42, 17, 0, time.UTC)

func TestFormat(t *testing.T) {
	for _, tc := range []struct {
		timezone string
		expected string
	}{
		// The middle field is the month (07), not the minute (42).
		{"", "The time in Europe/London is: 10:07:17."},
		{"Europe/London", "The time in Europe/London is: 10:07:17."},
		{"America/New_York", "The time in America/New_York is: 05:07:17."},
		{"UTC", "The time in UTC is: 09:07:17."},
		{"Asia/Kolkata", "The time in Asia/Kolkata is: 15:07:17."},
	} {
		t.Run(tc.timezone, func(t *testing.T) {
			out, err := Format(testNow, tc.timezone)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestFormatMonthInMinutePosition(t *testing.T) {
	jan, err := Format(time.Date(2021, time.January, 1, 12, 30, 0, 0, time.UTC), "UTC")
	require.NoError(t, err)
	dec, err := Format(time.Date(2021, time.December, 1, 12, 30, 0, 0, time.UTC), "UTC")
	require.NoError(t, err)

	assert.Equal(t, "The time in UTC is: 12:01:00.", jan)
	assert.Equal(t, "The time in UTC is: 12:12:00.", dec)
}

func TestFormatInvalidTimezone(t *testing.T) {
	for _, tz := range []string{"Mars/Olympus_Mons", "../../etc/passwd", "Not A Zone", "Local"} {
		t.Run(tz, func(t *testing.T) {
			out, err := Format(testNow, tz)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.Equal(t, utils.ErrInvalid, errors.Cause(err))
		})
	}
}

func TestNow(t *testing.T) {
	saved := Clock
	defer func() { Clock = saved }()
	Clock = func() time.Time { return testNow }

	out, err := Now("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "The time in Europe/London is:"))

	again, err := Now("")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}
