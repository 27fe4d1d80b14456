package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

func TestIsValidHttpUrl(t *testing.T) {
	t.Parallel()

	for name, test := range map[string]struct {
		URL           string
		ExpectedError bool
	}{
		"empty url":                      {"", true},
		"bad url":                        {"bad url", true},
		"relative url":                   {"/function/nodeinfo", true},
		"url with invalid scheme":        {"htp://gateway.local", true},
		"url with just https":            {"https://", true},
		"correct url with http scheme":   {"http://gateway.local", false},
		"correct url with port":          {"http://127.0.0.1:8080/function", false},
		"correct url without scheme":     {"gateway.local/function/", true},
		"correct url with extra slashes": {"https://gateway.local/function//time", false},
	} {
		t.Run(name, func(t *testing.T) {
			err := utils.IsValidHTTPURL(test.URL)

			if test.ExpectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	for _, tc := range []struct {
		base, p, expected string
	}{
		{"http://localhost:8080", "/time", "http://localhost:8080/time"},
		{"http://localhost:8080/", "/time", "http://localhost:8080/time"},
		{"http://localhost:8080/", "time", "http://localhost:8080/time"},
		{"http://gw/function/probes-time", "", "http://gw/function/probes-time/"},
	} {
		t.Run(tc.base+tc.p, func(t *testing.T) {
			assert.Equal(t, tc.expected, utils.JoinURL(tc.base, tc.p))
		})
	}
}
