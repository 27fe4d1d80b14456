// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package nodeinfo reports the CPU info and basic facts of the host a function
// runs on.
package nodeinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattermost/mattermost-faas-probes/hostfacts"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

// VerboseToken in the invocation parameter enables the CPU and network
// interface dumps.
const VerboseToken = "verbose"

// Probe builds the report. The info source is read first; if it, or any of
// the host facts, can not be obtained the error's cause is
// utils.ErrUnavailable and no report is returned.
//
// The first line is labeled "Hostname" but holds the raw info source, minus
// its final newline. The label is kept for compatibility with existing
// consumers.
func Probe(ctx context.Context, facts hostfacts.Provider, param interface{}) (string, error) {
	data, err := facts.ReadCPUInfo(ctx)
	if err != nil {
		return "", utils.NewUnavailableError(err)
	}
	h, err := facts.Host(ctx)
	if err != nil {
		return "", utils.NewUnavailableError(err)
	}

	b := strings.Builder{}
	b.WriteString("Hostname: " + strings.TrimSuffix(data, "\n") + "\n")
	b.WriteString("Platform: " + h.Platform + "\n")
	b.WriteString("Arch: " + h.Arch + "\n")
	b.WriteString(fmt.Sprintf("CPU count: %d\n", h.CPUCount))
	b.WriteString(fmt.Sprintf("Uptime: %d\n", h.Uptime))

	if IsVerbose(param) {
		cpus, err := facts.CPUs(ctx)
		if err != nil {
			return "", utils.NewUnavailableError(err)
		}
		ifaces, err := facts.Interfaces(ctx)
		if err != nil {
			return "", utils.NewUnavailableError(err)
		}
		b.WriteString(utils.ToJSON(cpus) + "\n")
		b.WriteString(utils.ToJSON(ifaces) + "\n")
	}

	return b.String(), nil
}

// IsVerbose reports whether param, treated as a sequence, contains
// VerboseToken. Strings are searched for the substring, lists for an element
// equal to it. Anything else, including nil, is not verbose.
func IsVerbose(param interface{}) bool {
	switch v := param.(type) {
	case string:
		return strings.Contains(v, VerboseToken)
	case []byte:
		return strings.Contains(string(v), VerboseToken)
	case []string:
		for _, s := range v {
			if s == VerboseToken {
				return true
			}
		}
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok && s == VerboseToken {
				return true
			}
		}
	case fmt.Stringer:
		return strings.Contains(v.String(), VerboseToken)
	}
	return false
}
