// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

// Package hostfacts provides read-only access to the facts about the machine a
// function runs on.
package hostfacts

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/net"
)

// CPUInfoPath is the info source read by default.
const CPUInfoPath = "/proc/cpuinfo"

// EnvCPUInfoPath overrides CPUInfoPath for the function binaries.
const EnvCPUInfoPath = "PROBES_CPUINFO_PATH"

// Host holds the host facts that do not need a separate source read.
type Host struct {
	Platform string
	Arch     string
	CPUCount int
	Uptime   uint64 // seconds
}

//go:generate mockgen -destination=../mocks/mock_hostfacts/mock_hostfacts.go -package=mock_hostfacts github.com/mattermost/mattermost-faas-probes/hostfacts Provider

// Provider is the narrow view of the host used by the probes. Implementations
// must not keep state between calls.
type Provider interface {
	ReadCPUInfo(ctx context.Context) (string, error)
	Host(ctx context.Context) (Host, error)
	CPUs(ctx context.Context) ([]cpu.InfoStat, error)
	Interfaces(ctx context.Context) (net.InterfaceStatList, error)
}

type system struct {
	cpuInfoPath string
}

var _ Provider = (*system)(nil)

// NewSystem returns the Provider backed by the running host. An empty path
// means CPUInfoPath.
func NewSystem(cpuInfoPath string) Provider {
	if cpuInfoPath == "" {
		cpuInfoPath = CPUInfoPath
	}
	return &system{
		cpuInfoPath: cpuInfoPath,
	}
}

// NewSystemFromEnv is NewSystem with the path taken from EnvCPUInfoPath.
func NewSystemFromEnv() Provider {
	return NewSystem(os.Getenv(EnvCPUInfoPath))
}

// ReadCPUInfo reads the info source in a single attempt. The read error is
// returned as is.
func (s *system) ReadCPUInfo(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.cpuInfoPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *system) Host(ctx context.Context) (Host, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Host{}, errors.Wrap(err, "failed to get host info")
	}
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return Host{}, errors.Wrap(err, "failed to count CPUs")
	}
	return Host{
		Platform: info.OS,
		Arch:     info.KernelArch,
		CPUCount: count,
		Uptime:   info.Uptime,
	}, nil
}

func (s *system) CPUs(ctx context.Context) ([]cpu.InfoStat, error) {
	cpus, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get CPU info")
	}
	return cpus, nil
}

func (s *system) Interfaces(ctx context.Context) (net.InterfaceStatList, error) {
	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list network interfaces")
	}
	return ifaces, nil
}
