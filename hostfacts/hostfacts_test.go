// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package hostfacts

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCPUInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpuinfo")
	require.NoError(t, os.WriteFile(path, []byte("model name: Test CPU\n"), 0600))

	t.Run("reads the file as is", func(t *testing.T) {
		data, err := NewSystem(path).ReadCPUInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "model name: Test CPU\n", data)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewSystem(filepath.Join(dir, "nope")).ReadCPUInfo(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewSystem(path).ReadCPUInfo(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewSystemDefaults(t *testing.T) {
	s := NewSystem("").(*system)
	assert.Equal(t, CPUInfoPath, s.cpuInfoPath)

	t.Setenv(EnvCPUInfoPath, "/tmp/cpuinfo")
	s = NewSystemFromEnv().(*system)
	assert.Equal(t, "/tmp/cpuinfo", s.cpuInfoPath)
}

func TestHost(t *testing.T) {
	h, err := NewSystem("").Host(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, h.Platform)
	assert.Greater(t, h.CPUCount, 0)
}
