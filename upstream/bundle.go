// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upstream

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter"
	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

// Bundle is a function bundle fetched into a temp directory. Close removes
// it.
type Bundle struct {
	Manifest *function.Manifest
	Dir      string

	root string
}

func (b *Bundle) Path(name string) string {
	return filepath.Join(b.Dir, name)
}

func (b *Bundle) Close() error {
	return os.RemoveAll(b.root)
}

// GetBundle fetches a function bundle (a local directory or archive, or a
// URL) and loads its manifest.
//
//	probes.zip
//	 |-- manifest.yml
//	 |-- nodeinfo.zip      AWS Lambda deployment packages, by function name
//	 |-- time.zip
//	 |-- stack.yml         OpenFaaS stack file
func GetBundle(ctx context.Context, bundlePath string, log utils.Logger) (*Bundle, error) {
	dir, err := os.MkdirTemp("", "probes-bundle-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory to unpack the bundle")
	}

	pwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current working directory")
	}

	// go-getter refuses to unpack into an existing directory in dir mode.
	dst := filepath.Join(dir, "bundle")
	getBundle := getter.Client{
		Mode: getter.ClientModeDir,
		Src:  bundlePath,
		Dst:  dst,
		Pwd:  pwd,
		Ctx:  ctx,
	}
	err = getBundle.Get()
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "failed to get bundle "+bundlePath)
	}

	m, err := function.LoadManifest(filepath.Join(dst, function.ManifestFile))
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrapf(err, "invalid bundle %s", bundlePath)
	}
	log.Debugw("Loaded bundle",
		"bundle", bundlePath,
		"app_id", m.AppID)

	return &Bundle{
		Manifest: m,
		Dir:      dst,
		root:     dir,
	}, nil
}
