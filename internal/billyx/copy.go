// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package billyx provides utilities for working with billy filesystems.
package billyx

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
)

// Host returns a filesystem addressed by absolute host paths.
func Host() billy.Filesystem {
	return osfs.New("")
}

// Exists reports whether anything exists at path.
func Exists(fs billy.Basic, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// CopyFile copies the regular file at srcPath in src to dstPath in dst,
// replacing any existing file.
func CopyFile(dst billy.Filesystem, dstPath string, src billy.Filesystem, srcPath string) error {
	in, err := src.Open(srcPath)
	if err != nil {
		return errors.Wrapf(err, "opening %s", srcPath)
	}
	defer in.Close()
	out, err := dst.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dstPath)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "copying %s", srcPath)
	}
	return errors.Wrapf(out.Close(), "closing %s", dstPath)
}

// CopyFiles copies each named file from srcDir in src into dstDir in dst.
func CopyFiles(dst billy.Filesystem, dstDir string, src billy.Filesystem, srcDir string, names ...string) error {
	for _, name := range names {
		if err := CopyFile(dst, dst.Join(dstDir, name), src, src.Join(srcDir, name)); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns the full contents of path.
func ReadFile(fs billy.Basic, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
