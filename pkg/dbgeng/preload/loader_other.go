// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package preload

import "github.com/pkg/errors"

type nativeLoader struct{}

// NativeLoader returns a Loader that always fails with ErrUnsupported.
func NativeLoader() Loader {
	return nativeLoader{}
}

func (nativeLoader) Load(path string) (Handle, error) {
	return 0, errors.Wrapf(ErrUnsupported, "loading %s", path)
}

func (nativeLoader) Release(Handle) error {
	return nil
}
