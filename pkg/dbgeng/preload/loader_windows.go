// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package preload

import "golang.org/x/sys/windows"

type nativeLoader struct{}

// NativeLoader returns a Loader backed by LoadLibraryEx.
func NativeLoader() Loader {
	return nativeLoader{}
}

// Load resolves the library's own dependencies from its directory first.
func (nativeLoader) Load(path string) (Handle, error) {
	h, err := windows.LoadLibraryEx(path, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return 0, err
	}
	return Handle(h), nil
}

func (nativeLoader) Release(h Handle) error {
	if h == 0 {
		return nil
	}
	return windows.FreeLibrary(windows.Handle(h))
}
